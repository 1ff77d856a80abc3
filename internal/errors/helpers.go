package errors

// InvalidArgument creates a CodeInvalidArgument error.
func InvalidArgument(message string) *Error { return New(CodeInvalidArgument, message) }

// InvalidArgumentf creates a CodeInvalidArgument error with a formatted message.
func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// NotFound creates a CodeNotFound error.
func NotFound(message string) *Error { return New(CodeNotFound, message) }

// NotFoundf creates a CodeNotFound error with a formatted message.
func NotFoundf(format string, args ...any) *Error { return Newf(CodeNotFound, format, args...) }

// AlreadyExists creates a CodeAlreadyExists error.
func AlreadyExists(message string) *Error { return New(CodeAlreadyExists, message) }

// PermissionDenied creates a CodePermissionDenied error.
func PermissionDenied(message string) *Error { return New(CodePermissionDenied, message) }

// PermissionDeniedf creates a CodePermissionDenied error with a formatted message.
func PermissionDeniedf(format string, args ...any) *Error {
	return Newf(CodePermissionDenied, format, args...)
}

// Unauthenticated creates a CodeUnauthenticated error.
func Unauthenticated(message string) *Error { return New(CodeUnauthenticated, message) }

// Internal creates a CodeInternal error.
func Internal(message string) *Error { return New(CodeInternal, message) }

// IsNotFound reports whether err carries CodeNotFound.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsPermissionDenied reports whether err carries CodePermissionDenied.
func IsPermissionDenied(err error) bool { return CodeOf(err) == CodePermissionDenied }

// IsInvalidArgument reports whether err carries CodeInvalidArgument.
func IsInvalidArgument(err error) bool { return CodeOf(err) == CodeInvalidArgument }

// IsAlreadyExists reports whether err carries CodeAlreadyExists.
func IsAlreadyExists(err error) bool { return CodeOf(err) == CodeAlreadyExists }
