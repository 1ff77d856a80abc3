package errors_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/turnkeeper/internal/errors"
)

func TestError_Format(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: room 3 not found", errors.NotFoundf("room %d not found", 3).Error())

	wrapped := errors.Wrap(stderrors.New("boom"), "loading room")
	assert.Equal(t, "INTERNAL: loading room: boom", wrapped.Error())
}

func TestWrap_PreservesCode(t *testing.T) {
	base := errors.PermissionDenied("not the master").WithMeta("room_id", int64(4))
	wrapped := errors.Wrap(fmt.Errorf("outer: %w", base), "starting initiative")

	assert.Equal(t, errors.CodePermissionDenied, wrapped.Code)
	assert.Equal(t, int64(4), wrapped.Meta["room_id"])
	assert.True(t, errors.IsPermissionDenied(wrapped))
	assert.True(t, stderrors.Is(wrapped, errors.PermissionDenied("")))
	assert.Nil(t, errors.Wrap(nil, "x"))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, errors.Code(""), errors.CodeOf(nil))
	assert.Equal(t, errors.CodeInternal, errors.CodeOf(stderrors.New("plain")))
	assert.Equal(t, errors.CodeNotFound, errors.CodeOf(errors.NotFound("x")))
}

func TestGRPCRoundTrip(t *testing.T) {
	for _, code := range []errors.Code{
		errors.CodeInvalidArgument, errors.CodeNotFound, errors.CodeAlreadyExists,
		errors.CodePermissionDenied, errors.CodeFailedPrecondition,
		errors.CodeUnauthenticated, errors.CodeUnavailable, errors.CodeInternal,
	} {
		t.Run(code.String(), func(t *testing.T) {
			gerr := errors.ToGRPCError(errors.New(code, "msg"))
			st, ok := status.FromError(gerr)
			require.True(t, ok)
			assert.Equal(t, code.GRPCCode(), st.Code())

			back := errors.FromGRPCError(gerr)
			assert.Equal(t, code, errors.CodeOf(back))
		})
	}
}

func TestToGRPCError_HidesForeignErrors(t *testing.T) {
	st, _ := status.FromError(errors.ToGRPCError(stderrors.New("password=hunter2")))
	assert.Equal(t, codes.Internal, st.Code())
	assert.NotContains(t, st.Message(), "hunter2")
	assert.NoError(t, errors.ToGRPCError(nil))
}

func TestToGRPCError_ContextErrors(t *testing.T) {
	wrapped := errors.Wrap(context.DeadlineExceeded, "advancing turn")
	st, _ := status.FromError(errors.ToGRPCError(wrapped))
	assert.Equal(t, codes.DeadlineExceeded, st.Code())

	st, _ = status.FromError(errors.ToGRPCError(context.Canceled))
	assert.Equal(t, codes.Canceled, st.Code())
}
