// Package room defines game-session rooms and their initiative turn state.
package room

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxCodeLength bounds the join code players type to enter a room.
const MaxCodeLength = 10

// Room groups a master, a set of players and a roster of characters.
//
// ID is assigned by the persistence layer; zero means unsaved.
type Room struct {
	ID          int64
	Name        string
	Code        string
	Description string
	Story       string
	MasterID    int64
	// Open is false once the master closes the room to new activity.
	Open bool
	Turn TurnState

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCode returns a fresh upper-case join code of MaxCodeLength characters or fewer.
func NewCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}

// IsMaster reports whether userID is this room's master.
func (r *Room) IsMaster(userID int64) bool {
	return userID != 0 && r.MasterID == userID
}

// Validate checks the fields storage requires.
func (r *Room) Validate() error {
	if r.Name == "" {
		return errors.New("room name must not be empty")
	}
	if len(r.Name) > 100 {
		return fmt.Errorf("room name %q exceeds 100 characters", r.Name)
	}
	if r.Code == "" || len(r.Code) > MaxCodeLength {
		return fmt.Errorf("room %q: code must be 1-%d characters, got %q", r.Name, MaxCodeLength, r.Code)
	}
	if r.MasterID <= 0 {
		return fmt.Errorf("room %q: master must be set", r.Name)
	}
	return nil
}

// String returns "Name (Code: CODE)".
func (r *Room) String() string {
	return fmt.Sprintf("%s (Code: %s)", r.Name, r.Code)
}

// ErrNotFound is returned by stores when a room lookup yields no results.
var ErrNotFound = errors.New("room not found")
