package initiative

import (
	"context"

	"github.com/cory-johannsen/turnkeeper/internal/game/character"
	"github.com/cory-johannsen/turnkeeper/internal/game/room"
)

// Store persists rooms and initiative entries for the Engine.
//
// Update and View return room.ErrNotFound when roomID does not exist, and
// otherwise return fn's error unchanged.
type Store interface {
	// Update runs fn inside one transaction holding an exclusive lock on the
	// room. Writes made through tx are committed only if fn returns nil.
	Update(ctx context.Context, roomID int64, fn func(tx Tx) error) error
	// View runs fn against a consistent read-only snapshot of the room.
	View(ctx context.Context, roomID int64, fn func(tx Tx) error) error
}

// Tx is a unit of work scoped to one room.
type Tx interface {
	// Room returns the room loaded when the transaction began.
	Room() *room.Room
	// Roster returns the room's characters ordered by name.
	Roster(ctx context.Context) ([]*character.Character, error)
	// IsPlayer reports whether userID joined the room as a player.
	IsPlayer(ctx context.Context, userID int64) (bool, error)
	// Entries returns the room's entries for round, unordered, with character names set.
	Entries(ctx context.Context, round int) ([]*Entry, error)
	// EnsureEntry returns the entry for key, creating a zero-valued one when
	// absent. A concurrent create of the same key is adopted, not reported.
	EnsureEntry(ctx context.Context, key Key) (*Entry, error)
	// SaveEntry persists the roll and turn flags of an existing entry.
	SaveEntry(ctx context.Context, e *Entry) error
	// SaveTurn persists the room's turn state.
	SaveTurn(ctx context.Context, t room.TurnState) error
}
