// Package initiative implements the turn-order engine: rolling initiative for a
// room's roster, ordering the queue and advancing turns across rounds.
package initiative

import (
	"fmt"
	"time"

	"github.com/cory-johannsen/turnkeeper/internal/game/character"
	"github.com/cory-johannsen/turnkeeper/internal/game/dice"
)

// Key identifies an entry. At most one entry exists per Key.
type Key struct {
	RoomID      int64 `json:"room_id"`
	CharacterID int64 `json:"character_id"`
	Round       int   `json:"round"`
}

// Entry is one combatant's initiative for a room and round.
//
// Invariant: Total == Roll + Bonus; 1 <= Roll <= 20 once rolled.
type Entry struct {
	ID int64 `json:"id"`
	Key

	CharacterName string         `json:"character_name"`
	CharacterType character.Type `json:"character_type"`

	Roll  int `json:"roll"`
	Bonus int `json:"bonus"`
	Total int `json:"total"`

	CurrentTurn bool `json:"current_turn"`
	Completed   bool `json:"completed"`

	CreatedAt time.Time `json:"created_at"`
}

// Apply records an initiative roll for c on e.
//
// Precondition: r is a 1d20 roll whose modifier is c's initiative modifier.
func (e *Entry) Apply(c *character.Character, r dice.RollResult) {
	e.CharacterName = c.Name
	e.CharacterType = c.Type
	e.Roll = r.Total() - r.Modifier
	e.Bonus = r.Modifier
	e.Total = r.Total()
}

// String returns "Name - total (droll + bonus)".
func (e *Entry) String() string {
	return fmt.Sprintf("%s - %d (d%d + %d)", e.CharacterName, e.Total, e.Roll, e.Bonus)
}
