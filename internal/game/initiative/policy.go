package initiative

import (
	"context"

	"github.com/cory-johannsen/turnkeeper/internal/errors"
	"github.com/cory-johannsen/turnkeeper/internal/game/character"
)

// Actor is the already-authenticated user issuing a request.
type Actor struct {
	UserID int64
}

// Policy decides whether an actor may perform an operation on the room held by tx.
type Policy interface {
	// CanManage guards start, next-turn, reset and whole-room rolls.
	CanManage(ctx context.Context, tx Tx, actor Actor) error
	// CanRoll guards rolling initiative for a single character.
	CanRoll(ctx context.Context, tx Tx, actor Actor, c *character.Character) error
}

// MasterPolicy lets the room master do everything and lets a player roll for
// characters they own in a room they joined.
type MasterPolicy struct{}

// CanManage allows only the room master.
func (MasterPolicy) CanManage(_ context.Context, tx Tx, actor Actor) error {
	r := tx.Room()
	if !r.IsMaster(actor.UserID) {
		return errors.PermissionDeniedf("only the master of room %d can manage initiative", r.ID).
			WithMeta("room_id", r.ID).
			WithMeta("user_id", actor.UserID)
	}
	return nil
}

// CanRoll allows the master, or a joined player who owns c.
func (MasterPolicy) CanRoll(ctx context.Context, tx Tx, actor Actor, c *character.Character) error {
	r := tx.Room()
	if r.IsMaster(actor.UserID) {
		return nil
	}
	if actor.UserID == 0 || c.OwnerID != actor.UserID {
		return errors.PermissionDeniedf("user %d does not own character %d", actor.UserID, c.ID)
	}
	joined, err := tx.IsPlayer(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if !joined {
		return errors.PermissionDeniedf("user %d is not a player in room %d", actor.UserID, r.ID)
	}
	return nil
}
