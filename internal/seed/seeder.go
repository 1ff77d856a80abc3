package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/turnkeeper/internal/errors"
	"github.com/cory-johannsen/turnkeeper/internal/game/character"
	"github.com/cory-johannsen/turnkeeper/internal/game/room"
)

// Target is the store a fixture is applied to. Every Ensure method returns
// the existing record when one matches, and reports whether it created one.
type Target interface {
	EnsureAccount(ctx context.Context, username, password string) (int64, bool, error)
	EnsureCharacter(ctx context.Context, c *character.Character) (*character.Character, bool, error)
	EnsureRoom(ctx context.Context, r *room.Room) (*room.Room, bool, error)
	AddPlayer(ctx context.Context, roomID, accountID int64) error
	AddCharacter(ctx context.Context, roomID, characterID int64) error
}

// Result counts what Apply created and what already existed.
type Result struct {
	AccountsCreated   int
	CharactersCreated int
	RoomsCreated      int
	Existing          int
	// Rooms maps each fixture room code to its stored ID.
	Rooms map[string]int64
}

// Seeder applies fixtures to a Target.
type Seeder struct {
	target Target
	logger *zap.Logger
}

// NewSeeder creates a Seeder.
//
// Precondition: target and logger must be non-nil.
func NewSeeder(target Target, logger *zap.Logger) (*Seeder, error) {
	if target == nil {
		return nil, errors.InvalidArgument("target cannot be nil")
	}
	if logger == nil {
		return nil, errors.InvalidArgument("logger cannot be nil")
	}
	return &Seeder{target: target, logger: logger}, nil
}

// Apply ensures every account, character and room in f exists, then adds the
// room memberships. Applying the same fixture twice creates nothing new.
func (s *Seeder) Apply(ctx context.Context, f *Fixture) (*Result, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	res := &Result{Rooms: make(map[string]int64, len(f.Rooms))}

	accounts := make(map[string]int64, len(f.Accounts))
	for _, a := range f.Accounts {
		id, created, err := s.target.EnsureAccount(ctx, a.Username, a.Password)
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", a.Username, err)
		}
		accounts[a.Username] = id
		res.count(created, &res.AccountsCreated)
		s.logger.Debug("seeded account", zap.String("username", a.Username), zap.Bool("created", created))
	}

	characters := make(map[string]int64, len(f.Characters))
	for _, spec := range f.Characters {
		c, err := spec.build(accounts[spec.Owner])
		if err != nil {
			return nil, fmt.Errorf("character %q: %w", spec.Name, err)
		}
		stored, created, err := s.target.EnsureCharacter(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("character %q: %w", spec.Name, err)
		}
		characters[spec.Name] = stored.ID
		res.count(created, &res.CharactersCreated)
	}

	for _, spec := range f.Rooms {
		r, created, err := s.target.EnsureRoom(ctx, &room.Room{
			Name:        spec.Name,
			Code:        spec.Code,
			Description: spec.Description,
			Story:       spec.Story,
			MasterID:    accounts[spec.Master],
			Open:        true,
		})
		if err != nil {
			return nil, fmt.Errorf("room %q: %w", spec.Name, err)
		}
		res.Rooms[spec.Code] = r.ID
		res.count(created, &res.RoomsCreated)

		for _, p := range spec.Players {
			if err := s.target.AddPlayer(ctx, r.ID, accounts[p]); err != nil {
				return nil, fmt.Errorf("room %q: adding player %q: %w", spec.Name, p, err)
			}
		}
		for _, n := range spec.Roster {
			if err := s.target.AddCharacter(ctx, r.ID, characters[n]); err != nil {
				return nil, fmt.Errorf("room %q: adding character %q: %w", spec.Name, n, err)
			}
		}
		s.logger.Info("seeded room",
			zap.String("room", r.String()),
			zap.Int64("room_id", r.ID),
			zap.Bool("created", created),
			zap.Int("players", len(spec.Players)),
			zap.Int("roster", len(spec.Roster)),
		)
	}

	return res, nil
}

func (r *Result) count(created bool, n *int) {
	if created {
		*n++
		return
	}
	r.Existing++
}
