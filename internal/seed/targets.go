package seed

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/turnkeeper/internal/game/character"
	"github.com/cory-johannsen/turnkeeper/internal/game/room"
	"github.com/cory-johannsen/turnkeeper/internal/storage/memory"
	"github.com/cory-johannsen/turnkeeper/internal/storage/postgres"
)

// PostgresTarget applies fixtures through the postgres repositories.
type PostgresTarget struct {
	Accounts   *postgres.AccountRepository
	Characters *postgres.CharacterRepository
	Rooms      *postgres.RoomRepository
}

var _ Target = (*PostgresTarget)(nil)

// NewPostgresTarget builds a PostgresTarget over one pool.
func NewPostgresTarget(db *pgxpool.Pool) *PostgresTarget {
	return &PostgresTarget{
		Accounts:   postgres.NewAccountRepository(db),
		Characters: postgres.NewCharacterRepository(db),
		Rooms:      postgres.NewRoomRepository(db),
	}
}

// EnsureAccount implements Target.
func (t *PostgresTarget) EnsureAccount(ctx context.Context, username, password string) (int64, bool, error) {
	acct, created, err := t.Accounts.Ensure(ctx, username, password)
	return acct.ID, created, err
}

// EnsureCharacter implements Target. Characters match on owner and name.
func (t *PostgresTarget) EnsureCharacter(ctx context.Context, c *character.Character) (*character.Character, bool, error) {
	existing, err := t.Characters.GetByOwnerAndName(ctx, c.OwnerID, c.Name)
	if err == nil {
		return existing, false, nil
	}
	if !stderrors.Is(err, character.ErrNotFound) {
		return nil, false, err
	}
	created, err := t.Characters.Create(ctx, c)
	return created, err == nil, err
}

// EnsureRoom implements Target. Rooms match on code.
func (t *PostgresTarget) EnsureRoom(ctx context.Context, r *room.Room) (*room.Room, bool, error) {
	existing, err := t.Rooms.GetByCode(ctx, r.Code)
	if err == nil {
		return existing, false, nil
	}
	if !stderrors.Is(err, room.ErrNotFound) {
		return nil, false, err
	}
	created, err := t.Rooms.Create(ctx, r)
	if stderrors.Is(err, postgres.ErrRoomCodeTaken) {
		existing, err = t.Rooms.GetByCode(ctx, r.Code)
		return existing, false, err
	}
	return created, err == nil, err
}

// AddPlayer implements Target.
func (t *PostgresTarget) AddPlayer(ctx context.Context, roomID, accountID int64) error {
	return t.Rooms.AddPlayer(ctx, roomID, accountID)
}

// AddCharacter implements Target.
func (t *PostgresTarget) AddCharacter(ctx context.Context, roomID, characterID int64) error {
	return t.Rooms.AddCharacter(ctx, roomID, characterID)
}

// MemoryTarget applies fixtures to an in-memory store. The store has no
// accounts, so usernames are mapped to ids here.
type MemoryTarget struct {
	store *memory.Store

	mu       sync.Mutex
	accounts map[string]int64
	nextID   int64
}

var _ Target = (*MemoryTarget)(nil)

// NewMemoryTarget wraps store.
func NewMemoryTarget(store *memory.Store) *MemoryTarget {
	return &MemoryTarget{store: store, accounts: make(map[string]int64)}
}

// AccountID returns the id assigned to username, or 0.
func (t *MemoryTarget) AccountID(username string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.accounts[username]
}

// EnsureAccount implements Target. Passwords are not kept.
func (t *MemoryTarget) EnsureAccount(_ context.Context, username, _ string) (int64, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.accounts[username]; ok {
		return id, false, nil
	}
	t.nextID++
	t.accounts[username] = t.nextID
	return t.nextID, true, nil
}

// EnsureCharacter implements Target.
func (t *MemoryTarget) EnsureCharacter(_ context.Context, c *character.Character) (*character.Character, bool, error) {
	existing, err := t.store.CharacterByOwnerAndName(c.OwnerID, c.Name)
	if err == nil {
		return existing, false, nil
	}
	created, err := t.store.CreateCharacter(c)
	return created, err == nil, err
}

// EnsureRoom implements Target.
func (t *MemoryTarget) EnsureRoom(_ context.Context, r *room.Room) (*room.Room, bool, error) {
	existing, err := t.store.RoomByCode(r.Code)
	if err == nil {
		return existing, false, nil
	}
	created, err := t.store.CreateRoom(r)
	return created, err == nil, err
}

// AddPlayer implements Target.
func (t *MemoryTarget) AddPlayer(_ context.Context, roomID, accountID int64) error {
	return t.store.AddPlayer(roomID, accountID)
}

// AddCharacter implements Target.
func (t *MemoryTarget) AddCharacter(_ context.Context, roomID, characterID int64) error {
	return t.store.AddToRoster(roomID, characterID)
}
