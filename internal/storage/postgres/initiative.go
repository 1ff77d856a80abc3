package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/turnkeeper/internal/game/character"
	"github.com/cory-johannsen/turnkeeper/internal/game/initiative"
	"github.com/cory-johannsen/turnkeeper/internal/game/room"
)

// ErrReadOnly is returned when a write is attempted through a View transaction.
var ErrReadOnly = errors.New("postgres: write in read-only transaction")

// InitiativeStore implements initiative.Store. Update holds SELECT ... FOR
// UPDATE on the room row for the whole transaction.
type InitiativeStore struct {
	db *pgxpool.Pool
}

// NewInitiativeStore creates an InitiativeStore backed by the given pool.
func NewInitiativeStore(db *pgxpool.Pool) *InitiativeStore {
	return &InitiativeStore{db: db}
}

// Update implements initiative.Store.
func (s *InitiativeStore) Update(ctx context.Context, roomID int64, fn func(tx initiative.Tx) error) error {
	return withTx(ctx, s.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		rm, err := getRoom(ctx, tx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1 FOR UPDATE`, roomID)
		if err != nil {
			return err
		}
		return fn(&initiativeTx{q: tx, room: rm, writable: true})
	})
}

// View implements initiative.Store.
func (s *InitiativeStore) View(ctx context.Context, roomID int64, fn func(tx initiative.Tx) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	return withTx(ctx, s.db, opts, func(tx pgx.Tx) error {
		rm, err := getRoom(ctx, tx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, roomID)
		if err != nil {
			return err
		}
		return fn(&initiativeTx{q: tx, room: rm})
	})
}

type initiativeTx struct {
	q        querier
	room     *room.Room
	writable bool
}

func (t *initiativeTx) Room() *room.Room { return t.room }

func (t *initiativeTx) Roster(ctx context.Context) ([]*character.Character, error) {
	rows, err := t.q.Query(ctx, `
		SELECT `+characterColumns+` FROM characters
		WHERE id IN (SELECT character_id FROM room_characters WHERE room_id = $1)
		ORDER BY name, id`, t.room.ID)
	if err != nil {
		return nil, fmt.Errorf("loading roster: %w", err)
	}
	return collectCharacters(rows)
}

func (t *initiativeTx) IsPlayer(ctx context.Context, userID int64) (bool, error) {
	var ok bool
	err := t.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM room_players WHERE room_id = $1 AND account_id = $2)`,
		t.room.ID, userID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("checking room player: %w", err)
	}
	return ok, nil
}

const entrySelect = `
	SELECT i.id, i.room_id, i.character_id, i.round, i.roll, i.bonus, i.total,
	       i.current_turn, i.completed, i.created_at, c.name, c.type
	FROM initiatives i JOIN characters c ON c.id = i.character_id`

func (t *initiativeTx) Entries(ctx context.Context, round int) ([]*initiative.Entry, error) {
	rows, err := t.q.Query(ctx, entrySelect+` WHERE i.room_id = $1 AND i.round = $2`, t.room.ID, round)
	if err != nil {
		return nil, fmt.Errorf("loading entries: %w", err)
	}
	defer rows.Close()

	var entries []*initiative.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// EnsureEntry inserts the key if absent and then reads it back, so a row
// created by a concurrent transaction is adopted rather than reported.
func (t *initiativeTx) EnsureEntry(ctx context.Context, key initiative.Key) (*initiative.Entry, error) {
	if !t.writable {
		return nil, ErrReadOnly
	}
	_, err := t.q.Exec(ctx, `
		INSERT INTO initiatives (room_id, character_id, round) VALUES ($1, $2, $3)
		ON CONFLICT (room_id, character_id, round) DO NOTHING`,
		key.RoomID, key.CharacterID, key.Round)
	if err != nil {
		if isForeignKeyError(err) {
			return nil, fmt.Errorf("creating entry for character %d: %w", key.CharacterID, character.ErrNotFound)
		}
		return nil, fmt.Errorf("creating entry: %w", err)
	}
	e, err := scanEntry(t.q.QueryRow(ctx,
		entrySelect+` WHERE i.room_id = $1 AND i.character_id = $2 AND i.round = $3`,
		key.RoomID, key.CharacterID, key.Round))
	if err != nil {
		return nil, fmt.Errorf("reading entry: %w", err)
	}
	return e, nil
}

func (t *initiativeTx) SaveEntry(ctx context.Context, e *initiative.Entry) error {
	if !t.writable {
		return ErrReadOnly
	}
	tag, err := t.q.Exec(ctx, `
		UPDATE initiatives
		SET roll = $2, bonus = $3, total = $4, current_turn = $5, completed = $6
		WHERE id = $1`,
		e.ID, e.Roll, e.Bonus, e.Total, e.CurrentTurn, e.Completed)
	if err != nil {
		return fmt.Errorf("saving entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("saving entry %d: no such row", e.ID)
	}
	return nil
}

func (t *initiativeTx) SaveTurn(ctx context.Context, turn room.TurnState) error {
	if !t.writable {
		return ErrReadOnly
	}
	_, err := t.q.Exec(ctx, `
		UPDATE rooms
		SET initiative_active = $2, current_round = $3, current_turn_index = $4, updated_at = NOW()
		WHERE id = $1`,
		t.room.ID, turn.Active, turn.Round, turn.TurnIndex)
	if err != nil {
		return fmt.Errorf("saving turn state: %w", err)
	}
	return nil
}

func scanEntry(row scanner) (*initiative.Entry, error) {
	var (
		e   initiative.Entry
		typ string
	)
	err := row.Scan(
		&e.ID, &e.RoomID, &e.CharacterID, &e.Round, &e.Roll, &e.Bonus, &e.Total,
		&e.CurrentTurn, &e.Completed, &e.CreatedAt, &e.CharacterName, &typ,
	)
	if err != nil {
		return nil, err
	}
	e.CharacterType = character.Type(typ)
	return &e, nil
}
