package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/turnkeeper/internal/game/character"
	"github.com/cory-johannsen/turnkeeper/internal/game/room"
)

// ErrRoomCodeTaken is returned when a room code is already in use.
var ErrRoomCodeTaken = errors.New("room code already taken")

// RoomRepository persists rooms and their player and character membership.
type RoomRepository struct {
	db *pgxpool.Pool
}

// NewRoomRepository creates a RoomRepository backed by the given pool.
func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

const roomColumns = `id, name, code, description, story, master_id, is_open,
	initiative_active, current_round, current_turn_index, created_at, updated_at`

// Create inserts r. An empty Code is generated. Turn state starts idle at round 0.
//
// Postcondition: Returns the stored room, ErrRoomCodeTaken or ErrAccountNotFound.
func (r *RoomRepository) Create(ctx context.Context, rm *room.Room) (*room.Room, error) {
	in := *rm
	if in.Code == "" {
		in.Code = room.NewCode()
	}
	in.Code = strings.ToUpper(in.Code)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	out, err := scanRoom(r.db.QueryRow(ctx, `
		INSERT INTO rooms (name, code, description, story, master_id, is_open)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+roomColumns,
		in.Name, in.Code, in.Description, in.Story, in.MasterID, in.Open,
	))
	if err != nil {
		switch {
		case isDuplicateKeyError(err):
			return nil, ErrRoomCodeTaken
		case isForeignKeyError(err):
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("inserting room: %w", err)
	}
	return out, nil
}

// GetByID retrieves a room by primary key.
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*room.Room, error) {
	return getRoom(ctx, r.db, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id)
}

// GetByCode retrieves a room by its join code, case-insensitively.
func (r *RoomRepository) GetByCode(ctx context.Context, code string) (*room.Room, error) {
	return getRoom(ctx, r.db, `SELECT `+roomColumns+` FROM rooms WHERE code = $1`, strings.ToUpper(code))
}

// AddPlayer records accountID as a player of roomID. Joining twice is a no-op.
func (r *RoomRepository) AddPlayer(ctx context.Context, roomID, accountID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO room_players (room_id, account_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, roomID, accountID)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("adding player %d to room %d: %w", accountID, roomID, room.ErrNotFound)
		}
		return fmt.Errorf("adding player: %w", err)
	}
	return nil
}

// AddCharacter puts characterID on roomID's roster. Adding twice is a no-op.
func (r *RoomRepository) AddCharacter(ctx context.Context, roomID, characterID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO room_characters (room_id, character_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, roomID, characterID)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("adding character %d to room %d: %w", characterID, roomID, character.ErrNotFound)
		}
		return fmt.Errorf("adding character: %w", err)
	}
	return nil
}

// RemoveCharacter drops characterID from roomID's roster. Its entries are kept.
func (r *RoomRepository) RemoveCharacter(ctx context.Context, roomID, characterID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM room_characters WHERE room_id = $1 AND character_id = $2`, roomID, characterID)
	if err != nil {
		return fmt.Errorf("removing character: %w", err)
	}
	return nil
}

// PlayerCount returns the number of players who joined roomID.
func (r *RoomRepository) PlayerCount(ctx context.Context, roomID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM room_players WHERE room_id = $1`, roomID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting players: %w", err)
	}
	return n, nil
}

// CharacterCount returns the size of roomID's roster.
func (r *RoomRepository) CharacterCount(ctx context.Context, roomID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM room_characters WHERE room_id = $1`, roomID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting characters: %w", err)
	}
	return n, nil
}

func getRoom(ctx context.Context, q querier, sql string, args ...any) (*room.Room, error) {
	rm, err := scanRoom(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, room.ErrNotFound
		}
		return nil, fmt.Errorf("querying room: %w", err)
	}
	return rm, nil
}

func scanRoom(row scanner) (*room.Room, error) {
	var rm room.Room
	err := row.Scan(
		&rm.ID, &rm.Name, &rm.Code, &rm.Description, &rm.Story, &rm.MasterID, &rm.Open,
		&rm.Turn.Active, &rm.Turn.Round, &rm.Turn.TurnIndex, &rm.CreatedAt, &rm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}
