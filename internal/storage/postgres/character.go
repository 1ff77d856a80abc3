package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/turnkeeper/internal/game/character"
)

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

const characterColumns = `id, owner_id, name, type, description,
	strength, dexterity, constitution, intelligence, wisdom, charisma,
	armor_class, hit_points, speed, created_at, updated_at`

// Create inserts c and returns the stored row. Armor class is recomputed first.
//
// Precondition: c.OwnerID must reference an existing account.
// Postcondition: Returns the created character with ID set, or ErrAccountNotFound
// when the owner does not exist.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out, err := scanCharacter(r.db.QueryRow(ctx, `
		INSERT INTO characters
			(owner_id, name, type, description,
			 strength, dexterity, constitution, intelligence, wisdom, charisma,
			 armor_class, hit_points, speed)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING `+characterColumns,
		c.OwnerID, c.Name, string(c.Type), c.Description,
		c.Abilities.Strength, c.Abilities.Dexterity, c.Abilities.Constitution,
		c.Abilities.Intelligence, c.Abilities.Wisdom, c.Abilities.Charisma,
		c.ArmorClass, c.HitPoints, c.Speed,
	))
	if err != nil {
		if isForeignKeyError(err) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return out, nil
}

// Update persists every mutable field of c. Armor class is recomputed first.
//
// Postcondition: Returns the stored row or character.ErrNotFound.
func (r *CharacterRepository) Update(ctx context.Context, c *character.Character) (*character.Character, error) {
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out, err := scanCharacter(r.db.QueryRow(ctx, `
		UPDATE characters SET
			name = $2, type = $3, description = $4,
			strength = $5, dexterity = $6, constitution = $7,
			intelligence = $8, wisdom = $9, charisma = $10,
			armor_class = $11, hit_points = $12, speed = $13,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+characterColumns,
		c.ID, c.Name, string(c.Type), c.Description,
		c.Abilities.Strength, c.Abilities.Dexterity, c.Abilities.Constitution,
		c.Abilities.Intelligence, c.Abilities.Wisdom, c.Abilities.Charisma,
		c.ArmorClass, c.HitPoints, c.Speed,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, character.ErrNotFound
		}
		return nil, fmt.Errorf("updating character: %w", err)
	}
	return out, nil
}

// GetByID retrieves a character by its primary key.
//
// Postcondition: Returns the Character or character.ErrNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (*character.Character, error) {
	c, err := scanCharacter(r.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, character.ErrNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// GetByOwnerAndName returns ownerID's character called name.
func (r *CharacterRepository) GetByOwnerAndName(ctx context.Context, ownerID int64, name string) (*character.Character, error) {
	c, err := scanCharacter(r.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters
		 WHERE owner_id = $1 AND name = $2
		 ORDER BY id LIMIT 1`, ownerID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, character.ErrNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// ListByOwner returns ownerID's characters ordered by name.
func (r *CharacterRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE owner_id = $1 ORDER BY name, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	return collectCharacters(rows)
}

func scanCharacter(row scanner) (*character.Character, error) {
	var (
		c   character.Character
		typ string
	)
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Name, &typ, &c.Description,
		&c.Abilities.Strength, &c.Abilities.Dexterity, &c.Abilities.Constitution,
		&c.Abilities.Intelligence, &c.Abilities.Wisdom, &c.Abilities.Charisma,
		&c.ArmorClass, &c.HitPoints, &c.Speed, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Type = character.Type(typ)
	return &c, nil
}

func collectCharacters(rows pgx.Rows) ([]*character.Character, error) {
	defer rows.Close()
	chars := make([]*character.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, c)
	}
	return chars, rows.Err()
}
