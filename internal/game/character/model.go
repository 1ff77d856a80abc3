// Package character defines the character record consumed by the initiative
// engine and the ability math derived from it.
package character

import (
	"errors"
	"fmt"
	"time"

	"github.com/cory-johannsen/turnkeeper/internal/game/dice"
)

// Type classifies who controls a character at the table.
type Type string

const (
	TypePlayer  Type = "player"
	TypeNPC     Type = "npc"
	TypeMonster Type = "monster"
)

// Valid reports whether t is a recognised character type.
func (t Type) Valid() bool {
	switch t {
	case TypePlayer, TypeNPC, TypeMonster:
		return true
	}
	return false
}

// Default combat values for a freshly created character.
const (
	DefaultScore     = 10
	DefaultHitPoints = 10
	DefaultSpeed     = 30
	baseArmorClass   = 10
)

// AbilityScores holds the six D20 ability scores.
type AbilityScores struct {
	Strength     int `yaml:"strength"`
	Dexterity    int `yaml:"dexterity"`
	Constitution int `yaml:"constitution"`
	Intelligence int `yaml:"intelligence"`
	Wisdom       int `yaml:"wisdom"`
	Charisma     int `yaml:"charisma"`
}

// DefaultAbilityScores returns every score set to DefaultScore.
func DefaultAbilityScores() AbilityScores {
	return AbilityScores{
		Strength: DefaultScore, Dexterity: DefaultScore, Constitution: DefaultScore,
		Intelligence: DefaultScore, Wisdom: DefaultScore, Charisma: DefaultScore,
	}
}

// AbilityModifier computes floor((score - 10) / 2).
//
// Postcondition: AbilityModifier(7) == -2, AbilityModifier(10) == 0, AbilityModifier(19) == 4.
func AbilityModifier(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// Character is a player-, NPC- or monster-controlled combatant.
//
// ID and OwnerID are assigned by the persistence layer; zero means unsaved.
// ArmorClass is a cache of ComputeArmorClass refreshed by Normalize.
type Character struct {
	ID          int64
	OwnerID     int64
	Name        string
	Type        Type
	Description string

	Abilities  AbilityScores
	ArmorClass int
	HitPoints  int
	Speed      int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New returns an unsaved character with default scores and combat values.
func New(ownerID int64, name string, typ Type) *Character {
	c := &Character{
		OwnerID:   ownerID,
		Name:      name,
		Type:      typ,
		Abilities: DefaultAbilityScores(),
		HitPoints: DefaultHitPoints,
		Speed:     DefaultSpeed,
	}
	c.Normalize()
	return c
}

// InitiativeModifier returns the dexterity modifier.
func (c *Character) InitiativeModifier() int {
	return AbilityModifier(c.Abilities.Dexterity)
}

// ComputeArmorClass returns 10 + dexterity modifier.
func (c *Character) ComputeArmorClass() int {
	return baseArmorClass + AbilityModifier(c.Abilities.Dexterity)
}

// Normalize refreshes derived fields. Storage calls it on every save.
//
// Postcondition: c.ArmorClass == c.ComputeArmorClass().
func (c *Character) Normalize() {
	c.ArmorClass = c.ComputeArmorClass()
}

// Validate checks the fields storage requires.
func (c *Character) Validate() error {
	if c.Name == "" {
		return errors.New("character name must not be empty")
	}
	if len(c.Name) > 100 {
		return fmt.Errorf("character name %q exceeds 100 characters", c.Name)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("character %q: invalid type %q", c.Name, c.Type)
	}
	if c.OwnerID <= 0 {
		return fmt.Errorf("character %q: owner must be set", c.Name)
	}
	return nil
}

// RollInitiative rolls 1d20 + initiative modifier.
func (c *Character) RollInitiative(src dice.Source) dice.RollResult {
	return dice.D20(src, c.InitiativeModifier())
}

// RollAttack rolls 1d20 + attackBonus.
func (c *Character) RollAttack(src dice.Source, attackBonus int) dice.RollResult {
	return dice.D20(src, attackBonus)
}

// RollDamage rolls count dice of sides plus bonus, minimum 1.
func (c *Character) RollDamage(src dice.Source, count, sides, bonus int) (int, error) {
	return dice.RollDamage(src, count, sides, bonus)
}

// String returns "Name (type)".
func (c *Character) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Type)
}

// ErrNotFound is returned by stores when a character lookup yields no results.
var ErrNotFound = errors.New("character not found")
