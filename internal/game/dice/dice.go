// Package dice provides the randomness abstraction and roll-result types used
// for ability checks, damage and initiative.
package dice

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCount is returned when a roll asks for fewer than one die.
	ErrInvalidCount = errors.New("dice: count must be >= 1")
	// ErrInvalidSides is returned when a die has fewer than one face.
	ErrInvalidSides = errors.New("dice: sides must be >= 1")
)

// RollResult holds the audit trail for a single roll.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // canonical expression, e.g. "2d6+3"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"2d6+3 → [4 5] +3 = 12"
func (r RollResult) String() string {
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Notation formats count, sides and modifier as dice notation ("1d20", "2d6-1").
func Notation(count, sides, modifier int) string {
	if modifier == 0 {
		return fmt.Sprintf("%dd%d", count, sides)
	}
	return fmt.Sprintf("%dd%d%+d", count, sides, modifier)
}
