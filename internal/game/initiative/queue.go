package initiative

import (
	"cmp"
	"slices"
)

// compareEntries orders by Total descending, then CharacterName ascending.
// CharacterID breaks exact name ties so the order is total.
func compareEntries(a, b *Entry) int {
	if c := cmp.Compare(b.Total, a.Total); c != 0 {
		return c
	}
	if c := cmp.Compare(a.CharacterName, b.CharacterName); c != 0 {
		return c
	}
	return cmp.Compare(a.CharacterID, b.CharacterID)
}

// SortQueue orders entries into turn order in place.
func SortQueue(entries []*Entry) {
	slices.SortStableFunc(entries, compareEntries)
}

// indexOfCurrent returns the position of the entry flagged CurrentTurn.
func indexOfCurrent(queue []*Entry) (int, bool) {
	for i, e := range queue {
		if e.CurrentTurn {
			return i, true
		}
	}
	return 0, false
}
