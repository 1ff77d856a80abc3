package initiative

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func entry(id int64, name string, total int) *Entry {
	return &Entry{Key: Key{CharacterID: id}, CharacterName: name, Total: total}
}

func TestSortQueue_TotalDescThenName(t *testing.T) {
	q := []*Entry{entry(1, "A", 15), entry(2, "B", 15), entry(3, "C", 18)}
	SortQueue(q)
	assert.Equal(t, "C", q[0].CharacterName)
	assert.Equal(t, "A", q[1].CharacterName)
	assert.Equal(t, "B", q[2].CharacterName)
}

func TestSortQueue_SameNameFallsBackToID(t *testing.T) {
	q := []*Entry{entry(9, "Goblin", 12), entry(4, "Goblin", 12)}
	SortQueue(q)
	assert.Equal(t, int64(4), q[0].CharacterID)
}

func TestSortQueue_IndependentOfInputOrder_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 12).Draw(rt, "n")
		q := make([]*Entry, n)
		for i := range q {
			q[i] = entry(int64(i+1),
				rapid.SampledFrom([]string{"Ann", "Bo", "Cy"}).Draw(rt, "name"),
				rapid.IntRange(-4, 25).Draw(rt, "total"))
		}
		shuffled := rapid.Permutation(q).Draw(rt, "perm")

		SortQueue(q)
		SortQueue(shuffled)
		for i := range q {
			assert.Same(rt, q[i], shuffled[i])
		}
	})
}

func TestIndexOfCurrent(t *testing.T) {
	q := []*Entry{entry(1, "A", 3), entry(2, "B", 2)}
	_, ok := indexOfCurrent(q)
	assert.False(t, ok)

	q[1].CurrentTurn = true
	i, ok := indexOfCurrent(q)
	assert.True(t, ok)
	assert.Equal(t, 1, i)
}
