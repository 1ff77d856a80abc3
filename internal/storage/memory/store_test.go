package memory_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/turnkeeper/internal/game/character"
	"github.com/cory-johannsen/turnkeeper/internal/game/initiative"
	"github.com/cory-johannsen/turnkeeper/internal/game/room"
	"github.com/cory-johannsen/turnkeeper/internal/storage/memory"
)

func setup(t *testing.T) (*memory.Store, *room.Room, *character.Character) {
	t.Helper()
	s := memory.New()
	r, err := s.CreateRoom(&room.Room{Name: "Vault", MasterID: 1})
	require.NoError(t, err)
	c, err := s.CreateCharacter(character.New(1, "Zed", character.TypeNPC))
	require.NoError(t, err)
	require.NoError(t, s.AddToRoster(r.ID, c.ID))
	return s, r, c
}

func TestCreateRoom_GeneratesCode(t *testing.T) {
	s := memory.New()
	r, err := s.CreateRoom(&room.Room{Name: "Hall", MasterID: 1})
	require.NoError(t, err)
	assert.NotZero(t, r.ID)
	assert.Len(t, r.Code, 8)

	_, err = s.CreateRoom(&room.Room{Name: "Other", Code: r.Code, MasterID: 1})
	assert.Error(t, err)
}

func TestCreateCharacter_RecomputesArmorClass(t *testing.T) {
	s := memory.New()
	c := character.New(1, "Quick", character.TypePlayer)
	c.Abilities.Dexterity = 16
	c.ArmorClass = 0

	saved, err := s.CreateCharacter(c)
	require.NoError(t, err)
	assert.Equal(t, 13, saved.ArmorClass)
}

func TestUpdate_RollsBackOnError(t *testing.T) {
	s, r, c := setup(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Update(ctx, r.ID, func(tx initiative.Tx) error {
		e, err := tx.EnsureEntry(ctx, initiative.Key{RoomID: r.ID, CharacterID: c.ID})
		require.NoError(t, err)
		e.Total = 12
		require.NoError(t, tx.SaveEntry(ctx, e))
		require.NoError(t, tx.SaveTurn(ctx, room.TurnState{Active: true, Round: 4}))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, s.EntryCount(r.ID))

	err = s.View(ctx, r.ID, func(tx initiative.Tx) error {
		assert.Equal(t, room.TurnState{}, tx.Room().Turn)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdate_CommitsEntriesAndTurn(t *testing.T) {
	s, r, c := setup(t)
	ctx := context.Background()

	err := s.Update(ctx, r.ID, func(tx initiative.Tx) error {
		e, err := tx.EnsureEntry(ctx, initiative.Key{RoomID: r.ID, CharacterID: c.ID, Round: 1})
		if err != nil {
			return err
		}
		again, err := tx.EnsureEntry(ctx, e.Key)
		if err != nil {
			return err
		}
		assert.Equal(t, e.ID, again.ID)
		e.Total = 9
		if err := tx.SaveEntry(ctx, e); err != nil {
			return err
		}
		return tx.SaveTurn(ctx, room.TurnState{Active: true, Round: 1})
	})
	require.NoError(t, err)

	err = s.View(ctx, r.ID, func(tx initiative.Tx) error {
		assert.True(t, tx.Room().Turn.Active)
		entries, err := tx.Entries(ctx, 1)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 9, entries[0].Total)
		assert.Equal(t, "Zed", entries[0].CharacterName)

		none, err := tx.Entries(ctx, 2)
		require.NoError(t, err)
		assert.Empty(t, none)
		return nil
	})
	require.NoError(t, err)
}

func TestView_IsReadOnly(t *testing.T) {
	s, r, c := setup(t)
	ctx := context.Background()
	err := s.View(ctx, r.ID, func(tx initiative.Tx) error {
		_, err := tx.EnsureEntry(ctx, initiative.Key{RoomID: r.ID, CharacterID: c.ID})
		return err
	})
	assert.ErrorIs(t, err, memory.ErrReadOnly)
}

func TestUnknownRoom(t *testing.T) {
	s := memory.New()
	err := s.Update(context.Background(), 42, func(initiative.Tx) error { return nil })
	assert.ErrorIs(t, err, room.ErrNotFound)
	assert.ErrorIs(t, s.AddPlayer(42, 1), room.ErrNotFound)
}

func TestRosterMembership(t *testing.T) {
	s, r, c := setup(t)
	ctx := context.Background()
	amy, err := s.CreateCharacter(character.New(2, "Amy", character.TypePlayer))
	require.NoError(t, err)
	require.NoError(t, s.AddToRoster(r.ID, amy.ID))
	require.NoError(t, s.AddToRoster(r.ID, amy.ID))
	require.NoError(t, s.AddPlayer(r.ID, 2))

	assert.ErrorIs(t, s.AddToRoster(r.ID, 999), character.ErrNotFound)

	err = s.View(ctx, r.ID, func(tx initiative.Tx) error {
		roster, err := tx.Roster(ctx)
		require.NoError(t, err)
		require.Len(t, roster, 2)
		assert.Equal(t, "Amy", roster[0].Name)
		assert.Equal(t, "Zed", roster[1].Name)

		ok, err := tx.IsPlayer(ctx, 2)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = tx.IsPlayer(ctx, 3)
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, s.RemoveFromRoster(r.ID, c.ID))
	err = s.View(ctx, r.ID, func(tx initiative.Tx) error {
		roster, err := tx.Roster(ctx)
		require.NoError(t, err)
		assert.Len(t, roster, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestLookups(t *testing.T) {
	s, r, c := setup(t)

	got, err := s.RoomByCode(strings.ToLower(r.Code))
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	_, err = s.RoomByCode("NOPE")
	assert.ErrorIs(t, err, room.ErrNotFound)

	ch, err := s.CharacterByOwnerAndName(1, "Zed")
	require.NoError(t, err)
	assert.Equal(t, c.ID, ch.ID)

	_, err = s.CharacterByOwnerAndName(2, "Zed")
	assert.ErrorIs(t, err, character.ErrNotFound)
}
