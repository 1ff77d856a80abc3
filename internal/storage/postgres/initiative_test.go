package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/cory-johannsen/turnkeeper/internal/errors"
	"github.com/cory-johannsen/turnkeeper/internal/game/dice"
	"github.com/cory-johannsen/turnkeeper/internal/game/initiative"
	"github.com/cory-johannsen/turnkeeper/internal/game/room"
	"github.com/cory-johannsen/turnkeeper/internal/storage/postgres"
)

func newEngine(t *testing.T, store initiative.Store) *initiative.Engine {
	t.Helper()
	e, err := initiative.NewEngine(&initiative.Config{
		Store:  store,
		Roller: dice.NewLoggedRoller(dice.NewCryptoSource(), zap.NewNop()),
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)
	return e
}

func TestInitiativeStore_EngineRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.room(t)
	f.rostered(t, r.ID, f.player.ID, "Ivo", 14)
	f.rostered(t, r.ID, f.master.ID, "Goblin", 12)
	f.rostered(t, r.ID, f.master.ID, "Ogre", 6)

	engine := newEngine(t, f.store)
	master := initiative.Actor{UserID: f.master.ID}

	queue, err := engine.StartInitiative(ctx, master, r.ID)
	require.NoError(t, err)
	require.Len(t, queue, 3)
	for i, e := range queue {
		assert.Equal(t, 1, e.Round)
		assert.Equal(t, e.Roll+e.Bonus, e.Total)
		assert.Equal(t, i == 0, e.CurrentTurn)
	}

	stored, err := f.rooms.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, room.TurnState{Active: true, Round: 1, TurnIndex: 0}, stored.Turn)

	for range queue {
		_, err := engine.NextTurn(ctx, master, r.ID)
		require.NoError(t, err)
	}
	cur, err := engine.CurrentTurn(ctx, r.ID)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, queue[0].ID, cur.ID)

	require.NoError(t, engine.ResetInitiative(ctx, master, r.ID))
	stored, err = f.rooms.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, room.TurnState{Active: false, Round: 1, TurnIndex: 0}, stored.Turn)
}

func TestInitiativeStore_ConcurrentRollsKeepOneEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.room(t)
	c := f.rostered(t, r.ID, f.player.ID, "Sable", 16)
	require.NoError(t, f.rooms.AddPlayer(ctx, r.ID, f.player.ID))

	engine := newEngine(t, f.store)
	player := initiative.Actor{UserID: f.player.ID}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = map[int64]bool{}
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := engine.RollForCharacter(ctx, player, r.ID, c.ID)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			ids[e.ID] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 1)
	queue, err := engine.Queue(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, 3, queue[0].Bonus)
}

func TestInitiativeStore_UpdateRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.room(t)
	c := f.rostered(t, r.ID, f.master.ID, "Moth", 10)
	boom := errors.New("boom")

	err := f.store.Update(ctx, r.ID, func(tx initiative.Tx) error {
		e, err := tx.EnsureEntry(ctx, initiative.Key{RoomID: r.ID, CharacterID: c.ID, Round: 0})
		require.NoError(t, err)
		e.Total = 20
		require.NoError(t, tx.SaveEntry(ctx, e))
		require.NoError(t, tx.SaveTurn(ctx, room.TurnState{Active: true, Round: 9}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = f.store.View(ctx, r.ID, func(tx initiative.Tx) error {
		assert.Equal(t, room.TurnState{}, tx.Room().Turn)
		entries, err := tx.Entries(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, entries)
		return nil
	})
	require.NoError(t, err)
}

func TestInitiativeStore_ViewIsReadOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.room(t)

	err := f.store.View(ctx, r.ID, func(tx initiative.Tx) error {
		return tx.SaveTurn(ctx, room.TurnState{Active: true})
	})
	assert.ErrorIs(t, err, postgres.ErrReadOnly)
}

func TestInitiativeStore_UnknownRoom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.store.Update(ctx, 999999999, func(initiative.Tx) error { return nil })
	assert.ErrorIs(t, err, room.ErrNotFound)

	_, err = newEngine(t, f.store).StartInitiative(ctx, initiative.Actor{UserID: f.master.ID}, 999999999)
	assert.True(t, apperrors.IsNotFound(err))
}
