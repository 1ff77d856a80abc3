package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/turnkeeper/internal/game/character"
	"github.com/cory-johannsen/turnkeeper/internal/storage/postgres"
	"github.com/cory-johannsen/turnkeeper/internal/testutil"
)

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func setupCharRepos(t *testing.T) (*postgres.CharacterRepository, int64) {
	t.Helper()
	pool := testutil.NewPool(t)
	acctRepo := postgres.NewAccountRepository(pool)
	acct, err := acctRepo.Create(context.Background(), uniqueName("user"), "password123")
	require.NoError(t, err)
	return postgres.NewCharacterRepository(pool), acct.ID
}

func makeTestCharacter(ownerID int64, name string) *character.Character {
	c := character.New(ownerID, name, character.TypePlayer)
	c.Description = "a wandering sellsword"
	c.Abilities = character.AbilityScores{
		Strength: 14, Dexterity: 12, Constitution: 10,
		Intelligence: 10, Wisdom: 8, Charisma: 12,
	}
	return c
}

func TestCharacterRepository_Create(t *testing.T) {
	repo, ownerID := setupCharRepos(t)
	ctx := context.Background()

	c := makeTestCharacter(ownerID, "Zara")
	c.ArmorClass = 99
	created, err := repo.Create(ctx, c)
	require.NoError(t, err)

	assert.Greater(t, created.ID, int64(0))
	assert.Equal(t, ownerID, created.OwnerID)
	assert.Equal(t, "Zara", created.Name)
	assert.Equal(t, character.TypePlayer, created.Type)
	assert.Equal(t, 12, created.Abilities.Dexterity)
	assert.Equal(t, 11, created.ArmorClass, "armor class is recomputed on save")
	assert.Equal(t, character.DefaultHitPoints, created.HitPoints)
	assert.Equal(t, character.DefaultSpeed, created.Speed)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCharacterRepository_CreateUnknownOwner(t *testing.T) {
	repo, _ := setupCharRepos(t)
	_, err := repo.Create(context.Background(), makeTestCharacter(987654321, "Ghost"))
	assert.ErrorIs(t, err, postgres.ErrAccountNotFound)
}

func TestCharacterRepository_UpdateRecomputesArmorClass(t *testing.T) {
	repo, ownerID := setupCharRepos(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, makeTestCharacter(ownerID, "Kell"))
	require.NoError(t, err)

	created.Abilities.Dexterity = 7
	created.Type = character.TypeMonster
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, 8, updated.ArmorClass)
	assert.Equal(t, character.TypeMonster, updated.Type)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.ArmorClass)
	assert.Equal(t, -2, got.InitiativeModifier())
}

func TestCharacterRepository_NotFound(t *testing.T) {
	repo, ownerID := setupCharRepos(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 999999999)
	assert.ErrorIs(t, err, character.ErrNotFound)

	missing := makeTestCharacter(ownerID, "Nobody")
	missing.ID = 999999999
	_, err = repo.Update(ctx, missing)
	assert.ErrorIs(t, err, character.ErrNotFound)
}

func TestCharacterRepository_ListAndLookupByOwner(t *testing.T) {
	repo, ownerID := setupCharRepos(t)
	ctx := context.Background()

	for _, name := range []string{"Mira", "Aldo", "Tess"} {
		_, err := repo.Create(ctx, makeTestCharacter(ownerID, name))
		require.NoError(t, err)
	}

	chars, err := repo.ListByOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, chars, 3)
	assert.Equal(t, "Aldo", chars[0].Name)
	assert.Equal(t, "Tess", chars[2].Name)

	tess, err := repo.GetByOwnerAndName(ctx, ownerID, "Tess")
	require.NoError(t, err)
	assert.Equal(t, chars[2].ID, tess.ID)

	_, err = repo.GetByOwnerAndName(ctx, ownerID, "Nope")
	assert.ErrorIs(t, err, character.ErrNotFound)
}

// Property: stored armor class always equals 10 + dexterity modifier.
func TestPropertyCharacterArmorClassPersisted(t *testing.T) {
	repo, ownerID := setupCharRepos(t)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		c := makeTestCharacter(ownerID, uniqueName("prop"))
		c.Abilities.Dexterity = rapid.IntRange(1, 30).Draw(rt, "dex")
		created, err := repo.Create(ctx, c)
		if err != nil {
			rt.Fatalf("Create: %v", err)
		}
		want := 10 + character.AbilityModifier(c.Abilities.Dexterity)
		if created.ArmorClass != want {
			rt.Fatalf("armor class %d, want %d", created.ArmorClass, want)
		}
	})
}
