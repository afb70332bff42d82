package store

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/db"
)

func TestTakeItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newCharacter(t, database, "Alice")
	chest := newContainer(t, database, "Chest", "Dagger", "Rosary", "Letter")

	updated, err := TakeItems(ctx, database, chest.ID, alice.ID,
		[]int64{chest.Items[0].ID, chest.Items[2].ID}, nil)
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Rosary", updated.Items[0].Name)

	carried, err := ListItemsByCharacter(ctx, database, alice.ID)
	require.NoError(t, err)
	require.Len(t, carried, 2)
	for _, it := range carried {
		assert.Nil(t, it.ContainerID)
		require.NotNil(t, it.OwnedByID)
		assert.Equal(t, alice.ID, *it.OwnedByID)
	}

	history, err := ItemHistory(ctx, database, chest.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, chest.ID, *history[0].FromContainerID)
	assert.Equal(t, alice.ID, *history[0].ToCharacterID)
}

func TestTakeItemsAllOrNothing(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newCharacter(t, database, "Alice")
	chest := newContainer(t, database, "Chest", "Dagger", "Rosary")
	other := newContainer(t, database, "Crypt", "Skull")

	_, err := TakeItems(ctx, database, chest.ID, alice.ID,
		[]int64{chest.Items[0].ID, other.Items[0].ID}, nil)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeItemNotInContainer))

	after, err := GetContainer(ctx, database, chest.ID)
	require.NoError(t, err)
	assert.Len(t, after.Items, 2)

	carried, err := ListItemsByCharacter(ctx, database, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, carried)

	history, err := ItemHistory(ctx, database, chest.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTakeItemsValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newCharacter(t, database, "Alice")
	chest := newContainer(t, database, "Chest", "Dagger")

	_, err := TakeItems(ctx, database, chest.ID, alice.ID, nil, nil)
	assert.Equal(t, apperr.CodeNoItems, apperr.GetCode(err))

	_, err = TakeItems(ctx, database, 9999, alice.ID, []int64{chest.Items[0].ID}, nil)
	assert.Equal(t, apperr.CodeContainerNotFound, apperr.GetCode(err))

	_, err = TakeItems(ctx, database, chest.ID, 9999, []int64{chest.Items[0].ID}, nil)
	assert.Equal(t, apperr.CodeCharacterNotFound, apperr.GetCode(err))

	// Duplicate ids in one request move the item once.
	_, err = TakeItems(ctx, database, chest.ID, alice.ID, []int64{chest.Items[0].ID, chest.Items[0].ID}, nil)
	assert.NoError(t, err)
}

func TestPutAndGiveItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newCharacter(t, database, "Alice")
	bob := newCharacter(t, database, "Bob")
	chest := newContainer(t, database, "Chest", "Dagger", "Rosary")
	dagger, rosary := chest.Items[0].ID, chest.Items[1].ID

	_, err := TakeItems(ctx, database, chest.ID, alice.ID, []int64{dagger, rosary}, nil)
	require.NoError(t, err)

	bobs, err := GiveItems(ctx, database, alice.ID, bob.ID, []int64{dagger}, nil)
	require.NoError(t, err)
	require.Len(t, bobs, 1)
	assert.Equal(t, dagger, bobs[0].ID)

	// Alice no longer holds the dagger.
	_, err = PutItems(ctx, database, chest.ID, alice.ID, []int64{dagger}, nil)
	assert.Equal(t, apperr.CodeItemNotOwned, apperr.GetCode(err))

	updated, err := PutItems(ctx, database, chest.ID, alice.ID, []int64{rosary}, nil)
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, rosary, updated.Items[0].ID)

	history, err := ItemHistory(ctx, database, dagger)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, alice.ID, *history[1].FromCharacterID)
	assert.Equal(t, bob.ID, *history[1].ToCharacterID)
}

func TestConcurrentTakesClaimEachItemOnce(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	chest := newContainer(t, database, "Chest", "Grail")
	grail := chest.Items[0].ID

	const takers = 10
	var won atomic.Int64
	var g errgroup.Group
	for i := 0; i < takers; i++ {
		c := newCharacter(t, database, "Taker")
		g.Go(func() error {
			_, err := TakeItems(ctx, database, chest.ID, c.ID, []int64{grail}, nil)
			if err == nil {
				won.Add(1)
				return nil
			}
			if apperr.IsCode(err, apperr.CodeItemNotInContainer) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 1, won.Load())

	history, err := ItemHistory(ctx, database, grail)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
