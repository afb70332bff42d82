package seed

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/maskarada/internal/db"
	"github.com/erazemk/maskarada/internal/imaging"
	"github.com/erazemk/maskarada/internal/store"
)

const campaign = `
users:
  - username: marko
    password: nosferatu
characters:
  - name: Vlad
    player: marko
    health: 7
    blood: 10
    balance: 250
    traits:
      clan: [Tremere]
      ability: [Dominate, Auspex]
    companies:
      - name: Blood Bank
        level: 2
        visible: true
item_types: [relic]
containers:
  - name: ashes
    items:
      - name: Ash of Carthage
        type: relic
  - name: focus
    items:
      - name: Obsidian Mirror
coupons:
  - address: WELCOME
    usage: 3
    effect: blood+1
`

func TestLoadCampaign(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, err := Parse(strings.NewReader(campaign))
	require.NoError(t, err)

	sum, err := Load(ctx, database, c, nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{Users: 1, Characters: 1, Containers: 2, Items: 2, Coupons: 1}, *sum)

	user, err := store.GetUserByUsername(ctx, database, "marko")
	require.NoError(t, err)
	chars, err := store.ListCharacters(ctx, database, &user.ID)
	require.NoError(t, err)
	require.Len(t, chars, 1)
	assert.Equal(t, 10, chars[0].Blood)

	accounts, err := store.ListAccounts(ctx, database, chars[0].ID)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.EqualValues(t, 250, accounts[0].Balance)

	traits, err := store.ListTraits(ctx, database, chars[0].ID)
	require.NoError(t, err)
	assert.Len(t, traits, 3)

	balances, credits, err := store.LedgerTotals(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, credits, balances)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("characters:\n  - name: Vlad\n    gold: 5\n"))
	assert.Error(t, err)
}

func TestLoadUnknownPlayer(t *testing.T) {
	database := db.NewTestDB(t)

	c, err := Parse(strings.NewReader("characters:\n  - name: Vlad\n    player: ghost\n"))
	require.NoError(t, err)

	_, err = Load(context.Background(), database, c, nil)
	assert.ErrorContains(t, err, "unknown player")
}

func TestLoadPortrait(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 120, 80))))

	c, err := Parse(strings.NewReader("characters:\n  - name: Vlad\n    portrait: portraits/vlad.png\n"))
	require.NoError(t, err)
	c.Dir = fstest.MapFS{"portraits/vlad.png": {Data: img.Bytes()}}

	_, err = Load(ctx, database, c, nil)
	require.NoError(t, err)

	chars, err := store.ListCharacters(ctx, database, nil)
	require.NoError(t, err)
	require.Len(t, chars, 1)

	data, mime, err := store.GetPortrait(ctx, database, chars[0].ID)
	require.NoError(t, err)
	assert.Equal(t, imaging.PortraitMIME, mime)
	assert.NotEmpty(t, data)
}

func TestLoadMissingPortrait(t *testing.T) {
	database := db.NewTestDB(t)

	c, err := Parse(strings.NewReader("characters:\n  - name: Vlad\n    portrait: missing.png\n"))
	require.NoError(t, err)
	c.Dir = fstest.MapFS{}

	_, err = Load(context.Background(), database, c, nil)
	assert.ErrorContains(t, err, "portrait missing.png")
}
