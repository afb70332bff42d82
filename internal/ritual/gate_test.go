package ritual

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/db"
	"github.com/erazemk/maskarada/internal/geo"
	"github.com/erazemk/maskarada/internal/model"
	"github.com/erazemk/maskarada/internal/store"
)

type heartFixture struct {
	gate      *Gate
	character int64
	ashes     int64
	focus     int64
}

func setupHeart(t *testing.T) heartFixture {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, err := store.CreateCharacter(ctx, database, "Vlad", nil)
	require.NoError(t, err)

	ids := map[string]int64{}
	for _, name := range []string{"ashes", "focus"} {
		container, err := store.CreateContainer(ctx, database, name, "")
		require.NoError(t, err)
		it, err := store.CreateItem(ctx, database, name+" token", "", nil, container.ID)
		require.NoError(t, err)
		ids[name] = it.ID
	}

	return heartFixture{
		gate:      &Gate{DB: database, Config: DefaultConfig()},
		character: c.ID,
		ashes:     ids["ashes"],
		focus:     ids["focus"],
	}
}

func (f heartFixture) request(pos *geo.Point) Request {
	return Request{
		Mode:        string(model.ModeAscend),
		CharacterID: f.character,
		AshesItemID: f.ashes,
		FocusItemID: f.focus,
		Position:    pos,
	}
}

func TestPerformAtTheHeart(t *testing.T) {
	f := setupHeart(t)
	center := f.gate.Config.Center

	rite, err := f.gate.Perform(context.Background(), f.request(&center))
	require.NoError(t, err)
	assert.Equal(t, model.ModeAscend, rite.Mode)
	assert.Equal(t, f.character, rite.CharacterID)
}

func TestPerformTooFarAway(t *testing.T) {
	f := setupHeart(t)
	pos := geo.Point{Lat: f.gate.Config.Center.Lat + 0.001, Lon: f.gate.Config.Center.Lon}

	_, err := f.gate.Perform(context.Background(), f.request(&pos))
	assert.Equal(t, apperr.CodeTooFarAway, apperr.GetCode(err))
	assert.Equal(t, apperr.KindPreconditionFailed, apperr.KindOf(err))

	rites, err := store.ListRites(context.Background(), f.gate.DB, 0)
	require.NoError(t, err)
	assert.Empty(t, rites)
}

func TestCheckRadius(t *testing.T) {
	f := setupHeart(t)
	f.gate.Config.RadiusMeters = 100
	center := f.gate.Config.Center

	// 0.0008 degrees of latitude is about 89 m, 0.001 about 111 m.
	inside := geo.Point{Lat: center.Lat + 0.0008, Lon: center.Lon}
	outside := geo.Point{Lat: center.Lat + 0.001, Lon: center.Lon}

	_, err := f.gate.Check(f.request(&inside))
	assert.NoError(t, err)

	_, err = f.gate.Check(f.request(&outside))
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeTooFarAway, appErr.Code)
	require.Len(t, appErr.Args, 2)
	assert.InDelta(t, 111.2, appErr.Args[0], 0.5)
	assert.EqualValues(t, 100, appErr.Args[1])
}

func TestPerformPreconditions(t *testing.T) {
	f := setupHeart(t)
	center := f.gate.Config.Center

	tests := []struct {
		name   string
		mutate func(*Request)
		want   apperr.Code
	}{
		{"unknown mode", func(r *Request) { r.Mode = "dance" }, apperr.CodeInvalidMode},
		{"no position", func(r *Request) { r.Position = nil }, apperr.CodeGeolocationUnavailable},
		{"no character", func(r *Request) { r.CharacterID = 0 }, apperr.CodeCharacterNotSelected},
		{"unknown character", func(r *Request) { r.CharacterID = 9999 }, apperr.CodeCharacterNotFound},
		{"wrong ashes", func(r *Request) { r.AshesItemID = f.focus }, apperr.CodeRitualTokenMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request(&center)
			tt.mutate(&req)
			_, err := f.gate.Perform(context.Background(), req)
			assert.Equal(t, tt.want, apperr.GetCode(err))
		})
	}
}

func TestHeart(t *testing.T) {
	f := setupHeart(t)

	heart, err := f.gate.Heart(context.Background())
	require.NoError(t, err)
	require.NotNil(t, heart.AshesContainer)
	require.NotNil(t, heart.FocusContainer)
	require.Len(t, heart.AshesContainer.Items, 1)
	assert.Equal(t, f.ashes, heart.AshesContainer.Items[0].ID)
}
