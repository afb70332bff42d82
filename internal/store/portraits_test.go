package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/db"
)

func TestPortraits(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	c := newCharacter(t, database, "Ana")

	data, mime, err := GetPortrait(ctx, database, c.ID)
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Empty(t, mime)

	require.NoError(t, SetPortrait(ctx, database, c.ID, []byte("first"), "image/jpeg"))
	require.NoError(t, SetPortrait(ctx, database, c.ID, []byte("second"), "image/jpeg"))

	data, mime, err = GetPortrait(ctx, database, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
	assert.Equal(t, "image/jpeg", mime)

	err = SetPortrait(ctx, database, 999, []byte("x"), "image/jpeg")
	assert.True(t, apperr.IsCode(err, apperr.CodeCharacterNotFound))
}
