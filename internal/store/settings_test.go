package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/maskarada/internal/db"
)

func TestEnsureSigningKeyGeneratesOnce(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	key1, created, err := EnsureSigningKey(ctx, database)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, key1, 64)

	key2, created, err := EnsureSigningKey(ctx, database)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, key1, key2)

	stored, err := GetSetting(ctx, database, SettingSigningKey)
	require.NoError(t, err)
	assert.Equal(t, key1, stored)
}

func TestGetSettingMissing(t *testing.T) {
	database := db.NewTestDB(t)

	value, err := GetSetting(context.Background(), database, "maskarada.nothing")
	require.NoError(t, err)
	assert.Empty(t, value)
}
