package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPragmasApplyToEveryConnection(t *testing.T) {
	database := NewTestDB(t)
	database.SetMaxOpenConns(4)

	// Hold several connections at once so the pool has to open new ones.
	var conns []*sql.Conn
	for i := 0; i < 4; i++ {
		c, err := database.Conn(t.Context())
		require.NoError(t, err)
		conns = append(conns, c)
	}
	t.Cleanup(func() {
		for _, c := range conns {
			c.Close()
		}
	})

	for _, c := range conns {
		var fk int
		require.NoError(t, c.QueryRowContext(t.Context(), `PRAGMA foreign_keys`).Scan(&fk))
		assert.Equal(t, 1, fk)

		var mode string
		require.NoError(t, c.QueryRowContext(t.Context(), `PRAGMA journal_mode`).Scan(&mode))
		assert.Equal(t, "wal", mode)
	}
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	database := NewTestDB(t)
	require.NoError(t, EnsureSchema(database))

	var n int
	require.NoError(t, database.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('bank_accounts', 'items', 'coupons', 'rites')`,
	).Scan(&n))
	assert.Equal(t, 4, n)
}

func TestBalanceCannotGoNegative(t *testing.T) {
	database := NewTestDB(t)

	_, err := database.Exec(`INSERT INTO characters (name) VALUES ('Ana')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO bank_accounts (address, balance, character_id) VALUES ('a', -1, 1)`)
	assert.Error(t, err)
}
