package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erazemk/maskarada/internal/db"
	"github.com/erazemk/maskarada/internal/store"
)

func TestAuditLedger(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	s, err := New(database, zap.NewNop(), Schedules{})
	require.NoError(t, err)

	a, err := store.CreateCharacter(ctx, database, "Alice", nil)
	require.NoError(t, err)
	b, err := store.CreateCharacter(ctx, database, "Bob", nil)
	require.NoError(t, err)
	acct, err := store.GetPersonalAccount(ctx, database, a.ID)
	require.NoError(t, err)

	_, err = store.CreditAccount(ctx, database, acct.ID, 100, "", nil)
	require.NoError(t, err)
	_, err = store.Transfer(ctx, database, a.ID, b.ID, 40, nil)
	require.NoError(t, err)
	assert.NoError(t, s.AuditLedger(ctx))

	_, err = database.ExecContext(ctx, `UPDATE bank_accounts SET balance = balance + 1 WHERE id = ?`, acct.ID)
	require.NoError(t, err)
	assert.ErrorContains(t, s.AuditLedger(ctx), "out of balance")
}

func TestPurgeTokens(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	s, err := New(database, zap.NewNop(), Schedules{})
	require.NoError(t, err)

	require.NoError(t, store.RevokeToken(ctx, database, "old", time.Now().Add(-time.Minute)))
	require.NoError(t, s.PurgeTokens(ctx))

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM revoked_tokens`).Scan(&count))
	assert.Zero(t, count)
}

func TestNewRejectsBadSchedule(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := New(database, zap.NewNop(), Schedules{LedgerAudit: "whenever"})
	assert.Error(t, err)

	_, err = New(database, zap.NewNop(), DefaultSchedules())
	assert.NoError(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	database := db.NewTestDB(t)
	s, err := New(database, zap.NewNop(), DefaultSchedules())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
