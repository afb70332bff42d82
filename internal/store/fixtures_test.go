package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/maskarada/internal/model"
)

func newCharacter(t *testing.T, db *sql.DB, name string) *model.Character {
	t.Helper()
	c, err := CreateCharacter(context.Background(), db, name, nil)
	require.NoError(t, err)
	return c
}

// fundCharacter credits a character's personal account and returns it.
func fundCharacter(t *testing.T, db *sql.DB, characterID, amount int64) *model.BankAccount {
	t.Helper()
	ctx := context.Background()

	acct, err := GetPersonalAccount(ctx, db, characterID)
	require.NoError(t, err)
	require.NotNil(t, acct)

	if amount > 0 {
		_, err = CreditAccount(ctx, db, acct.ID, amount, "starting purse", nil)
		require.NoError(t, err)
	}

	acct, err = GetAccount(ctx, db, acct.ID)
	require.NoError(t, err)
	return acct
}

func balance(t *testing.T, db *sql.DB, accountID int64) int64 {
	t.Helper()
	acct, err := GetAccount(context.Background(), db, accountID)
	require.NoError(t, err)
	require.NotNil(t, acct)
	return acct.Balance
}

func newContainer(t *testing.T, db *sql.DB, name string, items ...string) *model.Container {
	t.Helper()
	ctx := context.Background()

	c, err := CreateContainer(ctx, db, name, "")
	require.NoError(t, err)
	for _, item := range items {
		_, err := CreateItem(ctx, db, item, "", nil, c.ID)
		require.NoError(t, err)
	}

	c, err = GetContainer(ctx, db, c.ID)
	require.NoError(t, err)
	return c
}
