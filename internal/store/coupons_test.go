package store

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/db"
	"github.com/erazemk/maskarada/internal/model"
)

func TestApplyCouponLimited(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newCharacter(t, database, "Alice")
	coupon, err := CreateCoupon(ctx, database, "", 3, "blood")
	require.NoError(t, err)
	assert.NotEmpty(t, coupon.Address)

	for i := 0; i < 3; i++ {
		r, err := ApplyCoupon(ctx, database, alice.ID, coupon.Address, nil)
		require.NoError(t, err, "redemption %d", i+1)
		assert.Equal(t, "Coupon redeemed", r.Message)
	}

	got, err := GetCouponByAddress(ctx, database, coupon.Address)
	require.NoError(t, err)
	assert.Zero(t, got.Usage)

	_, err = ApplyCoupon(ctx, database, alice.ID, coupon.Address, nil)
	assert.Equal(t, apperr.CodeCouponExhausted, apperr.GetCode(err))

	redemptions, err := ListRedemptions(ctx, database, coupon.ID)
	require.NoError(t, err)
	assert.Len(t, redemptions, 3)
}

func TestApplyCouponUnlimited(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newCharacter(t, database, "Alice")
	coupon, err := CreateCoupon(ctx, database, "FOUNTAIN", model.UnlimitedUsage, "")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := ApplyCoupon(ctx, database, alice.ID, "FOUNTAIN", nil)
		require.NoError(t, err)
	}

	got, err := GetCouponByAddress(ctx, database, coupon.Address)
	require.NoError(t, err)
	assert.Equal(t, model.UnlimitedUsage, got.Usage)
}

func TestApplyCouponErrors(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newCharacter(t, database, "Alice")
	_, err := CreateCoupon(ctx, database, "ONCE", 1, "")
	require.NoError(t, err)

	_, err = ApplyCoupon(ctx, database, alice.ID, "NOPE", nil)
	assert.Equal(t, apperr.CodeCouponNotFound, apperr.GetCode(err))

	_, err = ApplyCoupon(ctx, database, 9999, "ONCE", nil)
	assert.Equal(t, apperr.CodeCharacterNotFound, apperr.GetCode(err))

	_, err = CreateCoupon(ctx, database, "ONCE", 1, "")
	assert.Equal(t, apperr.CodeDuplicate, apperr.GetCode(err))

	_, err = CreateCoupon(ctx, database, "", -2, "")
	assert.Equal(t, apperr.CodeInvalidAmount, apperr.GetCode(err))
}

func TestApplyCouponEffectRunsInTransaction(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newCharacter(t, database, "Alice")
	_, err := CreateCoupon(ctx, database, "BLOOD", 2, "blood+1")
	require.NoError(t, err)

	feed := func(ctx context.Context, tx *sql.Tx, characterID int64, c model.Coupon) (string, error) {
		assert.Equal(t, "blood+1", c.Effect)
		assert.Equal(t, 1, c.Usage)
		_, err := tx.ExecContext(ctx, `UPDATE characters SET blood = blood + 1 WHERE id = ?`, characterID)
		return "You feel stronger", err
	}
	r, err := ApplyCoupon(ctx, database, alice.ID, "BLOOD", feed)
	require.NoError(t, err)
	assert.Equal(t, "You feel stronger", r.Message)

	got, err := GetCharacter(ctx, database, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Blood)

	boom := errors.New("effect failed")
	failing := func(ctx context.Context, tx *sql.Tx, characterID int64, _ model.Coupon) (string, error) {
		if _, err := tx.ExecContext(ctx, `UPDATE characters SET blood = 100 WHERE id = ?`, characterID); err != nil {
			return "", err
		}
		return "", boom
	}
	_, err = ApplyCoupon(ctx, database, alice.ID, "BLOOD", failing)
	require.ErrorIs(t, err, boom)

	// Neither the use nor the effect's write survived.
	coupon, err := GetCouponByAddress(ctx, database, "BLOOD")
	require.NoError(t, err)
	assert.Equal(t, 1, coupon.Usage)
	got, err = GetCharacter(ctx, database, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Blood)
}

func TestConcurrentRedemptionsNeverOverRedeem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := newCharacter(t, database, "Alice")
	_, err := CreateCoupon(ctx, database, "RUSH", 5, "")
	require.NoError(t, err)

	var redeemed atomic.Int64
	var g errgroup.Group
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			_, err := ApplyCoupon(ctx, database, alice.ID, "RUSH", nil)
			if err == nil {
				redeemed.Add(1)
				return nil
			}
			if apperr.IsCode(err, apperr.CodeCouponExhausted) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 5, redeemed.Load())

	coupon, err := GetCouponByAddress(ctx, database, "RUSH")
	require.NoError(t, err)
	assert.Zero(t, coupon.Usage)
}
