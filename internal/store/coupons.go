package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/model"
)

// CouponEffect applies a coupon's benefit to a character. It runs inside the
// redemption transaction; returning an error rolls the redemption back.
type CouponEffect func(ctx context.Context, tx *sql.Tx, characterID int64, coupon model.Coupon) (string, error)

// NoCouponEffect redeems a coupon without touching anything else.
func NoCouponEffect(context.Context, *sql.Tx, int64, model.Coupon) (string, error) {
	return "Coupon redeemed", nil
}

// CreateCoupon creates a coupon. An empty address gets a generated one;
// usage is the number of redemptions left, or model.UnlimitedUsage.
func CreateCoupon(ctx context.Context, db *sql.DB, address string, usage int, effect string) (*model.Coupon, error) {
	if usage < model.UnlimitedUsage {
		return nil, apperr.New(apperr.CodeInvalidAmount)
	}
	if address == "" {
		address = newAddress()
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO coupons (address, usage, effect) VALUES (?, ?, ?)`,
		address, usage, effect,
	)
	if isUniqueViolation(err) {
		return nil, apperr.Wrap(apperr.CodeDuplicate, err, address)
	}
	if err != nil {
		return nil, fmt.Errorf("creating coupon: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting coupon id: %w", err)
	}
	return getCoupon(ctx, db, `WHERE id = ?`, id)
}

// GetCouponByAddress returns a coupon by its QR address.
func GetCouponByAddress(ctx context.Context, db *sql.DB, address string) (*model.Coupon, error) {
	return getCoupon(ctx, db, `WHERE address = ?`, address)
}

func getCoupon(ctx context.Context, q querier, where string, args ...any) (*model.Coupon, error) {
	c := &model.Coupon{}
	err := q.QueryRowContext(ctx,
		`SELECT id, address, usage, effect, created_at FROM coupons `+where, args...,
	).Scan(&c.ID, &c.Address, &c.Usage, &c.Effect, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting coupon: %w", err)
	}
	return c, nil
}

// ListCoupons returns all coupons.
func ListCoupons(ctx context.Context, db *sql.DB) ([]model.Coupon, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, address, usage, effect, created_at FROM coupons ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing coupons: %w", err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		var c model.Coupon
		if err := rows.Scan(&c.ID, &c.Address, &c.Usage, &c.Effect, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

// ApplyCoupon redeems the coupon at address for a character. Limited coupons
// lose one use per call; unlimited ones are never decremented. Every call
// counts, so submitting the same address twice uses the coupon twice.
func ApplyCoupon(ctx context.Context, db *sql.DB, characterID int64, address string, effect CouponEffect) (*model.Redemption, error) {
	if effect == nil {
		effect = NoCouponEffect
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	coupon, err := getCoupon(ctx, tx, `WHERE address = ?`, address)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, apperr.New(apperr.CodeCouponNotFound)
	}
	if _, err := requireCharacter(ctx, tx, characterID); err != nil {
		return nil, err
	}

	if !coupon.Unlimited() {
		result, err := tx.ExecContext(ctx,
			`UPDATE coupons SET usage = usage - 1 WHERE id = ? AND usage > 0`, coupon.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("using coupon: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("checking coupon usage: %w", err)
		}
		if n == 0 {
			return nil, apperr.New(apperr.CodeCouponExhausted)
		}
		coupon.Usage--
	}

	msg, err := effect(ctx, tx, characterID, *coupon)
	if err != nil {
		return nil, fmt.Errorf("applying coupon: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO coupon_redemptions (coupon_id, character_id, message) VALUES (?, ?, ?)`,
		coupon.ID, characterID, msg,
	)
	if err != nil {
		return nil, fmt.Errorf("recording redemption: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting redemption id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing redemption: %w", err)
	}
	return getRedemption(ctx, db, id)
}

func getRedemption(ctx context.Context, db *sql.DB, id int64) (*model.Redemption, error) {
	r := &model.Redemption{}
	err := db.QueryRowContext(ctx,
		`SELECT id, coupon_id, character_id, message, redeemed_at FROM coupon_redemptions WHERE id = ?`, id,
	).Scan(&r.ID, &r.CouponID, &r.CharacterID, &r.Message, &r.RedeemedAt)
	if err != nil {
		return nil, fmt.Errorf("getting redemption: %w", err)
	}
	return r, nil
}

// ListRedemptions returns a coupon's redemption log, oldest first.
func ListRedemptions(ctx context.Context, db *sql.DB, couponID int64) ([]model.Redemption, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, coupon_id, character_id, message, redeemed_at
		 FROM coupon_redemptions WHERE coupon_id = ? ORDER BY id`, couponID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing redemptions: %w", err)
	}
	defer rows.Close()

	redemptions := []model.Redemption{}
	for rows.Next() {
		var r model.Redemption
		if err := rows.Scan(&r.ID, &r.CouponID, &r.CharacterID, &r.Message, &r.RedeemedAt); err != nil {
			return nil, fmt.Errorf("scanning redemption: %w", err)
		}
		redemptions = append(redemptions, r)
	}
	return redemptions, rows.Err()
}
