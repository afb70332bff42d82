package model

import "time"

// UnlimitedUsage marks a coupon that can be redeemed any number of times.
const UnlimitedUsage = -1

// Coupon is a redeemable code, usually printed as a QR code.
type Coupon struct {
	ID        int64     `json:"id"`
	Address   string    `json:"address"`
	Usage     int       `json:"usage"`
	Effect    string    `json:"effect,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Unlimited reports whether the coupon never runs out.
func (c *Coupon) Unlimited() bool {
	return c.Usage == UnlimitedUsage
}

// Redemption is one successful use of a coupon.
type Redemption struct {
	ID          int64     `json:"id"`
	CouponID    int64     `json:"coupon_id"`
	CharacterID int64     `json:"character_id"`
	Message     string    `json:"message"`
	RedeemedAt  time.Time `json:"redeemed_at"`
}
