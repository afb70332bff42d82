package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/maskarada/internal/events"
	"github.com/erazemk/maskarada/internal/geo"
	"github.com/erazemk/maskarada/internal/ritual"
	"github.com/erazemk/maskarada/internal/store"
)

// UtilHandler handles coupons and the heart of the city.
type UtilHandler struct {
	base
	Gate         *ritual.Gate
	CouponEffect store.CouponEffect
}

type applyCouponRequest struct {
	CharID  int64  `json:"charId"`
	Address string `json:"address"`
}

// heartRequest carries the caller's position as reported by the device.
// Missing coordinates mean geolocation was unavailable.
type heartRequest struct {
	Mode        string   `json:"mode"`
	FocusID     int64    `json:"focusId"`
	AshesID     int64    `json:"ashesId"`
	CharacterID int64    `json:"characterId"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
}

type createCouponRequest struct {
	Address string `json:"address"`
	Usage   int    `json:"usage"`
	Effect  string `json:"effect"`
}

// ApplyCoupon handles POST /api/util/coupon.
func (h *UtilHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req applyCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Address == "" {
		jsonError(w, http.StatusBadRequest, "address required")
		return
	}
	if !h.authorize(w, r, req.CharID) {
		return
	}

	red, err := store.ApplyCoupon(r.Context(), h.DB, req.CharID, req.Address, h.CouponEffect)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	claims := GetClaims(r.Context())
	h.Log.Info("coupon redeemed",
		zap.String("user", claims.Username),
		zap.Int64("character_id", req.CharID),
		zap.Int64("coupon_id", red.CouponID),
	)
	h.publish(r.Context(), events.CouponRedeemed, claims, red)
	jsonResponse(w, http.StatusOK, messageResponse{Message: red.Message})
}

// GetHeart handles GET /api/util/heart.
func (h *UtilHandler) GetHeart(w http.ResponseWriter, r *http.Request) {
	heart, err := h.Gate.Heart(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, heart)
}

// SetHeart handles POST /api/util/heart. Location and mode are checked
// before the caller's control of the character, so a missing fix or an
// unselected character is reported as such.
func (h *UtilHandler) SetHeart(w http.ResponseWriter, r *http.Request) {
	var req heartRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rr := ritual.Request{
		Mode:        req.Mode,
		CharacterID: req.CharacterID,
		AshesItemID: req.AshesID,
		FocusItemID: req.FocusID,
	}
	if req.Lat != nil && req.Lon != nil {
		rr.Position = &geo.Point{Lat: *req.Lat, Lon: *req.Lon}
	}

	if _, err := h.Gate.Check(rr); err != nil {
		h.fail(w, r, err)
		return
	}
	if !h.authorize(w, r, req.CharacterID) {
		return
	}

	rite, err := h.Gate.Perform(r.Context(), rr)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	claims := GetClaims(r.Context())
	h.Log.Info("rite performed",
		zap.String("user", claims.Username),
		zap.String("mode", string(rite.Mode)),
		zap.Int64("character_id", rite.CharacterID),
	)
	h.publish(r.Context(), events.RitePerformed, claims, rite)
	jsonResponse(w, http.StatusOK, messageResponse{Message: rite.Message})
}

// Rites handles GET /api/util/rites.
func (h *UtilHandler) Rites(w http.ResponseWriter, r *http.Request) {
	rites, err := store.ListRites(r.Context(), h.DB, 0)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, rites)
}

// ListCoupons handles GET /api/coupons.
func (h *UtilHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := store.ListCoupons(r.Context(), h.DB)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, coupons)
}

// CreateCoupon handles POST /api/coupons. An empty address is generated.
func (h *UtilHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req createCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := store.CreateCoupon(r.Context(), h.DB, req.Address, req.Usage, req.Effect)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	claims := GetClaims(r.Context())
	h.Log.Info("coupon created", zap.String("user", claims.Username), zap.String("address", c.Address))
	jsonResponse(w, http.StatusCreated, c)
}

// Redemptions handles GET /api/coupons/{id}/redemptions.
func (h *UtilHandler) Redemptions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid coupon id")
		return
	}

	reds, err := store.ListRedemptions(r.Context(), h.DB, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, reds)
}
