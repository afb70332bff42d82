package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/auth"
	"github.com/erazemk/maskarada/internal/events"
	"github.com/erazemk/maskarada/internal/model"
	"github.com/erazemk/maskarada/internal/store"
)

const publishTimeout = 2 * time.Second

// base carries what every handler needs.
type base struct {
	DB     *sql.DB
	Log    *zap.Logger
	Events events.Publisher
}

func (b *base) fail(w http.ResponseWriter, r *http.Request, err error) {
	domainError(w, r, b.Log, err)
}

// publish emits a domain event after a committed change. Failures are
// logged; the change itself stands.
func (b *base) publish(ctx context.Context, eventType string, claims *auth.Claims, payload any) {
	if b.Events == nil {
		return
	}
	actor := ""
	if claims != nil {
		actor = claims.Username
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := b.Events.Publish(ctx, events.New(eventType, actor, payload)); err != nil {
		b.Log.Warn("publishing event", zap.String("type", eventType), zap.Error(err))
	}
}

// authorize checks that the caller may act for a character. Storytellers
// act for anyone; players only for the characters they control. It writes
// the error response itself and reports whether to continue.
func (b *base) authorize(w http.ResponseWriter, r *http.Request, characterID int64) bool {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return false
	}
	if characterID == 0 {
		b.fail(w, r, apperr.New(apperr.CodeCharacterNotSelected))
		return false
	}
	if model.RoleAtLeast(claims.Role, model.RoleStoryteller) {
		return true
	}

	c, err := store.GetCharacter(r.Context(), b.DB, characterID)
	if err != nil {
		b.fail(w, r, err)
		return false
	}
	if c == nil {
		b.fail(w, r, apperr.New(apperr.CodeCharacterNotFound))
		return false
	}
	if !c.ControlledBy(claims.UserID) {
		jsonError(w, http.StatusForbidden, "you do not control this character")
		return false
	}
	return true
}

// actor returns the caller's user ID for audit columns.
func actor(r *http.Request) *int64 {
	claims := GetClaims(r.Context())
	if claims == nil {
		return nil
	}
	id := claims.UserID
	return &id
}

func isStoryteller(r *http.Request) bool {
	claims := GetClaims(r.Context())
	return claims != nil && model.RoleAtLeast(claims.Role, model.RoleStoryteller)
}
