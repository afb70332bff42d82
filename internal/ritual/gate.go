// Package ritual implements the heart of the city: a geofenced rite that a
// character performs with the first items of the ashes and focus containers.
package ritual

import (
	"context"
	"database/sql"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/geo"
	"github.com/erazemk/maskarada/internal/model"
	"github.com/erazemk/maskarada/internal/store"
)

// DefaultRadiusMeters is how close to the heart a rite must be performed.
const DefaultRadiusMeters = 50

// Config locates the heart and names its containers.
type Config struct {
	Center         geo.Point
	RadiusMeters   float64
	AshesContainer string
	FocusContainer string
}

// DefaultConfig places the heart in the centre of Ljubljana.
func DefaultConfig() Config {
	return Config{
		Center:         geo.Point{Lat: 46.0500, Lon: 14.5069},
		RadiusMeters:   DefaultRadiusMeters,
		AshesContainer: "ashes",
		FocusContainer: "focus",
	}
}

// Gate guards the heart. Effect may be nil.
type Gate struct {
	DB     *sql.DB
	Config Config
	Effect store.RiteEffect
}

// Request is a rite as submitted by a player.
type Request struct {
	Mode        string
	CharacterID int64
	AshesItemID int64
	FocusItemID int64
	// Position is nil when the device could not provide a location.
	Position *geo.Point
}

func (g *Gate) containers() store.HeartContainers {
	return store.HeartContainers{Ashes: g.Config.AshesContainer, Focus: g.Config.FocusContainer}
}

// Heart returns the ashes and focus containers with their contents.
func (g *Gate) Heart(ctx context.Context) (*model.Heart, error) {
	return store.GetHeart(ctx, g.DB, g.containers())
}

// Check validates the parts of a request that need no database.
func (g *Gate) Check(req Request) (model.RitualMode, error) {
	mode, err := model.ParseRitualMode(req.Mode)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInvalidMode, err, req.Mode)
	}
	if req.Position == nil {
		return "", apperr.New(apperr.CodeGeolocationUnavailable)
	}
	radius := g.Config.RadiusMeters
	if radius <= 0 {
		radius = DefaultRadiusMeters
	}
	if !geo.Within(g.Config.Center, *req.Position, radius) {
		d := geo.Distance(g.Config.Center, *req.Position)
		return "", apperr.New(apperr.CodeTooFarAway, d, radius)
	}
	if req.CharacterID == 0 {
		return "", apperr.New(apperr.CodeCharacterNotSelected)
	}
	return mode, nil
}

// Perform validates req and, if the submitted tokens are the ones resting in
// the heart, records the rite and applies its effect.
func (g *Gate) Perform(ctx context.Context, req Request) (*model.Rite, error) {
	mode, err := g.Check(req)
	if err != nil {
		return nil, err
	}

	return store.PerformRite(ctx, g.DB, g.containers(), model.Rite{
		Mode:        mode,
		CharacterID: req.CharacterID,
		AshesItemID: req.AshesItemID,
		FocusItemID: req.FocusItemID,
	}, g.Effect)
}
