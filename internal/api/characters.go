package api

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/erazemk/maskarada/internal/model"
	"github.com/erazemk/maskarada/internal/store"
)

// CharactersHandler handles character sheets and traits.
type CharactersHandler struct {
	base
}

type createCharacterRequest struct {
	Name   string `json:"name"`
	UserID *int64 `json:"user_id"`
}

type updateCharacterRequest struct {
	Name   string `json:"name"`
	Health int    `json:"health"`
	Blood  int    `json:"blood"`
}

type assignCharacterRequest struct {
	UserID *int64 `json:"user_id"`
}

type traitRequest struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// List handles GET /api/characters. Players see only their own characters.
func (h *CharactersHandler) List(w http.ResponseWriter, r *http.Request) {
	var owner *int64
	if !isStoryteller(r) {
		owner = actor(r)
	}

	characters, err := store.ListCharacters(r.Context(), h.DB, owner)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if characters == nil {
		characters = []model.Character{}
	}
	jsonResponse(w, http.StatusOK, characters)
}

// Create handles POST /api/characters.
func (h *CharactersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCharacterRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	c, err := store.CreateCharacter(r.Context(), h.DB, req.Name, req.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	claims := GetClaims(r.Context())
	h.Log.Info("character created", zap.String("user", claims.Username), zap.String("character", c.Name))
	jsonResponse(w, http.StatusCreated, c)
}

// Get handles GET /api/characters/{id}.
func (h *CharactersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid character id")
		return
	}
	if !h.authorize(w, r, id) {
		return
	}

	c, err := store.GetCharacter(r.Context(), h.DB, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if c == nil {
		jsonError(w, http.StatusNotFound, "character not found")
		return
	}
	jsonResponse(w, http.StatusOK, c)
}

// Update handles PUT /api/characters/{id}.
func (h *CharactersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid character id")
		return
	}

	var req updateCharacterRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := store.UpdateCharacter(r.Context(), h.DB, id, req.Name, req.Health, req.Blood); err != nil {
		h.fail(w, r, err)
		return
	}

	c, err := store.GetCharacter(r.Context(), h.DB, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, c)
}

// Assign handles PUT /api/characters/{id}/player.
func (h *CharactersHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid character id")
		return
	}

	var req assignCharacterRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID != nil {
		u, err := store.GetUser(r.Context(), h.DB, *req.UserID)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if u == nil || u.DeletedAt != nil {
			jsonError(w, http.StatusNotFound, "user not found")
			return
		}
	}

	if err := store.AssignCharacter(r.Context(), h.DB, id, req.UserID); err != nil {
		h.fail(w, r, err)
		return
	}

	claims := GetClaims(r.Context())
	h.Log.Info("character assigned", zap.String("user", claims.Username), zap.Int64("character_id", id), zap.Int64p("player_id", req.UserID))
	jsonResponse(w, http.StatusOK, messageResponse{Message: "character assigned"})
}

// Delete handles DELETE /api/characters/{id}.
func (h *CharactersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid character id")
		return
	}

	if err := store.DeleteCharacter(r.Context(), h.DB, id); err != nil {
		h.fail(w, r, err)
		return
	}

	claims := GetClaims(r.Context())
	h.Log.Info("character deleted", zap.String("user", claims.Username), zap.Int64("character_id", id))
	jsonResponse(w, http.StatusOK, messageResponse{Message: "character deleted"})
}

// AddTrait handles POST /api/characters/{id}/traits.
func (h *CharactersHandler) AddTrait(w http.ResponseWriter, r *http.Request) {
	h.changeTrait(w, r, store.AddTrait)
}

// RemoveTrait handles DELETE /api/characters/{id}/traits.
func (h *CharactersHandler) RemoveTrait(w http.ResponseWriter, r *http.Request) {
	h.changeTrait(w, r, store.RemoveTrait)
}

func (h *CharactersHandler) changeTrait(w http.ResponseWriter, r *http.Request, apply func(context.Context, *sql.DB, int64, model.Trait) error) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid character id")
		return
	}

	var req traitRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	kind, err := model.ParseTraitKind(req.Kind)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := apply(r.Context(), h.DB, id, model.Trait{Kind: kind, Name: req.Name}); err != nil {
		h.fail(w, r, err)
		return
	}

	traits, err := store.ListTraits(r.Context(), h.DB, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, traits)
}

// Accounts handles GET /api/characters/{id}/accounts.
func (h *CharactersHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid character id")
		return
	}
	if !h.authorize(w, r, id) {
		return
	}

	accounts, err := store.ListAccounts(r.Context(), h.DB, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, accounts)
}

// Items handles GET /api/characters/{id}/items.
func (h *CharactersHandler) Items(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid character id")
		return
	}
	if !h.authorize(w, r, id) {
		return
	}

	items, err := store.ListItemsByCharacter(r.Context(), h.DB, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Portrait handles GET /api/characters/{id}/portrait. Portraits are imported
// with the campaign seed.
func (h *CharactersHandler) Portrait(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid character id")
		return
	}
	if !h.authorize(w, r, id) {
		return
	}

	data, mime, err := store.GetPortrait(r.Context(), h.DB, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no portrait")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
