package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/model"
	"github.com/erazemk/maskarada/internal/store"
)

// CompaniesHandler handles in-fiction companies.
type CompaniesHandler struct {
	base
}

type companyRequest struct {
	Name        string  `json:"name"`
	Level       int     `json:"level"`
	IsActive    bool    `json:"is_active"`
	IsVisible   bool    `json:"is_visible"`
	CoordX      float64 `json:"coord_x"`
	CoordY      float64 `json:"coord_y"`
	CharacterID int64   `json:"character_id"`
}

// List handles GET /api/companies. Players only see visible companies.
func (h *CompaniesHandler) List(w http.ResponseWriter, r *http.Request) {
	companies, err := store.ListCompanies(r.Context(), h.DB, 0, !isStoryteller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, companies)
}

// Create handles POST /api/companies.
func (h *CompaniesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	c, err := store.CreateCompany(r.Context(), h.DB, model.Company{
		Name:        req.Name,
		Level:       req.Level,
		IsActive:    req.IsActive,
		IsVisible:   req.IsVisible,
		CoordX:      req.CoordX,
		CoordY:      req.CoordY,
		CharacterID: req.CharacterID,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	claims := GetClaims(r.Context())
	h.Log.Info("company created", zap.String("user", claims.Username), zap.String("company", c.Name))
	jsonResponse(w, http.StatusCreated, c)
}

// Get handles GET /api/companies/{id}.
func (h *CompaniesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid company id")
		return
	}

	c, err := store.GetCompany(r.Context(), h.DB, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if c == nil || (!c.IsVisible && !isStoryteller(r)) {
		h.fail(w, r, apperr.New(apperr.CodeCompanyNotFound))
		return
	}
	jsonResponse(w, http.StatusOK, c)
}

// Update handles PUT /api/companies/{id}.
func (h *CompaniesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid company id")
		return
	}

	var req companyRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	err := store.UpdateCompany(r.Context(), h.DB, model.Company{
		ID:        id,
		Name:      req.Name,
		Level:     req.Level,
		IsActive:  req.IsActive,
		IsVisible: req.IsVisible,
		CoordX:    req.CoordX,
		CoordY:    req.CoordY,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	c, err := store.GetCompany(r.Context(), h.DB, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, c)
}
