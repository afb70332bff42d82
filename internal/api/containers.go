package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/store"
)

// ContainersHandler handles containers: places and objects that hold items.
type ContainersHandler struct {
	base
}

type containerRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// List handles GET /api/containers.
func (h *ContainersHandler) List(w http.ResponseWriter, r *http.Request) {
	containers, err := store.ListContainers(r.Context(), h.DB)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, containers)
}

// Create handles POST /api/containers.
func (h *ContainersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req containerRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	c, err := store.CreateContainer(r.Context(), h.DB, req.Name, req.Content)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	claims := GetClaims(r.Context())
	h.Log.Info("container created", zap.String("user", claims.Username), zap.String("container", c.Name))
	jsonResponse(w, http.StatusCreated, c)
}

// Get handles GET /api/containers/{id}.
func (h *ContainersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid container id")
		return
	}

	c, err := store.GetContainer(r.Context(), h.DB, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if c == nil {
		h.fail(w, r, apperr.New(apperr.CodeContainerNotFound))
		return
	}
	jsonResponse(w, http.StatusOK, c)
}

// Update handles PUT /api/containers/{id}.
func (h *ContainersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid container id")
		return
	}

	var req containerRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := store.UpdateContainer(r.Context(), h.DB, id, req.Name, req.Content); err != nil {
		h.fail(w, r, err)
		return
	}

	c, err := store.GetContainer(r.Context(), h.DB, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, c)
}

// Delete handles DELETE /api/containers/{id}. Only empty containers can go.
func (h *ContainersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid container id")
		return
	}

	if err := store.DeleteContainer(r.Context(), h.DB, id); err != nil {
		h.fail(w, r, err)
		return
	}

	claims := GetClaims(r.Context())
	h.Log.Info("container deleted", zap.String("user", claims.Username), zap.Int64("container_id", id))
	jsonResponse(w, http.StatusOK, messageResponse{Message: "container deleted"})
}
