package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/events"
	"github.com/erazemk/maskarada/internal/store"
)

// ItemsHandler handles items and their custody.
type ItemsHandler struct {
	base
}

// custodyRequest moves items between a container and a character.
type custodyRequest struct {
	ContainerID int64   `json:"containerId"`
	ItemOwnerID int64   `json:"itemOwnerId"`
	ItemIDs     []int64 `json:"itemIds"`
}

type giveRequest struct {
	FromID  int64   `json:"fromId"`
	ToID    int64   `json:"toId"`
	ItemIDs []int64 `json:"itemIds"`
}

type itemRequest struct {
	Name        string `json:"name"`
	Content     string `json:"content"`
	TypeID      *int64 `json:"type_id"`
	ContainerID int64  `json:"container_id"`
}

type itemTypeRequest struct {
	Name string `json:"name"`
}

// itemsMoved is the payload of an items-moved event.
type itemsMoved struct {
	Action          string  `json:"action"`
	ContainerID     int64   `json:"container_id,omitempty"`
	FromCharacterID int64   `json:"from_character_id,omitempty"`
	ToCharacterID   int64   `json:"to_character_id,omitempty"`
	ItemIDs         []int64 `json:"item_ids"`
}

// Take handles POST /api/items/take: items leave a container for a character.
func (h *ItemsHandler) Take(w http.ResponseWriter, r *http.Request) {
	var req custodyRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !h.authorize(w, r, req.ItemOwnerID) {
		return
	}

	c, err := store.TakeItems(r.Context(), h.DB, req.ContainerID, req.ItemOwnerID, req.ItemIDs, actor(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.moved(r, itemsMoved{
		Action:        "take",
		ContainerID:   req.ContainerID,
		ToCharacterID: req.ItemOwnerID,
		ItemIDs:       req.ItemIDs,
	})
	jsonResponse(w, http.StatusOK, c)
}

// Put handles POST /api/items/put: items go from a character into a container.
func (h *ItemsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req custodyRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !h.authorize(w, r, req.ItemOwnerID) {
		return
	}

	c, err := store.PutItems(r.Context(), h.DB, req.ContainerID, req.ItemOwnerID, req.ItemIDs, actor(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.moved(r, itemsMoved{
		Action:          "put",
		ContainerID:     req.ContainerID,
		FromCharacterID: req.ItemOwnerID,
		ItemIDs:         req.ItemIDs,
	})
	jsonResponse(w, http.StatusOK, c)
}

// Give handles POST /api/items/give: items pass directly between characters.
func (h *ItemsHandler) Give(w http.ResponseWriter, r *http.Request) {
	var req giveRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !h.authorize(w, r, req.FromID) {
		return
	}

	items, err := store.GiveItems(r.Context(), h.DB, req.FromID, req.ToID, req.ItemIDs, actor(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.moved(r, itemsMoved{
		Action:          "give",
		FromCharacterID: req.FromID,
		ToCharacterID:   req.ToID,
		ItemIDs:         req.ItemIDs,
	})
	jsonResponse(w, http.StatusOK, items)
}

func (h *ItemsHandler) moved(r *http.Request, m itemsMoved) {
	claims := GetClaims(r.Context())
	h.Log.Info("items moved",
		zap.String("user", claims.Username),
		zap.String("action", m.Action),
		zap.Int64s("item_ids", m.ItemIDs),
	)
	h.publish(r.Context(), events.ItemsMoved, claims, m)
}

// Create handles POST /api/items. New items always start in a container.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	it, err := store.CreateItem(r.Context(), h.DB, req.Name, req.Content, req.TypeID, req.ContainerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, it)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	it, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if it == nil {
		h.fail(w, r, apperr.New(apperr.CodeItemNotFound))
		return
	}
	jsonResponse(w, http.StatusOK, it)
}

// Update handles PUT /api/items/{id}. Custody is not changed here.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := store.UpdateItem(r.Context(), h.DB, id, req.Name, req.Content, req.TypeID); err != nil {
		h.fail(w, r, err)
		return
	}

	it, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, it)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, messageResponse{Message: "item deleted"})
}

// History handles GET /api/items/{id}/history.
func (h *ItemsHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	history, err := store.ItemHistory(r.Context(), h.DB, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, history)
}

// ListTypes handles GET /api/item-types.
func (h *ItemsHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := store.ListItemTypes(r.Context(), h.DB)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, types)
}

// CreateType handles POST /api/item-types.
func (h *ItemsHandler) CreateType(w http.ResponseWriter, r *http.Request) {
	var req itemTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	t, err := store.CreateItemType(r.Context(), h.DB, req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, t)
}
