package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/andywinn76/todo-app/internal/model"
	"github.com/andywinn76/todo-app/internal/store"
)

type GroceryHandler struct {
	groceryStore *store.GroceryStore
	listStore    *store.ListStore
	logger       *slog.Logger
}

func NewGroceryHandler(gs *store.GroceryStore, ls *store.ListStore, logger *slog.Logger) *GroceryHandler {
	return &GroceryHandler{groceryStore: gs, listStore: ls, logger: logger}
}

type groceryItemRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

func (h *GroceryHandler) Create(w http.ResponseWriter, r *http.Request) {
	listID, err := parseListIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid list_id"})
		return
	}
	if !requireMembership(w, r, h.listStore, h.logger, listID) {
		return
	}

	var req groceryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "name is required"})
		return
	}

	item, err := h.groceryStore.Create(listID, req.Name, req.Quantity)
	if err != nil {
		h.logger.Error("create grocery item", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to create item"})
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *GroceryHandler) List(w http.ResponseWriter, r *http.Request) {
	listID, err := parseListIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid list_id"})
		return
	}
	if !requireMembership(w, r, h.listStore, h.logger, listID) {
		return
	}

	items, err := h.groceryStore.ListByList(listID)
	if err != nil {
		h.logger.Error("list grocery items", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to list items"})
		return
	}
	if items == nil {
		items = []model.GroceryItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *GroceryHandler) Update(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadForMember(w, r)
	if !ok {
		return
	}

	var req groceryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		req.Name = item.Name
	}

	updated, err := h.groceryStore.Update(item.ID, req.Name, req.Quantity)
	if err != nil {
		h.logger.Error("update grocery item", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to update item"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Check sets the checked flag to the explicit value in the body, mirroring
// the client's optimistic state rather than toggling server-side.
func (h *GroceryHandler) Check(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadForMember(w, r)
	if !ok {
		return
	}

	var req struct {
		Checked bool `json:"checked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON"})
		return
	}

	updated, err := h.groceryStore.SetChecked(item.ID, req.Checked)
	if err != nil {
		h.logger.Error("set checked", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to update item"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *GroceryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadForMember(w, r)
	if !ok {
		return
	}

	if err := h.groceryStore.Delete(item.ID); err != nil {
		h.logger.Error("delete grocery item", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to delete item"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroceryHandler) loadForMember(w http.ResponseWriter, r *http.Request) (*model.GroceryItem, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return nil, false
	}

	item, err := h.groceryStore.GetByID(id)
	if err != nil {
		h.logger.Error("get grocery item", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return nil, false
	}
	if item == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "item not found"})
		return nil, false
	}
	if !requireMembership(w, r, h.listStore, h.logger, item.ListID) {
		return nil, false
	}
	return item, true
}
