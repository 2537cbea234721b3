package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/andywinn76/todo-app/internal/auth"
	"github.com/andywinn76/todo-app/internal/model"
	"github.com/andywinn76/todo-app/internal/store"
	ws "github.com/andywinn76/todo-app/internal/websocket"
)

type ListHandler struct {
	listStore *store.ListStore
	userStore *store.UserStore
	hub       *ws.Hub
	logger    *slog.Logger
}

func NewListHandler(ls *store.ListStore, us *store.UserStore, hub *ws.Hub, logger *slog.Logger) *ListHandler {
	return &ListHandler{listStore: ls, userStore: us, hub: hub, logger: logger}
}

type listRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// Directory returns every list the user belongs to, oldest first, enriched
// with the owner's profile fields via one batched lookup.
func (h *ListHandler) Directory(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	entries, err := h.listStore.ListForUser(userID)
	if err != nil {
		h.logger.Error("load directory", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to load lists"})
		return
	}

	ownerIDs := make([]int64, 0, len(entries))
	seen := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.CreatedBy]; !ok {
			seen[e.CreatedBy] = struct{}{}
			ownerIDs = append(ownerIDs, e.CreatedBy)
		}
	}

	owners, err := h.userStore.Profiles(ownerIDs)
	if err != nil {
		h.logger.Error("load owner profiles", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to load lists"})
		return
	}

	for i := range entries {
		if o, ok := owners[entries[i].CreatedBy]; ok {
			entries[i].OwnerUsername = o.Username
			entries[i].OwnerFirst = o.FirstName
			entries[i].OwnerLast = o.LastName
		}
	}

	if entries == nil {
		entries = []model.ListEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "name is required"})
		return
	}
	if req.Kind == "" {
		req.Kind = model.KindTask
	}
	if !model.ValidKind(req.Kind) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "kind must be task, grocery, or note"})
		return
	}

	list, err := h.listStore.Create(req.Name, req.Kind, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("create list", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to create list"})
		return
	}

	writeJSON(w, http.StatusCreated, list)
}

func (h *ListHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return
	}

	list, ok := h.requireRole(w, r, id, model.RoleOwner)
	if !ok {
		return
	}

	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "name is required"})
		return
	}

	renamed, err := h.listStore.Rename(list.ID, req.Name)
	if err != nil {
		h.logger.Error("rename list", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to rename list"})
		return
	}

	h.notifyMembers(list.ID, ws.NewMessage("list", "updated", list.ID, nil))
	writeJSON(w, http.StatusOK, renamed)
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return
	}

	list, ok := h.requireRole(w, r, id, model.RoleOwner)
	if !ok {
		return
	}

	// Snapshot membership before the cascade wipes it so departed members
	// still hear about the deletion.
	members, err := h.listStore.ListMembers(list.ID)
	if err != nil {
		h.logger.Error("list members", "error", err)
	}

	if err := h.listStore.Delete(list.ID); err != nil {
		h.logger.Error("delete list", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to delete list"})
		return
	}

	msg := ws.NewMessage("list", "deleted", list.ID, nil)
	for _, m := range members {
		h.hub.Notify(m.UserID, msg)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Leave removes the caller's own membership. The owner cannot leave; they
// delete the list instead.
func (h *ListHandler) Leave(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return
	}

	userID := auth.UserID(r.Context())
	member, err := h.listStore.GetMember(id, userID)
	if err != nil {
		h.logger.Error("get member", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return
	}
	if member == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "list not found"})
		return
	}
	if member.Role == model.RoleOwner {
		writeJSON(w, http.StatusConflict, errorBody{Error: "the owner cannot leave; delete the list instead"})
		return
	}

	if err := h.listStore.RemoveMember(id, userID); err != nil {
		h.logger.Error("remove member", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to leave list"})
		return
	}

	h.notifyMembers(id, ws.NewMessage("member", "left", id, map[string]any{"user_id": userID}))
	w.WriteHeader(http.StatusNoContent)
}

// requireRole loads the list and checks the caller's membership. A missing
// membership reads as not-found rather than forbidden, so non-members cannot
// probe which list ids exist.
func (h *ListHandler) requireRole(w http.ResponseWriter, r *http.Request, listID int64, role string) (*model.List, bool) {
	list, err := h.listStore.GetByID(listID)
	if err != nil {
		h.logger.Error("get list", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return nil, false
	}
	if list == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "list not found"})
		return nil, false
	}

	member, err := h.listStore.GetMember(listID, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("get member", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return nil, false
	}
	if member == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "list not found"})
		return nil, false
	}
	if role == model.RoleOwner && member.Role != model.RoleOwner {
		writeJSON(w, http.StatusForbidden, errorBody{Error: "only the owner may do that"})
		return nil, false
	}
	return list, true
}

func (h *ListHandler) notifyMembers(listID int64, msg ws.Message) {
	members, err := h.listStore.ListMembers(listID)
	if err != nil {
		h.logger.Error("list members for notify", "error", err)
		return
	}
	for _, m := range members {
		h.hub.Notify(m.UserID, msg)
	}
}
