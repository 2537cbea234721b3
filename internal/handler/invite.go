package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/andywinn76/todo-app/internal/apperr"
	"github.com/andywinn76/todo-app/internal/auth"
	"github.com/andywinn76/todo-app/internal/model"
	"github.com/andywinn76/todo-app/internal/store"
	ws "github.com/andywinn76/todo-app/internal/websocket"
)

type InviteHandler struct {
	inviteStore *store.InviteStore
	listStore   *store.ListStore
	userStore   *store.UserStore
	hub         *ws.Hub
	logger      *slog.Logger
}

func NewInviteHandler(is *store.InviteStore, ls *store.ListStore, us *store.UserStore, hub *ws.Hub, logger *slog.Logger) *InviteHandler {
	return &InviteHandler{inviteStore: is, listStore: ls, userStore: us, hub: hub, logger: logger}
}

// Send creates a pending invite for another user, looked up by username or
// email. The distinct failure modes carry stable codes so the caller can
// surface each one differently.
func (h *InviteHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req struct {
		ListID     int64  `json:"list_id"`
		Identifier string `json:"identifier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON"})
		return
	}
	if req.ListID == 0 || req.Identifier == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "list_id and identifier are required"})
		return
	}

	member, err := h.listStore.GetMember(req.ListID, userID)
	if err != nil {
		h.logger.Error("get member", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return
	}
	if member == nil || member.Role != model.RoleOwner {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "list not found"})
		return
	}

	invitee, err := h.userStore.FindByIdentifier(req.Identifier)
	if err != nil {
		h.logger.Error("find invitee", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return
	}
	if invitee == nil {
		writeErr(w, h.logger, apperr.NewCode(apperr.NotFound, apperr.CodeUserNotFound, "no user matches that username or email"), "send invite")
		return
	}
	if invitee.ID == userID {
		writeErr(w, h.logger, apperr.NewCode(apperr.Conflict, apperr.CodeSelfInvite, "you cannot invite yourself"), "send invite")
		return
	}

	existing, err := h.listStore.GetMember(req.ListID, invitee.ID)
	if err != nil {
		h.logger.Error("check membership", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return
	}
	if existing != nil {
		writeErr(w, h.logger, apperr.NewCode(apperr.Conflict, apperr.CodeAlreadyMember, "that user is already a member of this list"), "send invite")
		return
	}

	invite, err := h.inviteStore.Create(req.ListID, userID, invitee.ID)
	if err != nil {
		writeErr(w, h.logger, err, "failed to create invite")
		return
	}

	h.hub.Notify(invitee.ID, ws.NewMessage("invite", "created", invite.ID, map[string]any{
		"list_id": invite.ListID,
	}))
	h.logger.Info("invite sent", "invite_id", invite.ID, "list_id", invite.ListID, "invitee_id", invitee.ID)
	writeJSON(w, http.StatusCreated, invite)
}

// Pending lists the caller's open invites, newest first, enriched with the
// list name and inviter label.
func (h *InviteHandler) Pending(w http.ResponseWriter, r *http.Request) {
	invites, err := h.inviteStore.ListPendingForInvitee(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list pending invites", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to load invites"})
		return
	}
	if invites == nil {
		invites = []model.PendingInvite{}
	}
	writeJSON(w, http.StatusOK, invites)
}

func (h *InviteHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.inviteStore.CountPending(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("count pending invites", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to count invites"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *InviteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	invite, ok := h.loadForInvitee(w, r)
	if !ok {
		return
	}

	accepted, err := h.inviteStore.Accept(invite.ID)
	if err != nil {
		writeErr(w, h.logger, err, "failed to accept invite")
		return
	}

	h.hub.Notify(accepted.InviterID, ws.NewMessage("invite", "resolved", accepted.ID, map[string]any{
		"list_id": accepted.ListID,
		"status":  accepted.Status,
	}))
	h.logger.Info("invite accepted", "invite_id", accepted.ID, "list_id", accepted.ListID)
	writeJSON(w, http.StatusOK, accepted)
}

func (h *InviteHandler) Decline(w http.ResponseWriter, r *http.Request) {
	invite, ok := h.loadForInvitee(w, r)
	if !ok {
		return
	}

	declined, err := h.inviteStore.Decline(invite.ID)
	if err != nil {
		writeErr(w, h.logger, err, "failed to decline invite")
		return
	}

	h.hub.Notify(declined.InviterID, ws.NewMessage("invite", "resolved", declined.ID, map[string]any{
		"list_id": declined.ListID,
		"status":  declined.Status,
	}))
	writeJSON(w, http.StatusOK, declined)
}

// loadForInvitee fetches the invite and checks the caller is its invitee.
// Anyone else sees 404, the same as a missing invite.
func (h *InviteHandler) loadForInvitee(w http.ResponseWriter, r *http.Request) (*model.Invite, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid invite ID"})
		return nil, false
	}
	invite, err := h.inviteStore.GetByID(id)
	if err != nil {
		h.logger.Error("get invite", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return nil, false
	}
	if invite == nil || invite.InviteeID != auth.UserID(r.Context()) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "invite not found"})
		return nil, false
	}
	return invite, true
}
