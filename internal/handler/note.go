package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/andywinn76/todo-app/internal/auth"
	"github.com/andywinn76/todo-app/internal/model"
	"github.com/andywinn76/todo-app/internal/store"
)

type NoteHandler struct {
	noteStore *store.NoteStore
	listStore *store.ListStore
	logger    *slog.Logger
}

func NewNoteHandler(ns *store.NoteStore, ls *store.ListStore, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{noteStore: ns, listStore: ls, logger: logger}
}

// Get returns the list's note. A list that has never been written returns an
// empty note body rather than 404, so the editor can open blank.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	listID, err := parseListIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid list_id"})
		return
	}
	if !requireMembership(w, r, h.listStore, h.logger, listID) {
		return
	}

	note, err := h.noteStore.GetByList(listID)
	if err != nil {
		h.logger.Error("get note", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to load note"})
		return
	}
	if note == nil {
		note = &model.Note{ListID: listID}
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Put(w http.ResponseWriter, r *http.Request) {
	listID, err := parseListIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid list_id"})
		return
	}
	if !requireMembership(w, r, h.listStore, h.logger, listID) {
		return
	}

	list, err := h.listStore.GetByID(listID)
	if err != nil || list == nil {
		h.logger.Error("get list for note", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return
	}
	if list.Kind != model.KindNote {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "list does not hold a note"})
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON"})
		return
	}

	note, err := h.noteStore.Upsert(listID, req.Body, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("upsert note", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to save note"})
		return
	}
	writeJSON(w, http.StatusOK, note)
}
