package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/andywinn76/todo-app/internal/auth"
	"github.com/andywinn76/todo-app/internal/model"
	"github.com/andywinn76/todo-app/internal/store"
)

type TaskHandler struct {
	taskStore *store.TaskStore
	listStore *store.ListStore
	logger    *slog.Logger
}

func NewTaskHandler(ts *store.TaskStore, ls *store.ListStore, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{taskStore: ts, listStore: ls, logger: logger}
}

type taskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	listID, err := parseListIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid list_id"})
		return
	}
	if !requireMembership(w, r, h.listStore, h.logger, listID) {
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "title is required"})
		return
	}
	if req.Priority != "" && req.Priority != model.PriorityLow && req.Priority != model.PriorityMedium && req.Priority != model.PriorityHigh {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "priority must be low, medium, or high"})
		return
	}

	task, err := h.taskStore.Create(listID, req.Title, req.Description, req.Priority, req.DueDate)
	if err != nil {
		h.logger.Error("create task", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to create task"})
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	listID, err := parseListIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid list_id"})
		return
	}
	if !requireMembership(w, r, h.listStore, h.logger, listID) {
		return
	}

	tasks, err := h.taskStore.ListByList(listID)
	if err != nil {
		h.logger.Error("list tasks", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to list tasks"})
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadForMember(w, r)
	if !ok {
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		req.Title = task.Title
	}
	if req.Priority == "" {
		req.Priority = task.Priority
	}

	updated, err := h.taskStore.Update(task.ID, req.Title, req.Description, req.Priority, req.DueDate)
	if err != nil {
		h.logger.Error("update task", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to update task"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadForMember(w, r)
	if !ok {
		return
	}

	var req struct {
		Completed bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON"})
		return
	}

	updated, err := h.taskStore.SetCompleted(task.ID, req.Completed)
	if err != nil {
		h.logger.Error("set completed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to update task"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadForMember(w, r)
	if !ok {
		return
	}

	if err := h.taskStore.Delete(task.ID); err != nil {
		h.logger.Error("delete task", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to delete task"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadForMember resolves the task in the path and verifies the caller
// belongs to its list.
func (h *TaskHandler) loadForMember(w http.ResponseWriter, r *http.Request) (*model.Task, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return nil, false
	}

	task, err := h.taskStore.GetByID(id)
	if err != nil {
		h.logger.Error("get task", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return nil, false
	}
	if task == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "task not found"})
		return nil, false
	}
	if !requireMembership(w, r, h.listStore, h.logger, task.ListID) {
		return nil, false
	}
	return task, true
}

// requireMembership writes a not-found response and returns false when the
// caller has no membership on the list. Shared by the item handlers.
func requireMembership(w http.ResponseWriter, r *http.Request, ls *store.ListStore, logger *slog.Logger, listID int64) bool {
	member, err := ls.GetMember(listID, auth.UserID(r.Context()))
	if err != nil {
		logger.Error("get member", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return false
	}
	if member == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "list not found"})
		return false
	}
	return true
}
