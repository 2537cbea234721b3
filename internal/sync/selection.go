package sync

import (
	"log/slog"
	"sync"
)

// Selection owns the single active-list value for one signed-in user. The
// value is mirrored into durable storage keyed strictly by user id, so a
// later sign-in by a different user never inherits it.
type Selection struct {
	userID  string
	storage Storage
	logger  *slog.Logger

	mu     sync.Mutex
	active string
}

// NewSelection restores the durable value immediately, before the directory
// has loaded, so the first read does not default to an arbitrary list. The
// restored id is validated later by Reconcile once the directory is known.
func NewSelection(userID string, storage Storage, logger *slog.Logger) *Selection {
	s := &Selection{userID: userID, storage: storage, logger: logger}
	v, err := storage.Load(userID)
	if err != nil {
		logger.Warn("restore selection", "error", err)
		return s
	}
	s.active = v
	return s
}

// Active returns the current active list id, or "" when none is selected.
func (s *Selection) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Select sets the active list and persists it. An empty id clears the
// selection and the durable key. The in-memory value updates synchronously;
// a storage failure is logged but does not undo the selection.
func (s *Selection) Select(listID string) {
	s.mu.Lock()
	s.active = listID
	s.mu.Unlock()

	var err error
	if listID == "" {
		err = s.storage.Clear(s.userID)
	} else {
		err = s.storage.Save(s.userID, listID)
	}
	if err != nil {
		s.logger.Warn("persist selection", "error", err)
	}
}

// Reconcile validates the active id against a freshly loaded directory. If
// it no longer resolves, the durable value is tried first; failing that the
// stored key is purged and the selection falls back to the directory's first
// entry, or to none when the directory is empty.
func (s *Selection) Reconcile(lists []ListInfo) {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()

	if active != "" && containsList(lists, active) {
		return
	}

	stored, err := s.storage.Load(s.userID)
	if err != nil {
		s.logger.Warn("load stored selection", "error", err)
		stored = ""
	}
	if stored != "" && containsList(lists, stored) {
		s.mu.Lock()
		s.active = stored
		s.mu.Unlock()
		return
	}
	if stored != "" {
		if err := s.storage.Clear(s.userID); err != nil {
			s.logger.Warn("purge stale selection", "error", err)
		}
	}

	if len(lists) > 0 {
		s.Select(lists[0].ID)
		return
	}
	s.Select("")
}

func containsList(lists []ListInfo, id string) bool {
	for _, l := range lists {
		if l.ID == id {
			return true
		}
	}
	return false
}
