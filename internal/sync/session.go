package sync

import (
	"context"
	"log/slog"
)

// Config wires a Session's backend boundaries together.
type Config struct {
	UserID    string
	Lists     ListAPI
	Invites   InviteAPI
	Tasks     ItemAPI[TaskItem]
	Groceries ItemAPI[GroceryEntry]
	Stream    Stream
	Storage   Storage
	Report    func(error)
	Logger    *slog.Logger
}

// Session is the state-owning authority for one signed-in user: the
// directory, the active selection, and the invite feed. It is created at
// sign-in and torn down at sign-out; a new sign-in gets a fresh Session, so
// no state leaks between users.
type Session struct {
	cfg Config
	sel *Selection
	dir *Directory
	fd  *Feed
}

// NewSession builds the session and performs the early selection restore.
// No network traffic happens until Start.
func NewSession(cfg Config) *Session {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	sel := NewSelection(cfg.UserID, cfg.Storage, cfg.Logger.With("component", "selection"))
	dir := NewDirectory(cfg.Lists, sel, cfg.Report, cfg.Logger.With("component", "directory"))
	fd := NewFeed(cfg.Invites, cfg.Stream, dir, sel, cfg.Report, cfg.Logger.With("component", "invites"))
	return &Session{cfg: cfg, sel: sel, dir: dir, fd: fd}
}

// Start loads the directory and the pending invites and opens the realtime
// subscription. onNewInvite may be nil.
func (s *Session) Start(ctx context.Context, onNewInvite func(PendingInvite)) error {
	if err := s.dir.Refresh(ctx); err != nil {
		return err
	}
	if err := s.fd.Refresh(ctx); err != nil {
		return err
	}
	return s.fd.Subscribe(ctx, onNewInvite)
}

func (s *Session) Directory() *Directory { return s.dir }
func (s *Session) Selection() *Selection { return s.sel }
func (s *Session) Invites() *Feed        { return s.fd }

// Tasks returns an optimistic collection over one task list. The caller owns
// its lifecycle and must Close it on teardown.
func (s *Session) Tasks(listID string) *Collection[TaskItem] {
	return NewCollection(s.cfg.Tasks, listID, s.cfg.Report, s.cfg.Logger.With("component", "tasks"))
}

// Groceries returns an optimistic collection over one grocery list.
func (s *Session) Groceries(listID string) *Collection[GroceryEntry] {
	return NewCollection(s.cfg.Groceries, listID, s.cfg.Report, s.cfg.Logger.With("component", "groceries"))
}

// Close tears the session down: the subscription ends and late responses
// are dropped by their owners' cancelled checks.
func (s *Session) Close() {
	s.fd.Unsubscribe()
}
