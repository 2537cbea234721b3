// Package sync holds the client-side synchronization core: the list
// directory, the per-user active selection, optimistic item collections, and
// the invite feed. It talks to the backend only through the small interfaces
// below, so the whole package is testable against scripted fakes.
package sync

import (
	"context"
	"time"
)

// ListInfo is a directory row: a list the user belongs to, enriched with the
// user's role and the owner's display identity. Identifiers are canonical
// decimal strings at this layer; the transport adapter normalizes them.
type ListInfo struct {
	ID            string
	Name          string
	Kind          string
	Role          string
	CreatedBy     string
	CreatedAt     time.Time
	OwnerUsername string
	OwnerFirst    string
	OwnerLast     string
}

// OwnerLabel returns the owner's display name, falling back to the username
// when no name fields are set.
func (l ListInfo) OwnerLabel() string {
	switch {
	case l.OwnerFirst != "" && l.OwnerLast != "":
		return l.OwnerFirst + " " + l.OwnerLast
	case l.OwnerFirst != "":
		return l.OwnerFirst
	default:
		return l.OwnerUsername
	}
}

// PendingInvite is an open invitation addressed to the current user, enriched
// for display.
type PendingInvite struct {
	ID          string
	ListID      string
	ListName    string
	InviterID   string
	InviterName string
	CreatedAt   time.Time
}

// Event is a realtime notification delivered over the Stream.
type Event struct {
	Entity string
	Action string
	ID     string
	ListID string
}

// Item constrains the element type of a Collection. Implementations are
// value types; WithItemID and WithFlag return modified copies. Flag is the
// item's togglable boolean (completed for tasks, checked for groceries).
type Item[T any] interface {
	ItemID() string
	WithItemID(id string) T
	Flag() bool
	WithFlag(v bool) T
}

// TaskItem is the sync-layer view of a task.
type TaskItem struct {
	ID          string
	ListID      string
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
	Completed   bool
	CreatedAt   time.Time
}

func (t TaskItem) ItemID() string              { return t.ID }
func (t TaskItem) WithItemID(id string) TaskItem { t.ID = id; return t }
func (t TaskItem) Flag() bool                  { return t.Completed }
func (t TaskItem) WithFlag(v bool) TaskItem    { t.Completed = v; return t }

// GroceryEntry is the sync-layer view of a grocery item.
type GroceryEntry struct {
	ID        string
	ListID    string
	Name      string
	Quantity  string
	Checked   bool
	CreatedAt time.Time
}

func (g GroceryEntry) ItemID() string                  { return g.ID }
func (g GroceryEntry) WithItemID(id string) GroceryEntry { g.ID = id; return g }
func (g GroceryEntry) Flag() bool                      { return g.Checked }
func (g GroceryEntry) WithFlag(v bool) GroceryEntry    { g.Checked = v; return g }

// ListAPI is the backend boundary for the directory and list management.
type ListAPI interface {
	Directory(ctx context.Context) ([]ListInfo, error)
	Create(ctx context.Context, name, kind string) (ListInfo, error)
	Rename(ctx context.Context, id, name string) (ListInfo, error)
	Delete(ctx context.Context, id string) error
	Leave(ctx context.Context, id string) error
}

// ItemAPI is the repository adapter shape shared by every item kind. SetFlag
// writes the togglable boolean as an explicit value, never a server-side
// toggle, so retries and rollbacks stay idempotent.
type ItemAPI[T Item[T]] interface {
	List(ctx context.Context, listID string) ([]T, error)
	Create(ctx context.Context, listID string, item T) (T, error)
	Update(ctx context.Context, id string, item T) (T, error)
	SetFlag(ctx context.Context, id string, v bool) (T, error)
	Delete(ctx context.Context, id string) error
}

// InviteAPI is the backend boundary for invitations. The badge count comes
// from the local pending cache, so there is no count operation here.
type InviteAPI interface {
	Send(ctx context.Context, listID, identifier string) error
	Pending(ctx context.Context) ([]PendingInvite, error)
	Accept(ctx context.Context, id string) error
	Decline(ctx context.Context, id string) error
}

// Stream is the realtime push channel for the signed-in user. Subscribe may
// be called once per Stream; the returned channel closes when the stream is
// closed or the context is cancelled.
type Stream interface {
	Subscribe(ctx context.Context) (<-chan Event, error)
	Close() error
}
