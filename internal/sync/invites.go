package sync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrNoPending is returned by QuickAccept when the feed is empty.
var ErrNoPending = errors.New("no pending invites")

// Feed owns the user's pending invitations: the cached list, the realtime
// subscription that announces new ones, and the accept/decline transitions.
// After any successful accept it runs the cascade: refresh the directory,
// activate the joined list, and drop the invite from the local cache without
// waiting for the next push event.
type Feed struct {
	api    InviteAPI
	stream Stream
	dir    *Directory
	sel    *Selection
	logger *slog.Logger
	report func(error)

	mu         sync.Mutex
	pending    []PendingInvite
	seen       map[string]struct{}
	onNew      func(PendingInvite)
	subscribed bool
	cancel     context.CancelFunc
}

func NewFeed(api InviteAPI, stream Stream, dir *Directory, sel *Selection, report func(error), logger *slog.Logger) *Feed {
	if report == nil {
		report = func(error) {}
	}
	return &Feed{
		api:    api,
		stream: stream,
		dir:    dir,
		sel:    sel,
		logger: logger,
		report: report,
		seen:   map[string]struct{}{},
	}
}

// Refresh reloads the pending list from the backend. Every row it returns is
// marked as observed so the subscription never redelivers it.
func (f *Feed) Refresh(ctx context.Context) error {
	invites, err := f.api.Pending(ctx)
	if err != nil {
		f.logger.Error("refresh invites", "error", err)
		f.report(err)
		return err
	}
	f.mu.Lock()
	f.pending = invites
	for _, inv := range invites {
		f.seen[inv.ID] = struct{}{}
	}
	f.mu.Unlock()
	return nil
}

// Pending returns a copy of the cached pending invites, newest first.
func (f *Feed) Pending() []PendingInvite {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]PendingInvite, len(f.pending))
	copy(out, f.pending)
	return out
}

// Count returns the cached pending-invite count for badge display.
func (f *Feed) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Send invites a user, identified by handle or email, to a list. Errors pass
// through with their kinds and codes intact so the caller can distinguish an
// unknown identifier, a self-invite, an existing member, and a duplicate.
func (f *Feed) Send(ctx context.Context, listID, identifier string) error {
	return f.api.Send(ctx, listID, identifier)
}

// Subscribe opens the realtime channel and invokes onNew for each invite not
// already observed this session. It is a no-op when already subscribed.
func (f *Feed) Subscribe(ctx context.Context, onNew func(PendingInvite)) error {
	f.mu.Lock()
	if f.subscribed {
		f.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	f.subscribed = true
	f.cancel = cancel
	f.onNew = onNew
	f.mu.Unlock()

	events, err := f.stream.Subscribe(ctx)
	if err != nil {
		f.Unsubscribe()
		return err
	}

	go func() {
		for ev := range events {
			if ev.Entity != "invite" || ev.Action != "created" {
				continue
			}
			f.handleEvent(ctx, ev)
		}
	}()
	return nil
}

// Unsubscribe tears the subscription down. Safe to call more than once.
func (f *Feed) Unsubscribe() {
	f.mu.Lock()
	if !f.subscribed {
		f.mu.Unlock()
		return
	}
	f.subscribed = false
	cancel := f.cancel
	f.cancel = nil
	f.onNew = nil
	f.mu.Unlock()

	cancel()
	if err := f.stream.Close(); err != nil {
		f.logger.Warn("close invite stream", "error", err)
	}
}

// handleEvent folds a push event into the cache. The event carries only ids;
// the enriched rows come from a pending refetch. Rows already observed this
// session are dropped so redelivered events cannot duplicate.
func (f *Feed) handleEvent(ctx context.Context, ev Event) {
	f.mu.Lock()
	if _, ok := f.seen[ev.ID]; ok {
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()

	invites, err := f.api.Pending(ctx)
	if err != nil {
		f.logger.Error("fetch invites after event", "error", err)
		return
	}

	f.mu.Lock()
	var fresh []PendingInvite
	for _, inv := range invites {
		if _, ok := f.seen[inv.ID]; !ok {
			f.seen[inv.ID] = struct{}{}
			fresh = append(fresh, inv)
		}
	}
	f.pending = invites
	onNew := f.onNew
	f.mu.Unlock()

	if onNew != nil {
		for _, inv := range fresh {
			onNew(inv)
		}
	}
}

// Accept accepts a single invite. The server performs the status transition
// and membership insert in one transaction; on success the cascade runs.
func (f *Feed) Accept(ctx context.Context, id string) error {
	f.mu.Lock()
	var target *PendingInvite
	for i := range f.pending {
		if f.pending[i].ID == id {
			inv := f.pending[i]
			target = &inv
			break
		}
	}
	f.mu.Unlock()

	if err := f.api.Accept(ctx, id); err != nil {
		return err
	}
	if target != nil {
		f.cascade(ctx, []PendingInvite{*target})
	} else {
		// Accepted an invite we never cached; still refresh the directory.
		f.cascade(ctx, nil)
	}
	return nil
}

// QuickAccept accepts the newest pending invite.
func (f *Feed) QuickAccept(ctx context.Context) error {
	f.mu.Lock()
	if len(f.pending) == 0 {
		f.mu.Unlock()
		return ErrNoPending
	}
	id := f.pending[0].ID
	f.mu.Unlock()
	return f.Accept(ctx, id)
}

// Decline declines an invite. No membership side effect; the row just leaves
// the cache.
func (f *Feed) Decline(ctx context.Context, id string) error {
	if err := f.api.Decline(ctx, id); err != nil {
		return err
	}
	f.mu.Lock()
	f.removeLocked([]string{id})
	f.mu.Unlock()
	return nil
}

// AcceptAll accepts every cached pending invite concurrently. Each accept is
// independently atomic; failures are counted, not rolled back, and the
// cascade runs once for the invites that succeeded.
func (f *Feed) AcceptAll(ctx context.Context) (failed int, err error) {
	snapshot := f.Pending()
	if len(snapshot) == 0 {
		return 0, nil
	}

	var failures atomic.Int64
	var mu sync.Mutex
	var accepted []PendingInvite

	g, ctx := errgroup.WithContext(ctx)
	for _, inv := range snapshot {
		g.Go(func() error {
			if acceptErr := f.api.Accept(ctx, inv.ID); acceptErr != nil {
				f.logger.Error("accept invite", "invite_id", inv.ID, "error", acceptErr)
				failures.Add(1)
				return nil
			}
			mu.Lock()
			accepted = append(accepted, inv)
			mu.Unlock()
			return nil
		})
	}
	if waitErr := g.Wait(); waitErr != nil {
		return int(failures.Load()), waitErr
	}

	if len(accepted) > 0 {
		f.cascade(ctx, accepted)
	}
	return int(failures.Load()), nil
}

// cascade runs after successful accepts: refresh the directory, activate the
// joined list (for a batch, the most recently created invitation's list),
// and drop the accepted rows from the cache immediately so the badge count
// cannot go stale. A failed refresh clears the directory, so selecting the
// joined list then would point the active id at a list no caller can see; the
// select is skipped and the next successful refresh reconciles instead.
func (f *Feed) cascade(ctx context.Context, accepted []PendingInvite) {
	refreshErr := f.dir.Refresh(ctx)
	if refreshErr != nil {
		f.logger.Error("refresh after accept", "error", refreshErr)
	}

	if len(accepted) > 0 {
		if refreshErr == nil {
			target := accepted[0]
			for _, inv := range accepted[1:] {
				if inv.CreatedAt.After(target.CreatedAt) {
					target = inv
				}
			}
			f.sel.Select(target.ListID)
		}

		ids := make([]string, len(accepted))
		for i, inv := range accepted {
			ids[i] = inv.ID
		}
		f.mu.Lock()
		f.removeLocked(ids)
		f.mu.Unlock()
	}
}

func (f *Feed) removeLocked(ids []string) {
	drop := map[string]struct{}{}
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := f.pending[:0]
	for _, inv := range f.pending {
		if _, ok := drop[inv.ID]; !ok {
			kept = append(kept, inv)
		}
	}
	f.pending = kept
}
