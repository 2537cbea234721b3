package sync

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// refreshCooldown collapses near-simultaneous refresh triggers (an initial
// mount firing twice, a mount racing a cascade) into one backend call.
const refreshCooldown = 300 * time.Millisecond

// Directory maintains the in-memory set of lists the user belongs to. It is
// the only writer of that set; refreshes follow a last-request-wins policy
// so a stale in-flight response never overwrites fresher state.
type Directory struct {
	api    ListAPI
	sel    *Selection
	logger *slog.Logger
	report func(error)

	mu       sync.Mutex
	lists    []ListInfo
	gen      uint64
	inFlight *refreshOp
}

type refreshOp struct {
	started time.Time
	done    chan struct{}
	err     error
}

func NewDirectory(api ListAPI, sel *Selection, report func(error), logger *slog.Logger) *Directory {
	if report == nil {
		report = func(error) {}
	}
	return &Directory{api: api, sel: sel, report: report, logger: logger}
}

// Lists returns a copy of the current directory.
func (d *Directory) Lists() []ListInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ListInfo, len(d.lists))
	copy(out, d.lists)
	return out
}

// Get returns the directory entry for id, if present.
func (d *Directory) Get(id string) (ListInfo, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, l := range d.lists {
		if l.ID == id {
			return l, true
		}
	}
	return ListInfo{}, false
}

// Refresh reloads the directory. A call arriving while a refresh started
// within the cooldown window is still outstanding joins that refresh instead
// of issuing a duplicate. If a newer refresh starts before this one's
// response lands, the stale response is discarded. On failure the directory
// is cleared rather than left partially stale; on success the selection is
// reconciled against the new set.
func (d *Directory) Refresh(ctx context.Context) error {
	d.mu.Lock()
	if op := d.inFlight; op != nil && time.Since(op.started) < refreshCooldown {
		d.mu.Unlock()
		select {
		case <-op.done:
			return op.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	d.gen++
	myGen := d.gen
	op := &refreshOp{started: time.Now(), done: make(chan struct{})}
	d.inFlight = op
	d.mu.Unlock()

	lists, err := d.api.Directory(ctx)

	d.mu.Lock()
	if d.gen != myGen {
		// Superseded while in flight; drop the response.
		d.mu.Unlock()
		close(op.done)
		return nil
	}
	if err != nil {
		d.lists = nil
	} else {
		d.lists = lists
	}
	if d.inFlight == op {
		d.inFlight = nil
	}
	d.mu.Unlock()

	if err != nil {
		d.logger.Error("directory refresh", "error", err)
		d.report(err)
	} else {
		d.sel.Reconcile(lists)
	}

	op.err = err
	close(op.done)
	return err
}

// CreateList creates a list and refreshes the directory so the new entry,
// with its owner membership, appears with server-assigned fields.
func (d *Directory) CreateList(ctx context.Context, name, kind string) (ListInfo, error) {
	info, err := d.api.Create(ctx, name, kind)
	if err != nil {
		return ListInfo{}, err
	}
	if err := d.Refresh(ctx); err != nil {
		return info, err
	}
	d.sel.Select(info.ID)
	return info, nil
}

// RenameList renames a list (owner only, enforced server-side) and patches
// the local entry without a full refresh.
func (d *Directory) RenameList(ctx context.Context, id, name string) error {
	info, err := d.api.Rename(ctx, id, name)
	if err != nil {
		return err
	}
	d.mu.Lock()
	for i := range d.lists {
		if d.lists[i].ID == id {
			d.lists[i].Name = info.Name
			break
		}
	}
	d.mu.Unlock()
	return nil
}

// DeleteList deletes an owned list; the follow-up refresh drops it from the
// directory and the reconcile moves the selection off it if it was active.
func (d *Directory) DeleteList(ctx context.Context, id string) error {
	if err := d.api.Delete(ctx, id); err != nil {
		return err
	}
	return d.Refresh(ctx)
}

// LeaveList removes the user's own membership on a list they do not own.
func (d *Directory) LeaveList(ctx context.Context, id string) error {
	if err := d.api.Leave(ctx, id); err != nil {
		return err
	}
	return d.Refresh(ctx)
}
