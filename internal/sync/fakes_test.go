package sync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"
)

var errBackend = errors.New("backend unavailable")

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.Default()
}

// fakeListAPI scripts directory responses through a swappable function.
type fakeListAPI struct {
	mu    sync.Mutex
	dirFn func(ctx context.Context) ([]ListInfo, error)
	calls int
}

func (f *fakeListAPI) set(fn func(ctx context.Context) ([]ListInfo, error)) {
	f.mu.Lock()
	f.dirFn = fn
	f.mu.Unlock()
}

func (f *fakeListAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeListAPI) Directory(ctx context.Context) ([]ListInfo, error) {
	f.mu.Lock()
	f.calls++
	fn := f.dirFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ctx)
}

func (f *fakeListAPI) Create(ctx context.Context, name, kind string) (ListInfo, error) {
	return ListInfo{ID: "created", Name: name, Kind: kind}, nil
}

func (f *fakeListAPI) Rename(ctx context.Context, id, name string) (ListInfo, error) {
	return ListInfo{ID: id, Name: name}, nil
}

func (f *fakeListAPI) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeListAPI) Leave(ctx context.Context, id string) error  { return nil }

// fakeItemAPI scripts each ItemAPI method; unset methods succeed trivially.
type fakeItemAPI struct {
	mu       sync.Mutex
	listFn   func(ctx context.Context, listID string) ([]GroceryEntry, error)
	createFn func(ctx context.Context, listID string, item GroceryEntry) (GroceryEntry, error)
	updateFn func(ctx context.Context, id string, item GroceryEntry) (GroceryEntry, error)
	flagFn   func(ctx context.Context, id string, v bool) (GroceryEntry, error)
	deleteFn func(ctx context.Context, id string) error

	listCalls int
}

func (f *fakeItemAPI) List(ctx context.Context, listID string) ([]GroceryEntry, error) {
	f.mu.Lock()
	f.listCalls++
	fn := f.listFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ctx, listID)
}

func (f *fakeItemAPI) Create(ctx context.Context, listID string, item GroceryEntry) (GroceryEntry, error) {
	if f.createFn == nil {
		return item, nil
	}
	return f.createFn(ctx, listID, item)
}

func (f *fakeItemAPI) Update(ctx context.Context, id string, item GroceryEntry) (GroceryEntry, error) {
	if f.updateFn == nil {
		return item, nil
	}
	return f.updateFn(ctx, id, item)
}

func (f *fakeItemAPI) SetFlag(ctx context.Context, id string, v bool) (GroceryEntry, error) {
	if f.flagFn == nil {
		return GroceryEntry{ID: id, Checked: v}, nil
	}
	return f.flagFn(ctx, id, v)
}

func (f *fakeItemAPI) Delete(ctx context.Context, id string) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, id)
}

// fakeInviteAPI scripts the invite boundary.
type fakeInviteAPI struct {
	mu        sync.Mutex
	pending   []PendingInvite
	sendErr   error
	acceptErr map[string]error
	accepted  []string
	declined  []string
}

func (f *fakeInviteAPI) Send(ctx context.Context, listID, identifier string) error {
	return f.sendErr
}

func (f *fakeInviteAPI) Pending(ctx context.Context) ([]PendingInvite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]PendingInvite, len(f.pending))
	copy(out, f.pending)
	return out, nil
}

func (f *fakeInviteAPI) Accept(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.acceptErr[id]; err != nil {
		return err
	}
	f.accepted = append(f.accepted, id)
	return nil
}

func (f *fakeInviteAPI) Decline(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.declined = append(f.declined, id)
	return nil
}

// fakeStream hands out a test-controlled event channel.
type fakeStream struct {
	mu         sync.Mutex
	ch         chan Event
	closeCalls int
}

func newFakeStream() *fakeStream {
	return &fakeStream{ch: make(chan Event, 8)}
}

func (f *fakeStream) Subscribe(ctx context.Context) (<-chan Event, error) {
	return f.ch, nil
}

func (f *fakeStream) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCalls++
	if f.closeCalls == 1 {
		close(f.ch)
	}
	return nil
}

func (f *fakeStream) closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeCalls
}

// errCounter counts report callback invocations.
type errCounter struct {
	mu sync.Mutex
	n  int
}

func (e *errCounter) report(error) {
	e.mu.Lock()
	e.n++
	e.mu.Unlock()
}

func (e *errCounter) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.n
}

func lists(ids ...string) []ListInfo {
	out := make([]ListInfo, len(ids))
	for i, id := range ids {
		out[i] = ListInfo{ID: id, Name: "list-" + id, Kind: "task", CreatedAt: time.Unix(int64(i), 0)}
	}
	return out
}
