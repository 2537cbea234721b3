package client

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andywinn76/todo-app/internal/apperr"
	"github.com/andywinn76/todo-app/internal/database"
	"github.com/andywinn76/todo-app/internal/model"
	"github.com/andywinn76/todo-app/internal/server"
	syncpkg "github.com/andywinn76/todo-app/internal/sync"
)

func startTestServer(t *testing.T) string {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srv := server.New(db, slog.Default())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts.URL
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// Exercises the whole invite flow across two real sessions: alice owns a
// list and invites bob; bob sees the enriched pending invite arrive over the
// websocket, accepts it, and ends up with the list selected in his
// directory with role member.
func TestInviteAcceptFlow(t *testing.T) {
	ctx := context.Background()
	baseURL := startTestServer(t)
	logger := slog.Default()

	aliceC, _, err := Register(ctx, baseURL, "alice", "alice@example.com", "password123", logger)
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	bobC, bobCreds, err := Register(ctx, baseURL, "bob", "bob@example.com", "password123", logger)
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}

	list, err := aliceC.Lists().Create(ctx, "Groceries", model.KindGrocery)
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	bob := bobC.NewSession(bobCreds, syncpkg.NewMemoryStorage(), nil, logger)
	if err := bob.Start(ctx, nil); err != nil {
		t.Fatalf("start bob session: %v", err)
	}
	t.Cleanup(bob.Close)
	if got := len(bob.Directory().Lists()); got != 0 {
		t.Fatalf("bob directory size = %d before invite, want 0", got)
	}

	if err := aliceC.Invites().Send(ctx, list.ID, "bob"); err != nil {
		t.Fatalf("send invite: %v", err)
	}

	// The websocket event reaches bob's feed without a manual refresh.
	waitFor(t, func() bool { return bob.Invites().Count() == 1 })
	if n, err := bobC.Invites().Count(ctx); err != nil || n != 1 {
		t.Errorf("server count = %d, %v, want 1", n, err)
	}
	pending := bob.Invites().Pending()
	if pending[0].ListName != "Groceries" {
		t.Errorf("list name = %q, want Groceries", pending[0].ListName)
	}
	if pending[0].InviterName != "alice" {
		t.Errorf("inviter name = %q, want alice", pending[0].InviterName)
	}

	if err := bob.Invites().Accept(ctx, pending[0].ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	dir := bob.Directory().Lists()
	if len(dir) != 1 {
		t.Fatalf("bob directory size = %d after accept, want 1", len(dir))
	}
	if dir[0].Role != model.RoleMember {
		t.Errorf("role = %q, want member", dir[0].Role)
	}
	if got := dir[0].OwnerLabel(); got != "alice" {
		t.Errorf("owner label = %q, want alice", got)
	}
	if got := bob.Selection().Active(); got != list.ID {
		t.Errorf("Active() = %q, want joined list %q", got, list.ID)
	}
	if bob.Invites().Count() != 0 {
		t.Errorf("pending count = %d after accept, want 0", bob.Invites().Count())
	}
	if n, err := bobC.Invites().Count(ctx); err != nil || n != 0 {
		t.Errorf("server count = %d, %v after accept, want 0", n, err)
	}
}

func TestSendInviteErrorCodes(t *testing.T) {
	ctx := context.Background()
	baseURL := startTestServer(t)
	logger := slog.Default()

	aliceC, _, err := Register(ctx, baseURL, "alice", "alice@example.com", "password123", logger)
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if _, _, err := Register(ctx, baseURL, "bob", "bob@example.com", "password123", logger); err != nil {
		t.Fatalf("register bob: %v", err)
	}

	list, err := aliceC.Lists().Create(ctx, "Shared", model.KindTask)
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	invites := aliceC.Invites()

	if err := invites.Send(ctx, list.ID, "nobody"); apperr.CodeOf(err) != apperr.CodeUserNotFound {
		t.Errorf("unknown identifier: code = %q, want user_not_found (%v)", apperr.CodeOf(err), err)
	}
	if err := invites.Send(ctx, list.ID, "alice"); apperr.CodeOf(err) != apperr.CodeSelfInvite {
		t.Errorf("self invite: code = %q, want self_invite (%v)", apperr.CodeOf(err), err)
	}

	if err := invites.Send(ctx, list.ID, "bob"); err != nil {
		t.Fatalf("first invite: %v", err)
	}
	if err := invites.Send(ctx, list.ID, "bob"); apperr.CodeOf(err) != apperr.CodeDuplicateInvite {
		t.Errorf("duplicate: code = %q, want duplicate_invite (%v)", apperr.CodeOf(err), err)
	}

	// Accepting makes bob a member, so the next invite is rejected for
	// membership, not duplication.
	_, bobCreds, err := Login(ctx, baseURL, "bob", "password123", logger)
	if err != nil {
		t.Fatalf("login bob: %v", err)
	}
	bobC := New(baseURL, bobCreds.Token, logger)
	bobPending, err := bobC.Invites().Pending(ctx)
	if err != nil || len(bobPending) != 1 {
		t.Fatalf("bob pending = %v, %v", bobPending, err)
	}
	if err := bobC.Invites().Accept(ctx, bobPending[0].ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := invites.Send(ctx, list.ID, "bob"); apperr.CodeOf(err) != apperr.CodeAlreadyMember {
		t.Errorf("member invite: code = %q, want already_member (%v)", apperr.CodeOf(err), err)
	}
}

func TestOptimisticGroceryFlowAgainstServer(t *testing.T) {
	ctx := context.Background()
	baseURL := startTestServer(t)
	logger := slog.Default()

	aliceC, aliceCreds, err := Register(ctx, baseURL, "alice", "alice@example.com", "password123", logger)
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	list, err := aliceC.Lists().Create(ctx, "Groceries", model.KindGrocery)
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	sess := aliceC.NewSession(aliceCreds, syncpkg.NewMemoryStorage(), nil, logger)
	groceries := sess.Groceries(list.ID)
	t.Cleanup(groceries.Close)

	milk, err := groceries.Create(ctx, syncpkg.GroceryEntry{Name: "Milk", Quantity: "1"})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if milk.ID == "" || strings.HasPrefix(milk.ID, "tmp-") {
		t.Errorf("item id = %q, want server-assigned", milk.ID)
	}

	if err := groceries.Toggle(ctx, milk.ID, true); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := groceries.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	items := groceries.Items()
	if len(items) != 1 || !items[0].Checked {
		t.Errorf("items = %+v, want one checked entry", items)
	}

	if err := groceries.Delete(ctx, milk.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(groceries.Items()) != 0 {
		t.Error("expected empty collection after delete")
	}
}
