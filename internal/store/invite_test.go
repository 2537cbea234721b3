package store

import (
	"errors"
	"testing"

	"github.com/andywinn76/todo-app/internal/apperr"
	"github.com/andywinn76/todo-app/internal/model"
)

func setupInviteTest(t *testing.T) (*InviteStore, *ListStore, *model.User, *model.User, *model.List) {
	t.Helper()
	db := setupTestDB(t)
	us := NewUserStore(db)
	ls := NewListStore(db)
	is := NewInviteStore(db)

	alice := createTestUser(t, us, "alice")
	bob := createTestUser(t, us, "bob")
	list, err := ls.Create("Groceries", model.KindGrocery, alice.ID)
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	return is, ls, alice, bob, list
}

func TestInviteCreateAndListPending(t *testing.T) {
	is, _, alice, bob, list := setupInviteTest(t)

	invite, err := is.Create(list.ID, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}
	if invite.Status != model.InviteStatusPending {
		t.Errorf("status = %q, want pending", invite.Status)
	}

	pending, err := is.ListPendingForInvitee(bob.ID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending invite, got %d", len(pending))
	}
	if pending[0].ListName != "Groceries" {
		t.Errorf("list name = %q, want Groceries", pending[0].ListName)
	}
	if pending[0].InviterName != "alice" {
		t.Errorf("inviter name = %q, want alice", pending[0].InviterName)
	}

	count, err := is.CountPending(bob.ID)
	if err != nil {
		t.Fatalf("count pending: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestInvitePendingNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	ls := NewListStore(db)
	is := NewInviteStore(db)
	alice := createTestUser(t, us, "alice")
	bob := createTestUser(t, us, "bob")

	first, _ := ls.Create("First", model.KindTask, alice.ID)
	second, _ := ls.Create("Second", model.KindTask, alice.ID)
	is.Create(first.ID, alice.ID, bob.ID)
	is.Create(second.ID, alice.ID, bob.ID)

	pending, err := is.ListPendingForInvitee(bob.ID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}
	// Same timestamp resolution; id breaks the tie newest-first.
	if pending[0].ListID != second.ID {
		t.Errorf("pending[0].ListID = %d, want %d (newest first)", pending[0].ListID, second.ID)
	}
}

func TestInviteDuplicatePendingRejected(t *testing.T) {
	is, _, alice, bob, list := setupInviteTest(t)

	if _, err := is.Create(list.ID, alice.ID, bob.ID); err != nil {
		t.Fatalf("first invite: %v", err)
	}
	_, err := is.Create(list.ID, alice.ID, bob.ID)
	if err == nil {
		t.Fatal("expected duplicate invite to fail")
	}
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected apperr, got %v", err)
	}
	if ae.Code != apperr.CodeDuplicateInvite {
		t.Errorf("code = %q, want %q", ae.Code, apperr.CodeDuplicateInvite)
	}
}

func TestInviteReinviteAfterDecline(t *testing.T) {
	is, _, alice, bob, list := setupInviteTest(t)

	invite, _ := is.Create(list.ID, alice.ID, bob.ID)
	if _, err := is.Decline(invite.ID); err != nil {
		t.Fatalf("decline: %v", err)
	}

	again, err := is.Create(list.ID, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("expected re-invite after decline to succeed: %v", err)
	}
	if again.Status != model.InviteStatusPending {
		t.Errorf("status = %q, want pending", again.Status)
	}
}

func TestInviteAcceptIsAtomic(t *testing.T) {
	is, ls, alice, bob, list := setupInviteTest(t)

	invite, _ := is.Create(list.ID, alice.ID, bob.ID)
	accepted, err := is.Accept(invite.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != model.InviteStatusAccepted {
		t.Errorf("status = %q, want accepted", accepted.Status)
	}

	member, err := ls.GetMember(list.ID, bob.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if member == nil {
		t.Fatal("expected membership created by accept")
	}
	if member.Role != model.RoleMember {
		t.Errorf("role = %q, want member", member.Role)
	}
}

func TestInviteAcceptTwiceFails(t *testing.T) {
	is, ls, alice, bob, list := setupInviteTest(t)

	invite, _ := is.Create(list.ID, alice.ID, bob.ID)
	if _, err := is.Accept(invite.ID); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if _, err := is.Accept(invite.ID); err == nil {
		t.Fatal("expected second accept to fail")
	}

	// Membership untouched by the failed second accept.
	if member, _ := ls.GetMember(list.ID, bob.ID); member == nil {
		t.Fatal("expected membership to survive")
	}
}

func TestInviteAcceptExistingMemberFails(t *testing.T) {
	is, ls, alice, bob, list := setupInviteTest(t)

	invite, _ := is.Create(list.ID, alice.ID, bob.ID)
	if _, err := ls.AddMember(list.ID, bob.ID, model.RoleMember); err != nil {
		t.Fatalf("add member: %v", err)
	}

	_, err := is.Accept(invite.ID)
	if err == nil {
		t.Fatal("expected accept to fail when membership already exists")
	}
	// The whole transaction rolled back: the invite stays pending.
	got, _ := is.GetByID(invite.ID)
	if got == nil || got.Status != model.InviteStatusPending {
		t.Errorf("expected invite still pending after rollback")
	}
}

func TestInviteDeclineNonPendingFails(t *testing.T) {
	is, _, alice, bob, list := setupInviteTest(t)

	invite, _ := is.Create(list.ID, alice.ID, bob.ID)
	is.Decline(invite.ID)
	if _, err := is.Decline(invite.ID); err == nil {
		t.Fatal("expected second decline to fail")
	}
}
