package store

import (
	"database/sql"
	"fmt"

	"github.com/andywinn76/todo-app/internal/apperr"
	"github.com/andywinn76/todo-app/internal/model"
)

type InviteStore struct {
	db *sql.DB
}

func NewInviteStore(db *sql.DB) *InviteStore {
	return &InviteStore{db: db}
}

func scanInvite(scanner interface{ Scan(...any) error }) (*model.Invite, error) {
	var i model.Invite
	err := scanner.Scan(&i.ID, &i.ListID, &i.InviterID, &i.InviteeID, &i.Status, &i.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

const inviteCols = `id, list_id, inviter_id, invitee_id, status, created_at`

// Create inserts a pending invite. The partial unique index rejects a second
// pending invite for the same (list, invitee) pair; that surfaces as a
// Conflict with a stable duplicate code so the UI can word it precisely.
func (s *InviteStore) Create(listID, inviterID, inviteeID int64) (*model.Invite, error) {
	result, err := s.db.Exec(
		`INSERT INTO invites (list_id, inviter_id, invitee_id, status) VALUES (?, ?, ?, ?)`,
		listID, inviterID, inviteeID, model.InviteStatusPending,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.NewCode(apperr.Conflict, apperr.CodeDuplicateInvite, "an invite already exists for this user")
		}
		return nil, fmt.Errorf("insert invite: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *InviteStore) GetByID(id int64) (*model.Invite, error) {
	row := s.db.QueryRow(`SELECT `+inviteCols+` FROM invites WHERE id = ?`, id)
	i, err := scanInvite(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invite: %w", err)
	}
	return i, nil
}

// ListPendingForInvitee returns pending invites newest first, enriched with
// the list name and the inviter's username in one joined query.
func (s *InviteStore) ListPendingForInvitee(inviteeID int64) ([]model.PendingInvite, error) {
	rows, err := s.db.Query(
		`SELECT i.id, i.list_id, l.name, i.inviter_id, u.username, i.created_at
		 FROM invites i
		 JOIN lists l ON l.id = i.list_id
		 JOIN users u ON u.id = i.inviter_id
		 WHERE i.invitee_id = ? AND i.status = ?
		 ORDER BY i.created_at DESC, i.id DESC`,
		inviteeID, model.InviteStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending invites: %w", err)
	}
	defer rows.Close()

	var invites []model.PendingInvite
	for rows.Next() {
		var p model.PendingInvite
		if err := rows.Scan(&p.ID, &p.ListID, &p.ListName, &p.InviterID, &p.InviterName, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending invite: %w", err)
		}
		invites = append(invites, p)
	}
	return invites, rows.Err()
}

func (s *InviteStore) CountPending(inviteeID int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM invites WHERE invitee_id = ? AND status = ?`,
		inviteeID, model.InviteStatusPending,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending invites: %w", err)
	}
	return count, nil
}

// Accept flips a pending invite to accepted and creates the membership in a
// single transaction. Either both happen or neither does; an accepted invite
// without a membership row cannot be produced by a crash between the steps.
func (s *InviteStore) Accept(id int64) (*model.Invite, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+inviteCols+` FROM invites WHERE id = ?`, id)
	inv, err := scanInvite(row)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "invite not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get invite: %w", err)
	}
	if inv.Status != model.InviteStatusPending {
		return nil, apperr.New(apperr.Conflict, "invite is no longer pending")
	}

	result, err := tx.Exec(
		`UPDATE invites SET status = ? WHERE id = ? AND status = ?`,
		model.InviteStatusAccepted, id, model.InviteStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("accept invite: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n != 1 {
		return nil, apperr.New(apperr.Conflict, "invite is no longer pending")
	}

	if _, err := tx.Exec(
		`INSERT INTO list_members (list_id, user_id, role) VALUES (?, ?, ?)`,
		inv.ListID, inv.InviteeID, model.RoleMember,
	); err != nil {
		if isUniqueViolation(err) {
			// Membership appeared out of band; accepting anyway would break
			// the accepted-implies-membership pairing, so refuse the whole tx.
			return nil, apperr.New(apperr.Conflict, "user is already a member of this list")
		}
		return nil, fmt.Errorf("insert membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	inv.Status = model.InviteStatusAccepted
	return inv, nil
}

// Decline marks a pending invite declined. No membership side effect.
func (s *InviteStore) Decline(id int64) (*model.Invite, error) {
	result, err := s.db.Exec(
		`UPDATE invites SET status = ? WHERE id = ? AND status = ?`,
		model.InviteStatusDeclined, id, model.InviteStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("decline invite: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n != 1 {
		return nil, apperr.New(apperr.Conflict, "invite is no longer pending")
	}
	return s.GetByID(id)
}
