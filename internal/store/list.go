package store

import (
	"database/sql"
	"fmt"

	"github.com/andywinn76/todo-app/internal/model"
)

type ListStore struct {
	db *sql.DB
}

func NewListStore(db *sql.DB) *ListStore {
	return &ListStore{db: db}
}

func scanList(scanner interface{ Scan(...any) error }) (*model.List, error) {
	var l model.List
	err := scanner.Scan(&l.ID, &l.Name, &l.Kind, &l.CreatedBy, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func scanListMember(scanner interface{ Scan(...any) error }) (*model.ListMember, error) {
	var m model.ListMember
	err := scanner.Scan(&m.ID, &m.ListID, &m.UserID, &m.Role, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const listCols = `id, name, kind, created_by, created_at`
const listMemberCols = `id, list_id, user_id, role, created_at`

// Create inserts a list and its owner membership in one transaction, so a
// list can never exist without an owner row.
func (s *ListStore) Create(name, kind string, createdBy int64) (*model.List, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO lists (name, kind, created_by) VALUES (?, ?, ?)`,
		name, kind, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO list_members (list_id, user_id, role) VALUES (?, ?, ?)`,
		id, createdBy, model.RoleOwner,
	); err != nil {
		return nil, fmt.Errorf("insert owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *ListStore) GetByID(id int64) (*model.List, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

func (s *ListStore) Rename(id int64, name string) (*model.List, error) {
	_, err := s.db.Exec(`UPDATE lists SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return nil, fmt.Errorf("rename list: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes the list; items, memberships, and invites go with it via
// foreign key cascade.
func (s *ListStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

func (s *ListStore) AddMember(listID, userID int64, role string) (*model.ListMember, error) {
	result, err := s.db.Exec(
		`INSERT INTO list_members (list_id, user_id, role) VALUES (?, ?, ?)`,
		listID, userID, role,
	)
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+listMemberCols+` FROM list_members WHERE id = ?`, id)
	return scanListMember(row)
}

func (s *ListStore) RemoveMember(listID, userID int64) error {
	_, err := s.db.Exec(
		`DELETE FROM list_members WHERE list_id = ? AND user_id = ?`,
		listID, userID,
	)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

func (s *ListStore) GetMember(listID, userID int64) (*model.ListMember, error) {
	row := s.db.QueryRow(
		`SELECT `+listMemberCols+` FROM list_members WHERE list_id = ? AND user_id = ?`,
		listID, userID,
	)
	m, err := scanListMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (s *ListStore) ListMembers(listID int64) ([]model.ListMember, error) {
	rows, err := s.db.Query(
		`SELECT `+listMemberCols+` FROM list_members WHERE list_id = ? ORDER BY created_at ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.ListMember
	for rows.Next() {
		m, err := scanListMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

// ListForUser is the directory query: every list the user belongs to, joined
// with their role, ascending by list creation time.
func (s *ListStore) ListForUser(userID int64) ([]model.ListEntry, error) {
	rows, err := s.db.Query(
		`SELECT l.id, l.name, l.kind, l.created_by, l.created_at, lm.role
		 FROM lists l
		 JOIN list_members lm ON l.id = lm.list_id
		 WHERE lm.user_id = ?
		 ORDER BY l.created_at ASC, l.id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lists for user: %w", err)
	}
	defer rows.Close()

	var entries []model.ListEntry
	for rows.Next() {
		var e model.ListEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Kind, &e.CreatedBy, &e.CreatedAt, &e.Role); err != nil {
			return nil, fmt.Errorf("scan list entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
