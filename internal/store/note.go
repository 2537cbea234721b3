package store

import (
	"database/sql"
	"fmt"

	"github.com/andywinn76/todo-app/internal/model"
)

type NoteStore struct {
	db *sql.DB
}

func NewNoteStore(db *sql.DB) *NoteStore {
	return &NoteStore{db: db}
}

func scanNote(scanner interface{ Scan(...any) error }) (*model.Note, error) {
	var n model.Note
	err := scanner.Scan(&n.ID, &n.ListID, &n.Body, &n.UpdatedBy, &n.UpdatedAt, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

const noteCols = `id, list_id, body, updated_by, updated_at, created_at`

// GetByList returns the list's note, or nil when none has been written yet.
func (s *NoteStore) GetByList(listID int64) (*model.Note, error) {
	row := s.db.QueryRow(`SELECT `+noteCols+` FROM notes WHERE list_id = ?`, listID)
	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

// Upsert writes the single note body for a list, recording who last edited
// it. The unique index on list_id keeps note lists at one row.
func (s *NoteStore) Upsert(listID int64, body string, updatedBy int64) (*model.Note, error) {
	_, err := s.db.Exec(
		`INSERT INTO notes (list_id, body, updated_by) VALUES (?, ?, ?)
		 ON CONFLICT (list_id) DO UPDATE SET body = excluded.body, updated_by = excluded.updated_by, updated_at = CURRENT_TIMESTAMP`,
		listID, body, updatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert note: %w", err)
	}
	return s.GetByList(listID)
}

func (s *NoteStore) Delete(listID int64) error {
	_, err := s.db.Exec(`DELETE FROM notes WHERE list_id = ?`, listID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
