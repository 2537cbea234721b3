package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/andywinn76/todo-app/internal/model"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var dueDate sql.NullTime
	var completed int

	err := scanner.Scan(
		&t.ID, &t.ListID, &t.Title, &t.Description, &t.Priority,
		&dueDate, &completed, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Completed = completed != 0
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	return &t, nil
}

const taskCols = `id, list_id, title, description, priority, due_date, completed, created_at`

func (s *TaskStore) Create(listID int64, title, description, priority string, dueDate *time.Time) (*model.Task, error) {
	var due sql.NullTime
	if dueDate != nil {
		due = sql.NullTime{Time: *dueDate, Valid: true}
	}
	if priority == "" {
		priority = model.PriorityMedium
	}

	result, err := s.db.Exec(
		`INSERT INTO tasks (list_id, title, description, priority, due_date) VALUES (?, ?, ?, ?, ?)`,
		listID, title, description, priority, due,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) GetByID(id int64) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListByList returns a list's tasks, due soonest first (tasks with no due
// date last), newest created first within a day.
func (s *TaskStore) ListByList(listID int64) ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM tasks WHERE list_id = ?
		 ORDER BY due_date IS NULL, due_date ASC, created_at DESC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *TaskStore) Update(id int64, title, description, priority string, dueDate *time.Time) (*model.Task, error) {
	var due sql.NullTime
	if dueDate != nil {
		due = sql.NullTime{Time: *dueDate, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE tasks SET title = ?, description = ?, priority = ?, due_date = ? WHERE id = ?`,
		title, description, priority, due, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.GetByID(id)
}

// SetCompleted sets the flag to the given value rather than toggling, so a
// stale client cannot double-toggle past the intended state.
func (s *TaskStore) SetCompleted(id int64, completed bool) (*model.Task, error) {
	c := 0
	if completed {
		c = 1
	}
	_, err := s.db.Exec(`UPDATE tasks SET completed = ? WHERE id = ?`, c, id)
	if err != nil {
		return nil, fmt.Errorf("set completed: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
