package store

import (
	"database/sql"
	"fmt"

	"github.com/andywinn76/todo-app/internal/model"
)

type GroceryStore struct {
	db *sql.DB
}

func NewGroceryStore(db *sql.DB) *GroceryStore {
	return &GroceryStore{db: db}
}

func scanGroceryItem(scanner interface{ Scan(...any) error }) (*model.GroceryItem, error) {
	var item model.GroceryItem
	var checked int

	err := scanner.Scan(&item.ID, &item.ListID, &item.Name, &item.Quantity, &checked, &item.CreatedAt)
	if err != nil {
		return nil, err
	}

	item.Checked = checked != 0
	return &item, nil
}

const groceryItemCols = `id, list_id, name, quantity, checked, created_at`

func (s *GroceryStore) Create(listID int64, name, quantity string) (*model.GroceryItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO grocery_items (list_id, name, quantity) VALUES (?, ?, ?)`,
		listID, name, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("insert grocery item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *GroceryStore) GetByID(id int64) (*model.GroceryItem, error) {
	row := s.db.QueryRow(`SELECT `+groceryItemCols+` FROM grocery_items WHERE id = ?`, id)
	item, err := scanGroceryItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get grocery item: %w", err)
	}
	return item, nil
}

// ListByList returns a list's items, unchecked first, oldest first within a
// group.
func (s *GroceryStore) ListByList(listID int64) ([]model.GroceryItem, error) {
	rows, err := s.db.Query(
		`SELECT `+groceryItemCols+` FROM grocery_items WHERE list_id = ?
		 ORDER BY checked ASC, created_at ASC, id ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list grocery items: %w", err)
	}
	defer rows.Close()

	var items []model.GroceryItem
	for rows.Next() {
		item, err := scanGroceryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grocery item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *GroceryStore) Update(id int64, name, quantity string) (*model.GroceryItem, error) {
	_, err := s.db.Exec(
		`UPDATE grocery_items SET name = ?, quantity = ? WHERE id = ?`,
		name, quantity, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update grocery item: %w", err)
	}
	return s.GetByID(id)
}

// SetChecked sets the flag to an explicit value supplied by the client.
func (s *GroceryStore) SetChecked(id int64, checked bool) (*model.GroceryItem, error) {
	c := 0
	if checked {
		c = 1
	}
	_, err := s.db.Exec(`UPDATE grocery_items SET checked = ? WHERE id = ?`, c, id)
	if err != nil {
		return nil, fmt.Errorf("set checked: %w", err)
	}
	return s.GetByID(id)
}

func (s *GroceryStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM grocery_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete grocery item: %w", err)
	}
	return nil
}
