package client

import (
	"context"

	"github.com/andywinn76/todo-app/internal/model"
	"github.com/andywinn76/todo-app/internal/sync"
)

// Tasks implements sync.ItemAPI[sync.TaskItem].
type Tasks struct {
	c *Client
}

func (c *Client) Tasks() *Tasks { return &Tasks{c: c} }

func (t *Tasks) List(ctx context.Context, listID string) ([]sync.TaskItem, error) {
	n, err := parseID(listID)
	if err != nil {
		return nil, err
	}
	var tasks []model.Task
	if err := t.c.do(ctx, "GET", "/api/lists/"+formatID(n)+"/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	out := make([]sync.TaskItem, len(tasks))
	for i, tk := range tasks {
		out[i] = toTaskItem(tk)
	}
	return out, nil
}

func (t *Tasks) Create(ctx context.Context, listID string, item sync.TaskItem) (sync.TaskItem, error) {
	n, err := parseID(listID)
	if err != nil {
		return sync.TaskItem{}, err
	}
	var created model.Task
	err = t.c.do(ctx, "POST", "/api/lists/"+formatID(n)+"/tasks", map[string]any{
		"title":       item.Title,
		"description": item.Description,
		"priority":    item.Priority,
		"due_date":    item.DueDate,
	}, &created)
	if err != nil {
		return sync.TaskItem{}, err
	}
	return toTaskItem(created), nil
}

func (t *Tasks) Update(ctx context.Context, id string, item sync.TaskItem) (sync.TaskItem, error) {
	n, err := parseID(id)
	if err != nil {
		return sync.TaskItem{}, err
	}
	var updated model.Task
	err = t.c.do(ctx, "PUT", "/api/tasks/"+formatID(n), map[string]any{
		"title":       item.Title,
		"description": item.Description,
		"priority":    item.Priority,
		"due_date":    item.DueDate,
	}, &updated)
	if err != nil {
		return sync.TaskItem{}, err
	}
	return toTaskItem(updated), nil
}

func (t *Tasks) SetFlag(ctx context.Context, id string, v bool) (sync.TaskItem, error) {
	n, err := parseID(id)
	if err != nil {
		return sync.TaskItem{}, err
	}
	var updated model.Task
	err = t.c.do(ctx, "POST", "/api/tasks/"+formatID(n)+"/complete", map[string]bool{"completed": v}, &updated)
	if err != nil {
		return sync.TaskItem{}, err
	}
	return toTaskItem(updated), nil
}

func (t *Tasks) Delete(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	return t.c.do(ctx, "DELETE", "/api/tasks/"+formatID(n), nil, nil)
}

func toTaskItem(t model.Task) sync.TaskItem {
	return sync.TaskItem{
		ID:          formatID(t.ID),
		ListID:      formatID(t.ListID),
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
	}
}

// Groceries implements sync.ItemAPI[sync.GroceryEntry].
type Groceries struct {
	c *Client
}

func (c *Client) Groceries() *Groceries { return &Groceries{c: c} }

func (g *Groceries) List(ctx context.Context, listID string) ([]sync.GroceryEntry, error) {
	n, err := parseID(listID)
	if err != nil {
		return nil, err
	}
	var items []model.GroceryItem
	if err := g.c.do(ctx, "GET", "/api/lists/"+formatID(n)+"/groceries", nil, &items); err != nil {
		return nil, err
	}
	out := make([]sync.GroceryEntry, len(items))
	for i, it := range items {
		out[i] = toGroceryEntry(it)
	}
	return out, nil
}

func (g *Groceries) Create(ctx context.Context, listID string, item sync.GroceryEntry) (sync.GroceryEntry, error) {
	n, err := parseID(listID)
	if err != nil {
		return sync.GroceryEntry{}, err
	}
	var created model.GroceryItem
	err = g.c.do(ctx, "POST", "/api/lists/"+formatID(n)+"/groceries", map[string]string{
		"name":     item.Name,
		"quantity": item.Quantity,
	}, &created)
	if err != nil {
		return sync.GroceryEntry{}, err
	}
	return toGroceryEntry(created), nil
}

func (g *Groceries) Update(ctx context.Context, id string, item sync.GroceryEntry) (sync.GroceryEntry, error) {
	n, err := parseID(id)
	if err != nil {
		return sync.GroceryEntry{}, err
	}
	var updated model.GroceryItem
	err = g.c.do(ctx, "PUT", "/api/groceries/"+formatID(n), map[string]string{
		"name":     item.Name,
		"quantity": item.Quantity,
	}, &updated)
	if err != nil {
		return sync.GroceryEntry{}, err
	}
	return toGroceryEntry(updated), nil
}

func (g *Groceries) SetFlag(ctx context.Context, id string, v bool) (sync.GroceryEntry, error) {
	n, err := parseID(id)
	if err != nil {
		return sync.GroceryEntry{}, err
	}
	var updated model.GroceryItem
	err = g.c.do(ctx, "POST", "/api/groceries/"+formatID(n)+"/check", map[string]bool{"checked": v}, &updated)
	if err != nil {
		return sync.GroceryEntry{}, err
	}
	return toGroceryEntry(updated), nil
}

func (g *Groceries) Delete(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	return g.c.do(ctx, "DELETE", "/api/groceries/"+formatID(n), nil, nil)
}

func toGroceryEntry(g model.GroceryItem) sync.GroceryEntry {
	return sync.GroceryEntry{
		ID:        formatID(g.ID),
		ListID:    formatID(g.ListID),
		Name:      g.Name,
		Quantity:  g.Quantity,
		Checked:   g.Checked,
		CreatedAt: g.CreatedAt,
	}
}
