package client

import (
	"context"

	"github.com/andywinn76/todo-app/internal/model"
	"github.com/andywinn76/todo-app/internal/sync"
)

// Lists implements sync.ListAPI over the JSON API.
type Lists struct {
	c *Client
}

func (c *Client) Lists() *Lists { return &Lists{c: c} }

func (l *Lists) Directory(ctx context.Context) ([]sync.ListInfo, error) {
	var entries []model.ListEntry
	if err := l.c.do(ctx, "GET", "/api/lists", nil, &entries); err != nil {
		return nil, err
	}
	out := make([]sync.ListInfo, len(entries))
	for i, e := range entries {
		out[i] = toListInfo(e)
	}
	return out, nil
}

func (l *Lists) Create(ctx context.Context, name, kind string) (sync.ListInfo, error) {
	var created model.List
	err := l.c.do(ctx, "POST", "/api/lists", map[string]string{"name": name, "kind": kind}, &created)
	if err != nil {
		return sync.ListInfo{}, err
	}
	return toListInfo(model.ListEntry{List: created, Role: model.RoleOwner}), nil
}

func (l *Lists) Rename(ctx context.Context, id, name string) (sync.ListInfo, error) {
	n, err := parseID(id)
	if err != nil {
		return sync.ListInfo{}, err
	}
	var updated model.List
	err = l.c.do(ctx, "PUT", "/api/lists/"+formatID(n), map[string]string{"name": name}, &updated)
	if err != nil {
		return sync.ListInfo{}, err
	}
	return toListInfo(model.ListEntry{List: updated, Role: model.RoleOwner}), nil
}

func (l *Lists) Delete(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	return l.c.do(ctx, "DELETE", "/api/lists/"+formatID(n), nil, nil)
}

func (l *Lists) Leave(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	return l.c.do(ctx, "POST", "/api/lists/"+formatID(n)+"/leave", nil, nil)
}

func toListInfo(e model.ListEntry) sync.ListInfo {
	return sync.ListInfo{
		ID:            formatID(e.ID),
		Name:          e.Name,
		Kind:          e.Kind,
		Role:          e.Role,
		CreatedBy:     formatID(e.CreatedBy),
		CreatedAt:     e.CreatedAt,
		OwnerUsername: e.OwnerUsername,
		OwnerFirst:    e.OwnerFirst,
		OwnerLast:     e.OwnerLast,
	}
}
