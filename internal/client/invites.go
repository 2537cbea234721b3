package client

import (
	"context"

	"github.com/andywinn76/todo-app/internal/model"
	"github.com/andywinn76/todo-app/internal/sync"
)

// Invites implements sync.InviteAPI over the JSON API.
type Invites struct {
	c *Client
}

func (c *Client) Invites() *Invites { return &Invites{c: c} }

func (i *Invites) Send(ctx context.Context, listID, identifier string) error {
	n, err := parseID(listID)
	if err != nil {
		return err
	}
	return i.c.do(ctx, "POST", "/api/invites", map[string]any{
		"list_id":    n,
		"identifier": identifier,
	}, nil)
}

func (i *Invites) Pending(ctx context.Context) ([]sync.PendingInvite, error) {
	var rows []model.PendingInvite
	if err := i.c.do(ctx, "GET", "/api/invites/pending", nil, &rows); err != nil {
		return nil, err
	}
	out := make([]sync.PendingInvite, len(rows))
	for j, r := range rows {
		out[j] = sync.PendingInvite{
			ID:          formatID(r.ID),
			ListID:      formatID(r.ListID),
			ListName:    r.ListName,
			InviterID:   formatID(r.InviterID),
			InviterName: r.InviterName,
			CreatedAt:   r.CreatedAt,
		}
	}
	return out, nil
}

func (i *Invites) Count(ctx context.Context) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := i.c.do(ctx, "GET", "/api/invites/count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (i *Invites) Accept(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	return i.c.do(ctx, "POST", "/api/invites/"+formatID(n)+"/accept", nil, nil)
}

func (i *Invites) Decline(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	return i.c.do(ctx, "POST", "/api/invites/"+formatID(n)+"/decline", nil, nil)
}
