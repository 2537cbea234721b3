package client

import (
	"context"

	"github.com/andywinn76/todo-app/internal/model"
)

// Note is the content of a note-kind list. Notes are not an optimistic
// collection; a list of kind note has a single row edited in place.
type Note struct {
	ListID    string
	Body      string
	UpdatedBy string
}

// Notes reads and writes the single note of note-kind lists.
type Notes struct {
	c *Client
}

func (c *Client) Notes() *Notes { return &Notes{c: c} }

func (n *Notes) Get(ctx context.Context, listID string) (Note, error) {
	id, err := parseID(listID)
	if err != nil {
		return Note{}, err
	}
	var note model.Note
	if err := n.c.do(ctx, "GET", "/api/lists/"+formatID(id)+"/note", nil, &note); err != nil {
		return Note{}, err
	}
	return toNote(listID, note), nil
}

func (n *Notes) Put(ctx context.Context, listID, body string) (Note, error) {
	id, err := parseID(listID)
	if err != nil {
		return Note{}, err
	}
	var note model.Note
	if err := n.c.do(ctx, "PUT", "/api/lists/"+formatID(id)+"/note", map[string]string{"body": body}, &note); err != nil {
		return Note{}, err
	}
	return toNote(listID, note), nil
}

func toNote(listID string, m model.Note) Note {
	out := Note{ListID: listID, Body: m.Body}
	if m.UpdatedBy != 0 {
		out.UpdatedBy = formatID(m.UpdatedBy)
	}
	return out
}
