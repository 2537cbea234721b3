package model

import "time"

// Note is the single free-text body of a list of kind "note". A note list has
// at most one row here; edits overwrite it and record the last writer.
type Note struct {
	ID        int64     `json:"id"`
	ListID    int64     `json:"list_id"`
	Body      string    `json:"body"`
	UpdatedBy int64     `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedAt time.Time `json:"created_at"`
}
