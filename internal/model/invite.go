package model

import "time"

// Invite statuses. Accepted and declined are terminal.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusDeclined = "declined"
)

type Invite struct {
	ID        int64     `json:"id"`
	ListID    int64     `json:"list_id"`
	InviterID int64     `json:"inviter_id"`
	InviteeID int64     `json:"invitee_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// PendingInvite is an invite enriched for display: the list's name and the
// inviter's label, fetched alongside the raw row.
type PendingInvite struct {
	ID          int64     `json:"id"`
	ListID      int64     `json:"list_id"`
	ListName    string    `json:"list_name"`
	InviterID   int64     `json:"inviter_id"`
	InviterName string    `json:"inviter_name"`
	CreatedAt   time.Time `json:"created_at"`
}
