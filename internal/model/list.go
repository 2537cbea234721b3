package model

import "time"

// Kind values a list can hold. Each list stores items of exactly one kind.
const (
	KindTask    = "task"
	KindGrocery = "grocery"
	KindNote    = "note"
)

// ValidKind reports whether kind is one of the supported list kinds.
func ValidKind(kind string) bool {
	return kind == KindTask || kind == KindGrocery || kind == KindNote
}

// Membership roles.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

type List struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type ListMember struct {
	ID        int64     `json:"id"`
	ListID    int64     `json:"list_id"`
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ListEntry is a directory row: a list joined with the requesting user's role
// and the owner's profile fields for display labels.
type ListEntry struct {
	List
	Role          string `json:"role"`
	OwnerUsername string `json:"owner_username"`
	OwnerFirst    string `json:"owner_first_name"`
	OwnerLast     string `json:"owner_last_name"`
}
