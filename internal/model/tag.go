package model

import "time"

// Tag is a per-user label. The (name, owner_user_id) pair is unique across
// all lifecycles: a soft-deleted tag with the same name is resurrected on
// reuse, never duplicated.
type Tag struct {
	ID          int        `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	OwnerUserID int        `json:"owner_user_id" db:"owner_user_id"`
	Status      Status     `json:"-" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// TagMapping is the junction row attaching a tag to a poll. Uniqueness is
// on (poll_id, tag_id); re-attachment resurrects the existing row.
type TagMapping struct {
	ID          int        `json:"id" db:"id"`
	PollID      int        `json:"poll_id" db:"poll_id"`
	TagID       int        `json:"tag_id" db:"tag_id"`
	OwnerUserID int        `json:"owner_user_id" db:"owner_user_id"`
	Status      Status     `json:"-" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// TagWithCount is a tag name with the number of active polls using it,
// used for tag clouds and autocomplete.
type TagWithCount struct {
	ID         int    `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	UsageCount int    `json:"usage_count" db:"usage_count"`
}
