package model

import "time"

// Status is the lifecycle state of a row. Entities are never physically
// removed; deletion flips the status and stamps updated_at.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Poll represents a poll together with its owned options and attached tags.
type Poll struct {
	ID          int        `json:"id" db:"id"`
	Question    string     `json:"question" db:"question"`
	ExtraInfo   *string    `json:"extra_info,omitempty" db:"extra_info"`
	OwnerUserID int        `json:"owner_user_id" db:"owner_user_id"`
	Status      Status     `json:"-" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
	Options     []Option   `json:"options" db:"-"`
	Tags        []Tag      `json:"tags" db:"-"`
}

// Option is a single answer choice, exclusively owned by one poll.
// Position determines stable display order; VoteCount is the denormalized
// number of active votes and never goes negative.
type Option struct {
	ID         int        `json:"id" db:"id"`
	PollID     int        `json:"poll_id" db:"poll_id"`
	Position   int        `json:"position" db:"position"`
	Text       string     `json:"text" db:"text"`
	Confidence *float64   `json:"confidence,omitempty" db:"confidence"`
	VoteCount  int        `json:"vote_count" db:"vote_count"`
	Status     Status     `json:"-" db:"status"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// PollCreate is the payload for creating a poll aggregate.
type PollCreate struct {
	Question  string         `json:"question" binding:"required"`
	ExtraInfo *string        `json:"extra_info"`
	Options   []OptionCreate `json:"options" binding:"required"`
	Tags      []string       `json:"tags"`
}

// OptionCreate is a single option in a create or update payload. The
// caller-supplied slice order becomes the stored position.
type OptionCreate struct {
	Text       string   `json:"text" binding:"required"`
	Confidence *float64 `json:"confidence"`
}

// PollUpdate is the payload for updating a poll. Nil fields are left
// unchanged; a non-nil Options slice replaces the whole option set and a
// non-nil Tags slice replaces the whole tag set.
type PollUpdate struct {
	Question  *string        `json:"question"`
	ExtraInfo *string        `json:"extra_info"`
	Options   []OptionCreate `json:"options"`
	Tags      []string       `json:"tags"`
}
