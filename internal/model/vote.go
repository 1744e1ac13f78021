package model

import "time"

// Vote is an append-only record of voter intent. At most one active vote
// exists per (poll_id, voter_user_id); a superseded vote is soft-deleted.
type Vote struct {
	ID          int       `json:"id" db:"id"`
	PollID      int       `json:"poll_id" db:"poll_id"`
	OptionID    int       `json:"option_id" db:"option_id"`
	VoterUserID int       `json:"voter_user_id" db:"voter_user_id"`
	Status      Status    `json:"-" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// VoteRequest is the payload for casting a vote. The voter identity comes
// from the authenticated context, never from the payload.
type VoteRequest struct {
	OptionID int `json:"option_id" binding:"required"`
}
