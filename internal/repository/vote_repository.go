package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// VoteRepository handles database operations for votes
type VoteRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *sqlx.DB, logger *zap.Logger) *VoteRepository {
	return &VoteRepository{
		db:     db,
		logger: logger,
	}
}

// SupersedeActive soft-deletes the voter's active vote on a poll in one
// statement, returning the option id it pointed at so the caller can
// decrement that option's counter. Returns found=false when the voter had
// no active vote.
func (r *VoteRepository) SupersedeActive(ctx context.Context, q sqlx.ExtContext, pollID, voterUserID int) (optionID int, found bool, err error) {
	query := `
		UPDATE votes
		SET status = 'deleted'
		WHERE poll_id = $1 AND voter_user_id = $2 AND status = 'active'
		RETURNING option_id
	`

	err = q.QueryRowxContext(ctx, query, pollID, voterUserID).Scan(&optionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		r.logger.Error("Failed to supersede vote", zap.Error(err),
			zap.Int("poll_id", pollID), zap.Int("voter_user_id", voterUserID))
		return 0, false, err
	}

	return optionID, true, nil
}

// Insert records a new active vote. The partial unique index on
// (poll_id, voter_user_id) rejects a second active vote, which turns a
// concurrent double-vote into a constraint error instead of silent
// double counting.
func (r *VoteRepository) Insert(ctx context.Context, q sqlx.ExtContext, pollID, optionID, voterUserID int) (int, error) {
	query := `
		INSERT INTO votes (poll_id, option_id, voter_user_id, status)
		VALUES ($1, $2, $3, 'active')
		RETURNING id
	`

	var id int
	err := q.QueryRowxContext(ctx, query, pollID, optionID, voterUserID).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert vote", zap.Error(err),
			zap.Int("poll_id", pollID), zap.Int("option_id", optionID))
		return 0, err
	}

	return id, nil
}

// CountActiveByPoll returns the number of active votes on a poll.
func (r *VoteRepository) CountActiveByPoll(ctx context.Context, pollID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM votes
		WHERE poll_id = $1 AND status = 'active'
	`

	var count int
	if err := r.db.GetContext(ctx, &count, query, pollID); err != nil {
		r.logger.Error("Failed to count votes", zap.Error(err), zap.Int("poll_id", pollID))
		return 0, err
	}

	return count, nil
}
