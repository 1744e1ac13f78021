package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/yourorg/poll-service/internal/model"
)

// OptionRepository handles database operations for poll options
type OptionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewOptionRepository creates a new option repository
func NewOptionRepository(db *sqlx.DB, logger *zap.Logger) *OptionRepository {
	return &OptionRepository{
		db:     db,
		logger: logger,
	}
}

// Insert adds one option row at the given position. Runs on the caller's
// transaction.
func (r *OptionRepository) Insert(ctx context.Context, q sqlx.ExtContext, pollID, position int, opt model.OptionCreate) (int, error) {
	query := `
		INSERT INTO options (poll_id, position, text, confidence, vote_count, status)
		VALUES ($1, $2, $3, $4, 0, 'active')
		RETURNING id
	`

	var id int
	err := q.QueryRowxContext(ctx, query, pollID, position, opt.Text, opt.Confidence).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert option", zap.Error(err), zap.Int("poll_id", pollID))
		return 0, err
	}

	return id, nil
}

// ListByPoll retrieves the active options of a poll in display order.
func (r *OptionRepository) ListByPoll(ctx context.Context, pollID int) ([]model.Option, error) {
	query := `
		SELECT id, poll_id, position, text, confidence, vote_count, status, created_at, updated_at
		FROM options
		WHERE poll_id = $1 AND status = 'active'
		ORDER BY position
	`

	var options []model.Option
	if err := r.db.SelectContext(ctx, &options, query, pollID); err != nil {
		r.logger.Error("Failed to list options", zap.Error(err), zap.Int("poll_id", pollID))
		return nil, err
	}

	return options, nil
}

// ListByPolls retrieves active options for a set of polls, keyed by poll id.
func (r *OptionRepository) ListByPolls(ctx context.Context, pollIDs []int) (map[int][]model.Option, error) {
	if len(pollIDs) == 0 {
		return map[int][]model.Option{}, nil
	}

	query := `
		SELECT id, poll_id, position, text, confidence, vote_count, status, created_at, updated_at
		FROM options
		WHERE poll_id = ANY($1) AND status = 'active'
		ORDER BY poll_id, position
	`

	var options []model.Option
	if err := r.db.SelectContext(ctx, &options, query, pq.Array(pollIDs)); err != nil {
		r.logger.Error("Failed to list options for polls", zap.Error(err))
		return nil, err
	}

	byPoll := make(map[int][]model.Option, len(pollIDs))
	for _, o := range options {
		byPoll[o.PollID] = append(byPoll[o.PollID], o)
	}

	return byPoll, nil
}

// GetActiveWithPoll retrieves an active option whose poll is also active.
// Not found is not an error.
func (r *OptionRepository) GetActiveWithPoll(ctx context.Context, q sqlx.ExtContext, optionID int) (*model.Option, error) {
	query := `
		SELECT o.id, o.poll_id, o.position, o.text, o.confidence, o.vote_count, o.status, o.created_at, o.updated_at
		FROM options o
		JOIN polls p ON p.id = o.poll_id
		WHERE o.id = $1 AND o.status = 'active' AND p.status = 'active'
	`

	var option model.Option
	err := sqlx.GetContext(ctx, q, &option, query, optionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get option", zap.Error(err), zap.Int("option_id", optionID))
		return nil, err
	}

	return &option, nil
}

// SoftDeleteByPoll marks all active options of a poll as deleted in one
// batched statement.
func (r *OptionRepository) SoftDeleteByPoll(ctx context.Context, q sqlx.ExtContext, pollID int) error {
	query := `
		UPDATE options
		SET status = 'deleted', updated_at = NOW()
		WHERE poll_id = $1 AND status = 'active'
	`

	if _, err := q.ExecContext(ctx, query, pollID); err != nil {
		r.logger.Error("Failed to soft-delete options", zap.Error(err), zap.Int("poll_id", pollID))
		return err
	}

	return nil
}

// SoftDelete marks a single option of a poll as deleted. Returns whether a
// row was affected.
func (r *OptionRepository) SoftDelete(ctx context.Context, q sqlx.ExtContext, optionID, pollID int) (bool, error) {
	query := `
		UPDATE options
		SET status = 'deleted', updated_at = NOW()
		WHERE id = $1 AND poll_id = $2 AND status = 'active'
	`

	res, err := q.ExecContext(ctx, query, optionID, pollID)
	if err != nil {
		r.logger.Error("Failed to soft-delete option", zap.Error(err), zap.Int("option_id", optionID))
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// NextPosition returns the position for appending one option to a poll.
func (r *OptionRepository) NextPosition(ctx context.Context, q sqlx.ExtContext, pollID int) (int, error) {
	query := `
		SELECT COALESCE(MAX(position) + 1, 0)
		FROM options
		WHERE poll_id = $1 AND status = 'active'
	`

	var position int
	if err := sqlx.GetContext(ctx, q, &position, query, pollID); err != nil {
		r.logger.Error("Failed to compute option position", zap.Error(err), zap.Int("poll_id", pollID))
		return 0, err
	}

	return position, nil
}

// IncrementCount bumps an option's denormalized vote counter. Relative
// server-side adjustment only; the counter is never set from client data.
func (r *OptionRepository) IncrementCount(ctx context.Context, q sqlx.ExtContext, optionID int) error {
	query := `
		UPDATE options
		SET vote_count = vote_count + 1, updated_at = NOW()
		WHERE id = $1 AND status = 'active'
	`

	if _, err := q.ExecContext(ctx, query, optionID); err != nil {
		r.logger.Error("Failed to increment vote count", zap.Error(err), zap.Int("option_id", optionID))
		return err
	}

	return nil
}

// DecrementCount lowers an option's vote counter, clamped at zero.
func (r *OptionRepository) DecrementCount(ctx context.Context, q sqlx.ExtContext, optionID int) error {
	query := `
		UPDATE options
		SET vote_count = GREATEST(vote_count - 1, 0), updated_at = NOW()
		WHERE id = $1
	`

	if _, err := q.ExecContext(ctx, query, optionID); err != nil {
		r.logger.Error("Failed to decrement vote count", zap.Error(err), zap.Int("option_id", optionID))
		return err
	}

	return nil
}
