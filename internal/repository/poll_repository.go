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

// PollRepository handles database operations for polls
type PollRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPollRepository creates a new poll repository
func NewPollRepository(db *sqlx.DB, logger *zap.Logger) *PollRepository {
	return &PollRepository{
		db:     db,
		logger: logger,
	}
}

// Insert adds a new poll row. Runs on the caller's transaction.
func (r *PollRepository) Insert(ctx context.Context, q sqlx.ExtContext, poll *model.Poll) (int, error) {
	query := `
		INSERT INTO polls (question, extra_info, owner_user_id, status)
		VALUES ($1, $2, $3, 'active')
		RETURNING id
	`

	var id int
	err := q.QueryRowxContext(ctx, query, poll.Question, poll.ExtraInfo, poll.OwnerUserID).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert poll", zap.Error(err))
		return 0, err
	}

	return id, nil
}

// GetByID retrieves an active poll by ID. Not found is not an error.
func (r *PollRepository) GetByID(ctx context.Context, id int) (*model.Poll, error) {
	query := `
		SELECT id, question, extra_info, owner_user_id, status, created_at, updated_at
		FROM polls
		WHERE id = $1 AND status = 'active'
	`

	var poll model.Poll
	err := r.db.GetContext(ctx, &poll, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get poll by ID", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return &poll, nil
}

// UpdateFields updates the scalar poll fields and stamps updated_at. The
// owner clause makes the ownership check authoritative inside the
// transaction; returns false when no active owned row matched.
func (r *PollRepository) UpdateFields(ctx context.Context, q sqlx.ExtContext, id, ownerUserID int, question string, extraInfo *string) (bool, error) {
	query := `
		UPDATE polls
		SET question = $1, extra_info = $2, updated_at = NOW()
		WHERE id = $3 AND owner_user_id = $4 AND status = 'active'
	`

	res, err := q.ExecContext(ctx, query, question, extraInfo, id, ownerUserID)
	if err != nil {
		r.logger.Error("Failed to update poll", zap.Error(err), zap.Int("id", id))
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// SoftDelete marks a poll as deleted if it is active and owned by the
// caller. Returns whether a row was affected.
func (r *PollRepository) SoftDelete(ctx context.Context, q sqlx.ExtContext, id, ownerUserID int) (bool, error) {
	query := `
		UPDATE polls
		SET status = 'deleted', updated_at = NOW()
		WHERE id = $1 AND owner_user_id = $2 AND status = 'active'
	`

	res, err := q.ExecContext(ctx, query, id, ownerUserID)
	if err != nil {
		r.logger.Error("Failed to soft-delete poll", zap.Error(err), zap.Int("id", id))
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// List retrieves active polls, newest first, optionally scoped to an owner.
func (r *PollRepository) List(ctx context.Context, ownerUserID *int, limit, offset int) ([]model.Poll, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM polls
		WHERE status = 'active' AND ($1::int IS NULL OR owner_user_id = $1)
	`

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, ownerUserID); err != nil {
		r.logger.Error("Failed to count polls", zap.Error(err))
		return nil, 0, err
	}

	query := `
		SELECT id, question, extra_info, owner_user_id, status, created_at, updated_at
		FROM polls
		WHERE status = 'active' AND ($1::int IS NULL OR owner_user_id = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	var polls []model.Poll
	if err := r.db.SelectContext(ctx, &polls, query, ownerUserID, limit, offset); err != nil {
		r.logger.Error("Failed to list polls", zap.Error(err))
		return nil, 0, err
	}

	return polls, total, nil
}

// GetByIDs retrieves active polls for the given id set, preserving the
// order of ids. Search decides the order; hydration must not re-sort it.
func (r *PollRepository) GetByIDs(ctx context.Context, ids []int) ([]model.Poll, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, question, extra_info, owner_user_id, status, created_at, updated_at
		FROM polls
		WHERE id = ANY($1) AND status = 'active'
	`

	var polls []model.Poll
	if err := r.db.SelectContext(ctx, &polls, query, pq.Array(ids)); err != nil {
		r.logger.Error("Failed to get polls by IDs", zap.Error(err))
		return nil, err
	}

	byID := make(map[int]model.Poll, len(polls))
	for _, p := range polls {
		byID[p.ID] = p
	}

	ordered := make([]model.Poll, 0, len(polls))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	return ordered, nil
}
