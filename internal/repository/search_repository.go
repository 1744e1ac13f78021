package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// SearchRepository resolves search queries to ordered poll id sets. Order
// and pagination are fixed here, before hydration, so hydration cannot
// re-sort or drop results.
type SearchRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSearchRepository creates a new search repository
func NewSearchRepository(db *sqlx.DB, logger *zap.Logger) *SearchRepository {
	return &SearchRepository{
		db:     db,
		logger: logger,
	}
}

// pagedID carries one row of a paged id query.
type pagedID struct {
	ID        int    `db:"id"`
	CreatedAt string `db:"created_at"`
}

// ByTagIDs finds active polls with at least one active mapping to any of
// the given tags, newest first, optionally scoped to an owner.
func (r *SearchRepository) ByTagIDs(ctx context.Context, tagIDs []int, ownerUserID *int, limit, offset int) ([]int, int, error) {
	if len(tagIDs) == 0 {
		return nil, 0, nil
	}

	countQuery := `
		SELECT COUNT(DISTINCT p.id)
		FROM polls p
		JOIN tag_mappings m ON m.poll_id = p.id AND m.status = 'active'
		WHERE p.status = 'active'
		  AND m.tag_id = ANY($1)
		  AND ($2::int IS NULL OR p.owner_user_id = $2)
	`

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, pq.Array(tagIDs), ownerUserID); err != nil {
		r.logger.Error("Failed to count polls by tag", zap.Error(err))
		return nil, 0, err
	}

	query := `
		SELECT DISTINCT p.id, p.created_at
		FROM polls p
		JOIN tag_mappings m ON m.poll_id = p.id AND m.status = 'active'
		WHERE p.status = 'active'
		  AND m.tag_id = ANY($1)
		  AND ($2::int IS NULL OR p.owner_user_id = $2)
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $3 OFFSET $4
	`

	var rows []pagedID
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(tagIDs), ownerUserID, limit, offset); err != nil {
		r.logger.Error("Failed to search polls by tag", zap.Error(err))
		return nil, 0, err
	}

	ids := make([]int, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	return ids, total, nil
}

// ByText finds distinct active polls whose question or any active option
// text contains the query, case-insensitively, newest first.
func (r *SearchRepository) ByText(ctx context.Context, text string, limit, offset int) ([]int, int, error) {
	countQuery := `
		SELECT COUNT(DISTINCT p.id)
		FROM polls p
		LEFT JOIN options o ON o.poll_id = p.id AND o.status = 'active'
		WHERE p.status = 'active'
		  AND (p.question ILIKE '%' || $1 || '%' OR o.text ILIKE '%' || $1 || '%')
	`

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, text); err != nil {
		r.logger.Error("Failed to count polls by text", zap.Error(err))
		return nil, 0, err
	}

	query := `
		SELECT DISTINCT p.id, p.created_at
		FROM polls p
		LEFT JOIN options o ON o.poll_id = p.id AND o.status = 'active'
		WHERE p.status = 'active'
		  AND (p.question ILIKE '%' || $1 || '%' OR o.text ILIKE '%' || $1 || '%')
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`

	var rows []pagedID
	if err := r.db.SelectContext(ctx, &rows, query, text, limit, offset); err != nil {
		r.logger.Error("Failed to search polls by text", zap.Error(err))
		return nil, 0, err
	}

	ids := make([]int, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	return ids, total, nil
}
