package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/yourorg/poll-service/internal/model"
)

// TagRepository handles database operations for tags and tag mappings.
// All insert paths are upserts keyed on the uniqueness constraints, so
// concurrent callers creating the "same" tag or mapping converge on one
// row instead of racing a read-then-write.
type TagRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *sqlx.DB, logger *zap.Logger) *TagRepository {
	return &TagRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts a tag or resurrects/reuses the existing row for
// (owner, name), returning its id. A soft-deleted tag with the same name
// comes back active rather than being duplicated.
func (r *TagRepository) Upsert(ctx context.Context, q sqlx.ExtContext, name string, ownerUserID int) (int, error) {
	query := `
		INSERT INTO tags (name, owner_user_id, status)
		VALUES ($1, $2, 'active')
		ON CONFLICT ON CONSTRAINT uq_tags_owner_name
		DO UPDATE SET status = 'active', updated_at = NOW()
		RETURNING id
	`

	var id int
	err := q.QueryRowxContext(ctx, query, name, ownerUserID).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to upsert tag", zap.Error(err), zap.String("name", name))
		return 0, err
	}

	return id, nil
}

// UpsertMapping attaches a tag to a poll, resurrecting a soft-deleted
// mapping if one exists for (poll, tag).
func (r *TagRepository) UpsertMapping(ctx context.Context, q sqlx.ExtContext, pollID, tagID, ownerUserID int) error {
	query := `
		INSERT INTO tag_mappings (poll_id, tag_id, owner_user_id, status)
		VALUES ($1, $2, $3, 'active')
		ON CONFLICT ON CONSTRAINT uq_tag_mappings_poll_tag
		DO UPDATE SET status = 'active', updated_at = NOW()
	`

	if _, err := q.ExecContext(ctx, query, pollID, tagID, ownerUserID); err != nil {
		r.logger.Error("Failed to upsert tag mapping", zap.Error(err),
			zap.Int("poll_id", pollID), zap.Int("tag_id", tagID))
		return err
	}

	return nil
}

// SoftDeleteMappingsNotIn detaches every active mapping of a poll whose
// tag id is outside the desired set. An empty keep set detaches all.
func (r *TagRepository) SoftDeleteMappingsNotIn(ctx context.Context, q sqlx.ExtContext, pollID int, keepTagIDs []int) error {
	query := `
		UPDATE tag_mappings
		SET status = 'deleted', updated_at = NOW()
		WHERE poll_id = $1 AND status = 'active' AND NOT (tag_id = ANY($2))
	`

	if _, err := q.ExecContext(ctx, query, pollID, pq.Array(keepTagIDs)); err != nil {
		r.logger.Error("Failed to prune tag mappings", zap.Error(err), zap.Int("poll_id", pollID))
		return err
	}

	return nil
}

// SoftDeleteMappingByName detaches the named tag from a poll. Returns
// whether an active owned mapping was found.
func (r *TagRepository) SoftDeleteMappingByName(ctx context.Context, q sqlx.ExtContext, pollID int, name string, ownerUserID int) (bool, error) {
	query := `
		UPDATE tag_mappings m
		SET status = 'deleted', updated_at = NOW()
		FROM tags t
		WHERE m.tag_id = t.id
		  AND m.poll_id = $1
		  AND t.name = $2
		  AND t.owner_user_id = $3
		  AND m.status = 'active'
	`

	res, err := q.ExecContext(ctx, query, pollID, name, ownerUserID)
	if err != nil {
		r.logger.Error("Failed to detach tag", zap.Error(err),
			zap.Int("poll_id", pollID), zap.String("name", name))
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// SoftDeleteMappingsByPoll detaches all active mappings of a poll, used
// when the poll itself is soft-deleted.
func (r *TagRepository) SoftDeleteMappingsByPoll(ctx context.Context, q sqlx.ExtContext, pollID int) error {
	query := `
		UPDATE tag_mappings
		SET status = 'deleted', updated_at = NOW()
		WHERE poll_id = $1 AND status = 'active'
	`

	if _, err := q.ExecContext(ctx, query, pollID); err != nil {
		r.logger.Error("Failed to detach tags of poll", zap.Error(err), zap.Int("poll_id", pollID))
		return err
	}

	return nil
}

// ListByPoll retrieves the active tags attached to a poll.
func (r *TagRepository) ListByPoll(ctx context.Context, pollID int) ([]model.Tag, error) {
	query := `
		SELECT t.id, t.name, t.owner_user_id, t.status, t.created_at, t.updated_at
		FROM tags t
		JOIN tag_mappings m ON m.tag_id = t.id
		WHERE m.poll_id = $1 AND m.status = 'active' AND t.status = 'active'
		ORDER BY t.name
	`

	var tags []model.Tag
	if err := r.db.SelectContext(ctx, &tags, query, pollID); err != nil {
		r.logger.Error("Failed to list tags for poll", zap.Error(err), zap.Int("poll_id", pollID))
		return nil, err
	}

	return tags, nil
}

// ListByPolls retrieves active tags for a set of polls, keyed by poll id.
func (r *TagRepository) ListByPolls(ctx context.Context, pollIDs []int) (map[int][]model.Tag, error) {
	if len(pollIDs) == 0 {
		return map[int][]model.Tag{}, nil
	}

	query := `
		SELECT m.poll_id, t.id, t.name, t.owner_user_id, t.status, t.created_at, t.updated_at
		FROM tags t
		JOIN tag_mappings m ON m.tag_id = t.id
		WHERE m.poll_id = ANY($1) AND m.status = 'active' AND t.status = 'active'
		ORDER BY m.poll_id, t.name
	`

	rows, err := r.db.QueryxContext(ctx, query, pq.Array(pollIDs))
	if err != nil {
		r.logger.Error("Failed to list tags for polls", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	byPoll := make(map[int][]model.Tag, len(pollIDs))
	for rows.Next() {
		var pollID int
		var t model.Tag
		if err := rows.Scan(&pollID, &t.ID, &t.Name, &t.OwnerUserID, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			r.logger.Error("Failed to scan tag row", zap.Error(err))
			return nil, err
		}
		byPoll[pollID] = append(byPoll[pollID], t)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating tag rows", zap.Error(err))
		return nil, err
	}

	return byPoll, nil
}

// GetAllWithCounts retrieves a user's distinct active tag names with the
// number of active mappings referencing each, most used first.
func (r *TagRepository) GetAllWithCounts(ctx context.Context, ownerUserID int) ([]model.TagWithCount, error) {
	query := `
		SELECT t.id, t.name, COUNT(m.id) AS usage_count
		FROM tags t
		LEFT JOIN tag_mappings m ON m.tag_id = t.id AND m.status = 'active'
		WHERE t.owner_user_id = $1 AND t.status = 'active'
		GROUP BY t.id, t.name
		ORDER BY usage_count DESC, t.name ASC
	`

	var tags []model.TagWithCount
	if err := r.db.SelectContext(ctx, &tags, query, ownerUserID); err != nil {
		r.logger.Error("Failed to get tags with counts", zap.Error(err), zap.Int("owner_user_id", ownerUserID))
		return nil, err
	}

	return tags, nil
}

// ResolveIDsByNames resolves tag names to ids within one owner's scope.
// Names without an active tag are skipped.
func (r *TagRepository) ResolveIDsByNames(ctx context.Context, names []string, ownerUserID int) ([]int, error) {
	if len(names) == 0 {
		return nil, nil
	}

	query := `
		SELECT id
		FROM tags
		WHERE owner_user_id = $1 AND name = ANY($2) AND status = 'active'
	`

	var ids []int
	if err := r.db.SelectContext(ctx, &ids, query, ownerUserID, pq.Array(names)); err != nil {
		r.logger.Error("Failed to resolve tag names", zap.Error(err))
		return nil, err
	}

	return ids, nil
}
