package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yourorg/poll-service/internal/apperror"
	"github.com/yourorg/poll-service/internal/model"
	"github.com/yourorg/poll-service/internal/validator"
)

// TagService reconciles a poll's tag attachments against a desired set.
// Tag rows are shared across all of an owner's polls: reconciliation
// reuses an active tag, resurrects a soft-deleted one, or inserts a new
// one, always through a single upsert so concurrent callers converge on
// the unique constraint instead of racing.
type TagService struct {
	tx       TxRunner
	pollRepo PollRepository
	tagRepo  TagRepository
	logger   *zap.Logger
}

// NewTagService creates a new tag service
func NewTagService(tx TxRunner, pollRepo PollRepository, tagRepo TagRepository, logger *zap.Logger) *TagService {
	return &TagService{
		tx:       tx,
		pollRepo: pollRepo,
		tagRepo:  tagRepo,
		logger:   logger,
	}
}

// reconcileTags drives each desired name to an active (poll, tag) mapping
// and returns the tag ids of the desired set. It does not detach anything;
// callers replacing the whole set prune with SoftDeleteMappingsNotIn using
// the returned ids. Calling it twice with the same input is a no-op.
func reconcileTags(ctx context.Context, q sqlx.ExtContext, tagRepo TagRepository, pollID, ownerUserID int, names []string) ([]int, error) {
	keepIDs := make([]int, 0, len(names))

	for _, name := range names {
		tagID, err := tagRepo.Upsert(ctx, q, name, ownerUserID)
		if err != nil {
			return nil, err
		}
		if err := tagRepo.UpsertMapping(ctx, q, pollID, tagID, ownerUserID); err != nil {
			return nil, err
		}
		keepIDs = append(keepIDs, tagID)
	}

	return keepIDs, nil
}

// SetPollTags replaces a poll's tag set with exactly the given names.
func (s *TagService) SetPollTags(ctx context.Context, pollID, ownerUserID int, names []string) ([]model.Tag, error) {
	tagNames, err := validator.NormalizeTagNames(names)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnership(ctx, pollID, ownerUserID); err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(q sqlx.ExtContext) error {
		keepIDs, err := reconcileTags(ctx, q, s.tagRepo, pollID, ownerUserID, tagNames)
		if err != nil {
			return err
		}
		return s.tagRepo.SoftDeleteMappingsNotIn(ctx, q, pollID, keepIDs)
	})
	if err != nil {
		return nil, wrapUnlessTyped(err)
	}

	tags, err := s.tagRepo.ListByPoll(ctx, pollID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	return tags, nil
}

// TagPoll attaches a single tag to an owned poll, creating or resurrecting
// the tag row as needed.
func (s *TagService) TagPoll(ctx context.Context, pollID, ownerUserID int, name string) (*model.Tag, error) {
	names, err := validator.NormalizeTagNames([]string{name})
	if err != nil {
		return nil, err
	}
	name = names[0]

	if err := s.checkOwnership(ctx, pollID, ownerUserID); err != nil {
		return nil, err
	}

	var tagID int
	err = s.tx.WithinTx(ctx, func(q sqlx.ExtContext) error {
		tagID, err = s.tagRepo.Upsert(ctx, q, name, ownerUserID)
		if err != nil {
			return err
		}
		return s.tagRepo.UpsertMapping(ctx, q, pollID, tagID, ownerUserID)
	})
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	return &model.Tag{ID: tagID, Name: name, OwnerUserID: ownerUserID, Status: model.StatusActive}, nil
}

// UntagPoll detaches a single tag from an owned poll. Reports not-found
// when no active mapping with that name exists for the owner.
func (s *TagService) UntagPoll(ctx context.Context, pollID, ownerUserID int, name string) error {
	names, err := validator.NormalizeTagNames([]string{name})
	if err != nil {
		return err
	}
	name = names[0]

	if err := s.checkOwnership(ctx, pollID, ownerUserID); err != nil {
		return err
	}

	err = s.tx.WithinTx(ctx, func(q sqlx.ExtContext) error {
		found, err := s.tagRepo.SoftDeleteMappingByName(ctx, q, pollID, name, ownerUserID)
		if err != nil {
			return err
		}
		if !found {
			return apperror.NewNotFound("tag is not attached to this poll")
		}
		return nil
	})
	return wrapUnlessTyped(err)
}

// GetPollTags retrieves the active tags of a poll.
func (s *TagService) GetPollTags(ctx context.Context, pollID int) ([]model.Tag, error) {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if poll == nil {
		return nil, apperror.NewNotFound("poll not found")
	}

	tags, err := s.tagRepo.ListByPoll(ctx, pollID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	return tags, nil
}

// GetAllTags retrieves a user's distinct active tag names with usage
// counts, most used first then alphabetical.
func (s *TagService) GetAllTags(ctx context.Context, ownerUserID int) ([]model.TagWithCount, error) {
	tags, err := s.tagRepo.GetAllWithCounts(ctx, ownerUserID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return tags, nil
}

// checkOwnership reports not-found for a poll that is missing, deleted, or
// owned by someone else.
func (s *TagService) checkOwnership(ctx context.Context, pollID, ownerUserID int) error {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return apperror.NewInternal(err)
	}
	if poll == nil || poll.OwnerUserID != ownerUserID {
		return apperror.NewNotFound("poll not found")
	}
	return nil
}
