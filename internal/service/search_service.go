package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/yourorg/poll-service/internal/apperror"
	"github.com/yourorg/poll-service/internal/model"
)

// SearchService finds polls by tag or free text. The repositories fix
// order and pagination on the distinct poll id set; hydration afterwards
// preserves that order.
type SearchService struct {
	pollRepo   PollRepository
	optionRepo OptionRepository
	tagRepo    TagRepository
	searchRepo SearchRepository
	logger     *zap.Logger
}

// NewSearchService creates a new search service
func NewSearchService(
	pollRepo PollRepository,
	optionRepo OptionRepository,
	tagRepo TagRepository,
	searchRepo SearchRepository,
	logger *zap.Logger,
) *SearchService {
	return &SearchService{
		pollRepo:   pollRepo,
		optionRepo: optionRepo,
		tagRepo:    tagRepo,
		searchRepo: searchRepo,
		logger:     logger,
	}
}

// SearchByTagID finds polls carrying the given tag, optionally scoped to
// an owner, newest first.
func (s *SearchService) SearchByTagID(ctx context.Context, tagID int, ownerUserID *int, limit, offset int) ([]model.Poll, int, error) {
	if tagID <= 0 {
		return nil, 0, apperror.NewValidation("invalid tag ID")
	}
	return s.byTagIDs(ctx, []int{tagID}, ownerUserID, limit, offset)
}

// SearchByTagNames finds polls carrying any of the named tags. Names are
// resolved within one owner's scope since tag names are not globally
// unique.
func (s *SearchService) SearchByTagNames(ctx context.Context, names []string, ownerUserID int, limit, offset int) ([]model.Poll, int, error) {
	trimmed := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, 0, apperror.NewValidation("tag name cannot be empty")
		}
		trimmed = append(trimmed, name)
	}
	if len(trimmed) == 0 {
		return nil, 0, apperror.NewValidation("at least one tag name is required")
	}

	tagIDs, err := s.tagRepo.ResolveIDsByNames(ctx, trimmed, ownerUserID)
	if err != nil {
		return nil, 0, apperror.NewInternal(err)
	}
	if len(tagIDs) == 0 {
		return []model.Poll{}, 0, nil
	}

	owner := ownerUserID
	return s.byTagIDs(ctx, tagIDs, &owner, limit, offset)
}

// SearchByText finds distinct polls whose question or option text contains
// the query, case-insensitively.
func (s *SearchService) SearchByText(ctx context.Context, query string, limit, offset int) ([]model.Poll, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, apperror.NewValidation("search query cannot be empty")
	}

	limit, offset = clampPage(limit, offset)

	ids, total, err := s.searchRepo.ByText(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, apperror.NewInternal(err)
	}

	return s.hydrateIDs(ctx, ids, total)
}

func (s *SearchService) byTagIDs(ctx context.Context, tagIDs []int, ownerUserID *int, limit, offset int) ([]model.Poll, int, error) {
	limit, offset = clampPage(limit, offset)

	ids, total, err := s.searchRepo.ByTagIDs(ctx, tagIDs, ownerUserID, limit, offset)
	if err != nil {
		return nil, 0, apperror.NewInternal(err)
	}

	return s.hydrateIDs(ctx, ids, total)
}

// hydrateIDs loads and hydrates polls for an ordered id set without
// re-sorting it.
func (s *SearchService) hydrateIDs(ctx context.Context, ids []int, total int) ([]model.Poll, int, error) {
	if len(ids) == 0 {
		return []model.Poll{}, total, nil
	}

	polls, err := s.pollRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, apperror.NewInternal(err)
	}

	if err := hydratePolls(ctx, s.optionRepo, s.tagRepo, polls); err != nil {
		return nil, 0, apperror.NewInternal(err)
	}

	return polls, total, nil
}
