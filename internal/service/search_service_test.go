package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/yourorg/poll-service/internal/apperror"
	"github.com/yourorg/poll-service/internal/model"
)

func newSearchService(pollRepo *mockPollRepo, tagRepo *mockTagRepo, searchRepo *mockSearchRepo) *SearchService {
	optionRepo := &mockOptionRepo{
		ListByPollsFn: func(ctx context.Context, pollIDs []int) (map[int][]model.Option, error) {
			return map[int][]model.Option{}, nil
		},
	}
	if tagRepo.ListByPollsFn == nil {
		tagRepo.ListByPollsFn = func(ctx context.Context, pollIDs []int) (map[int][]model.Tag, error) {
			return map[int][]model.Tag{}, nil
		}
	}
	return NewSearchService(pollRepo, optionRepo, tagRepo, searchRepo, zap.NewNop())
}

func TestSearchByTextPreservesRepositoryOrder(t *testing.T) {
	searchRepo := &mockSearchRepo{
		ByTextFn: func(ctx context.Context, text string, limit, offset int) ([]int, int, error) {
			return []int{5, 2, 9}, 3, nil
		},
	}
	pollRepo := &mockPollRepo{
		GetByIDsFn: func(ctx context.Context, ids []int) ([]model.Poll, error) {
			polls := make([]model.Poll, len(ids))
			for i, id := range ids {
				polls[i] = *activePoll(id, 7)
			}
			return polls, nil
		},
	}

	svc := newSearchService(pollRepo, &mockTagRepo{}, searchRepo)

	polls, total, err := svc.SearchByText(context.Background(), "language", 10, 0)
	if err != nil {
		t.Fatalf("SearchByText returned error: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}

	wantOrder := []int{5, 2, 9}
	if len(polls) != len(wantOrder) {
		t.Fatalf("expected %d polls, got %d", len(wantOrder), len(polls))
	}
	for i, id := range wantOrder {
		if polls[i].ID != id {
			t.Errorf("position %d: expected poll %d, got %d", i, id, polls[i].ID)
		}
	}
}

func TestSearchByTextEmptyQuery(t *testing.T) {
	svc := newSearchService(&mockPollRepo{}, &mockTagRepo{}, &mockSearchRepo{})

	_, _, err := svc.SearchByText(context.Background(), "   ", 10, 0)
	if apperror.Code(err) != 400 {
		t.Errorf("expected validation error for blank query, got %v", err)
	}
}

func TestSearchByTagIDInvalid(t *testing.T) {
	svc := newSearchService(&mockPollRepo{}, &mockTagRepo{}, &mockSearchRepo{})

	_, _, err := svc.SearchByTagID(context.Background(), 0, nil, 10, 0)
	if apperror.Code(err) != 400 {
		t.Errorf("expected validation error for tag id 0, got %v", err)
	}
}

func TestSearchByTagNamesUnknownNamesYieldEmptyResult(t *testing.T) {
	tagRepo := &mockTagRepo{
		ResolveIDsByNamesFn: func(ctx context.Context, names []string, ownerUserID int) ([]int, error) {
			return nil, nil
		},
	}
	svc := newSearchService(&mockPollRepo{}, tagRepo, &mockSearchRepo{})

	polls, total, err := svc.SearchByTagNames(context.Background(), []string{"nope"}, 7, 10, 0)
	if err != nil {
		t.Fatalf("SearchByTagNames returned error: %v", err)
	}
	if total != 0 || len(polls) != 0 {
		t.Errorf("expected empty result for unknown names, got %d polls", len(polls))
	}
}

func TestSearchByTagNamesScopedToOwner(t *testing.T) {
	var resolvedOwner int
	var searchedOwner *int

	tagRepo := &mockTagRepo{
		ResolveIDsByNamesFn: func(ctx context.Context, names []string, ownerUserID int) ([]int, error) {
			resolvedOwner = ownerUserID
			return []int{3}, nil
		},
	}
	searchRepo := &mockSearchRepo{
		ByTagIDsFn: func(ctx context.Context, tagIDs []int, ownerUserID *int, limit, offset int) ([]int, int, error) {
			searchedOwner = ownerUserID
			return nil, 0, nil
		},
	}
	pollRepo := &mockPollRepo{}

	svc := newSearchService(pollRepo, tagRepo, searchRepo)

	if _, _, err := svc.SearchByTagNames(context.Background(), []string{"go"}, 7, 10, 0); err != nil {
		t.Fatalf("SearchByTagNames returned error: %v", err)
	}
	if resolvedOwner != 7 {
		t.Errorf("names resolved for owner %d, want 7", resolvedOwner)
	}
	if searchedOwner == nil || *searchedOwner != 7 {
		t.Errorf("search not scoped to owner 7: %v", searchedOwner)
	}
}
