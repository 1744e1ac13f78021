package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/yourorg/poll-service/internal/events"
	"github.com/yourorg/poll-service/internal/model"
)

// The mocks drive services with plain function fields. A nil field means
// the test does not expect that call; reaching it panics and fails loudly.

type mockTxRunner struct{}

func (m *mockTxRunner) WithinTx(ctx context.Context, fn func(q sqlx.ExtContext) error) error {
	return fn(nil)
}

type mockPollRepo struct {
	InsertFn       func(ctx context.Context, q sqlx.ExtContext, poll *model.Poll) (int, error)
	GetByIDFn      func(ctx context.Context, id int) (*model.Poll, error)
	UpdateFieldsFn func(ctx context.Context, q sqlx.ExtContext, id, ownerUserID int, question string, extraInfo *string) (bool, error)
	SoftDeleteFn   func(ctx context.Context, q sqlx.ExtContext, id, ownerUserID int) (bool, error)
	ListFn         func(ctx context.Context, ownerUserID *int, limit, offset int) ([]model.Poll, int, error)
	GetByIDsFn     func(ctx context.Context, ids []int) ([]model.Poll, error)
}

func (m *mockPollRepo) Insert(ctx context.Context, q sqlx.ExtContext, poll *model.Poll) (int, error) {
	return m.InsertFn(ctx, q, poll)
}

func (m *mockPollRepo) GetByID(ctx context.Context, id int) (*model.Poll, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockPollRepo) UpdateFields(ctx context.Context, q sqlx.ExtContext, id, ownerUserID int, question string, extraInfo *string) (bool, error) {
	return m.UpdateFieldsFn(ctx, q, id, ownerUserID, question, extraInfo)
}

func (m *mockPollRepo) SoftDelete(ctx context.Context, q sqlx.ExtContext, id, ownerUserID int) (bool, error) {
	return m.SoftDeleteFn(ctx, q, id, ownerUserID)
}

func (m *mockPollRepo) List(ctx context.Context, ownerUserID *int, limit, offset int) ([]model.Poll, int, error) {
	return m.ListFn(ctx, ownerUserID, limit, offset)
}

func (m *mockPollRepo) GetByIDs(ctx context.Context, ids []int) ([]model.Poll, error) {
	return m.GetByIDsFn(ctx, ids)
}

type mockOptionRepo struct {
	InsertFn            func(ctx context.Context, q sqlx.ExtContext, pollID, position int, opt model.OptionCreate) (int, error)
	ListByPollFn        func(ctx context.Context, pollID int) ([]model.Option, error)
	ListByPollsFn       func(ctx context.Context, pollIDs []int) (map[int][]model.Option, error)
	GetActiveWithPollFn func(ctx context.Context, q sqlx.ExtContext, optionID int) (*model.Option, error)
	SoftDeleteByPollFn  func(ctx context.Context, q sqlx.ExtContext, pollID int) error
	SoftDeleteFn        func(ctx context.Context, q sqlx.ExtContext, optionID, pollID int) (bool, error)
	NextPositionFn      func(ctx context.Context, q sqlx.ExtContext, pollID int) (int, error)
	IncrementCountFn    func(ctx context.Context, q sqlx.ExtContext, optionID int) error
	DecrementCountFn    func(ctx context.Context, q sqlx.ExtContext, optionID int) error
}

func (m *mockOptionRepo) Insert(ctx context.Context, q sqlx.ExtContext, pollID, position int, opt model.OptionCreate) (int, error) {
	return m.InsertFn(ctx, q, pollID, position, opt)
}

func (m *mockOptionRepo) ListByPoll(ctx context.Context, pollID int) ([]model.Option, error) {
	return m.ListByPollFn(ctx, pollID)
}

func (m *mockOptionRepo) ListByPolls(ctx context.Context, pollIDs []int) (map[int][]model.Option, error) {
	return m.ListByPollsFn(ctx, pollIDs)
}

func (m *mockOptionRepo) GetActiveWithPoll(ctx context.Context, q sqlx.ExtContext, optionID int) (*model.Option, error) {
	return m.GetActiveWithPollFn(ctx, q, optionID)
}

func (m *mockOptionRepo) SoftDeleteByPoll(ctx context.Context, q sqlx.ExtContext, pollID int) error {
	return m.SoftDeleteByPollFn(ctx, q, pollID)
}

func (m *mockOptionRepo) SoftDelete(ctx context.Context, q sqlx.ExtContext, optionID, pollID int) (bool, error) {
	return m.SoftDeleteFn(ctx, q, optionID, pollID)
}

func (m *mockOptionRepo) NextPosition(ctx context.Context, q sqlx.ExtContext, pollID int) (int, error) {
	return m.NextPositionFn(ctx, q, pollID)
}

func (m *mockOptionRepo) IncrementCount(ctx context.Context, q sqlx.ExtContext, optionID int) error {
	return m.IncrementCountFn(ctx, q, optionID)
}

func (m *mockOptionRepo) DecrementCount(ctx context.Context, q sqlx.ExtContext, optionID int) error {
	return m.DecrementCountFn(ctx, q, optionID)
}

type mockTagRepo struct {
	UpsertFn                   func(ctx context.Context, q sqlx.ExtContext, name string, ownerUserID int) (int, error)
	UpsertMappingFn            func(ctx context.Context, q sqlx.ExtContext, pollID, tagID, ownerUserID int) error
	SoftDeleteMappingsNotInFn  func(ctx context.Context, q sqlx.ExtContext, pollID int, keepTagIDs []int) error
	SoftDeleteMappingByNameFn  func(ctx context.Context, q sqlx.ExtContext, pollID int, name string, ownerUserID int) (bool, error)
	SoftDeleteMappingsByPollFn func(ctx context.Context, q sqlx.ExtContext, pollID int) error
	ListByPollFn               func(ctx context.Context, pollID int) ([]model.Tag, error)
	ListByPollsFn              func(ctx context.Context, pollIDs []int) (map[int][]model.Tag, error)
	GetAllWithCountsFn         func(ctx context.Context, ownerUserID int) ([]model.TagWithCount, error)
	ResolveIDsByNamesFn        func(ctx context.Context, names []string, ownerUserID int) ([]int, error)
}

func (m *mockTagRepo) Upsert(ctx context.Context, q sqlx.ExtContext, name string, ownerUserID int) (int, error) {
	return m.UpsertFn(ctx, q, name, ownerUserID)
}

func (m *mockTagRepo) UpsertMapping(ctx context.Context, q sqlx.ExtContext, pollID, tagID, ownerUserID int) error {
	return m.UpsertMappingFn(ctx, q, pollID, tagID, ownerUserID)
}

func (m *mockTagRepo) SoftDeleteMappingsNotIn(ctx context.Context, q sqlx.ExtContext, pollID int, keepTagIDs []int) error {
	return m.SoftDeleteMappingsNotInFn(ctx, q, pollID, keepTagIDs)
}

func (m *mockTagRepo) SoftDeleteMappingByName(ctx context.Context, q sqlx.ExtContext, pollID int, name string, ownerUserID int) (bool, error) {
	return m.SoftDeleteMappingByNameFn(ctx, q, pollID, name, ownerUserID)
}

func (m *mockTagRepo) SoftDeleteMappingsByPoll(ctx context.Context, q sqlx.ExtContext, pollID int) error {
	return m.SoftDeleteMappingsByPollFn(ctx, q, pollID)
}

func (m *mockTagRepo) ListByPoll(ctx context.Context, pollID int) ([]model.Tag, error) {
	return m.ListByPollFn(ctx, pollID)
}

func (m *mockTagRepo) ListByPolls(ctx context.Context, pollIDs []int) (map[int][]model.Tag, error) {
	return m.ListByPollsFn(ctx, pollIDs)
}

func (m *mockTagRepo) GetAllWithCounts(ctx context.Context, ownerUserID int) ([]model.TagWithCount, error) {
	return m.GetAllWithCountsFn(ctx, ownerUserID)
}

func (m *mockTagRepo) ResolveIDsByNames(ctx context.Context, names []string, ownerUserID int) ([]int, error) {
	return m.ResolveIDsByNamesFn(ctx, names, ownerUserID)
}

type mockVoteRepo struct {
	SupersedeActiveFn func(ctx context.Context, q sqlx.ExtContext, pollID, voterUserID int) (int, bool, error)
	InsertFn          func(ctx context.Context, q sqlx.ExtContext, pollID, optionID, voterUserID int) (int, error)
}

func (m *mockVoteRepo) SupersedeActive(ctx context.Context, q sqlx.ExtContext, pollID, voterUserID int) (int, bool, error) {
	return m.SupersedeActiveFn(ctx, q, pollID, voterUserID)
}

func (m *mockVoteRepo) Insert(ctx context.Context, q sqlx.ExtContext, pollID, optionID, voterUserID int) (int, error) {
	return m.InsertFn(ctx, q, pollID, optionID, voterUserID)
}

type mockSearchRepo struct {
	ByTagIDsFn func(ctx context.Context, tagIDs []int, ownerUserID *int, limit, offset int) ([]int, int, error)
	ByTextFn   func(ctx context.Context, text string, limit, offset int) ([]int, int, error)
}

func (m *mockSearchRepo) ByTagIDs(ctx context.Context, tagIDs []int, ownerUserID *int, limit, offset int) ([]int, int, error) {
	return m.ByTagIDsFn(ctx, tagIDs, ownerUserID, limit, offset)
}

func (m *mockSearchRepo) ByText(ctx context.Context, text string, limit, offset int) ([]int, int, error) {
	return m.ByTextFn(ctx, text, limit, offset)
}

type mockPublisher struct {
	PublishFn func(ctx context.Context, topic string, msg events.Message) error
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, msg events.Message) error {
	if m.PublishFn == nil {
		return nil
	}
	return m.PublishFn(ctx, topic, msg)
}
