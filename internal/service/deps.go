package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/yourorg/poll-service/internal/events"
	"github.com/yourorg/poll-service/internal/model"
)

// TxRunner runs a unit of work inside one database transaction. Every
// multi-statement mutation goes through it; a failure rolls the whole
// aggregate back.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(q sqlx.ExtContext) error) error
}

// PollRepository defines the poll persistence operations used by services.
type PollRepository interface {
	Insert(ctx context.Context, q sqlx.ExtContext, poll *model.Poll) (int, error)
	GetByID(ctx context.Context, id int) (*model.Poll, error)
	UpdateFields(ctx context.Context, q sqlx.ExtContext, id, ownerUserID int, question string, extraInfo *string) (bool, error)
	SoftDelete(ctx context.Context, q sqlx.ExtContext, id, ownerUserID int) (bool, error)
	List(ctx context.Context, ownerUserID *int, limit, offset int) ([]model.Poll, int, error)
	GetByIDs(ctx context.Context, ids []int) ([]model.Poll, error)
}

// OptionRepository defines the option persistence operations used by services.
type OptionRepository interface {
	Insert(ctx context.Context, q sqlx.ExtContext, pollID, position int, opt model.OptionCreate) (int, error)
	ListByPoll(ctx context.Context, pollID int) ([]model.Option, error)
	ListByPolls(ctx context.Context, pollIDs []int) (map[int][]model.Option, error)
	GetActiveWithPoll(ctx context.Context, q sqlx.ExtContext, optionID int) (*model.Option, error)
	SoftDeleteByPoll(ctx context.Context, q sqlx.ExtContext, pollID int) error
	SoftDelete(ctx context.Context, q sqlx.ExtContext, optionID, pollID int) (bool, error)
	NextPosition(ctx context.Context, q sqlx.ExtContext, pollID int) (int, error)
	IncrementCount(ctx context.Context, q sqlx.ExtContext, optionID int) error
	DecrementCount(ctx context.Context, q sqlx.ExtContext, optionID int) error
}

// TagRepository defines the tag persistence operations used by services.
type TagRepository interface {
	Upsert(ctx context.Context, q sqlx.ExtContext, name string, ownerUserID int) (int, error)
	UpsertMapping(ctx context.Context, q sqlx.ExtContext, pollID, tagID, ownerUserID int) error
	SoftDeleteMappingsNotIn(ctx context.Context, q sqlx.ExtContext, pollID int, keepTagIDs []int) error
	SoftDeleteMappingByName(ctx context.Context, q sqlx.ExtContext, pollID int, name string, ownerUserID int) (bool, error)
	SoftDeleteMappingsByPoll(ctx context.Context, q sqlx.ExtContext, pollID int) error
	ListByPoll(ctx context.Context, pollID int) ([]model.Tag, error)
	ListByPolls(ctx context.Context, pollIDs []int) (map[int][]model.Tag, error)
	GetAllWithCounts(ctx context.Context, ownerUserID int) ([]model.TagWithCount, error)
	ResolveIDsByNames(ctx context.Context, names []string, ownerUserID int) ([]int, error)
}

// VoteRepository defines the vote persistence operations used by services.
type VoteRepository interface {
	SupersedeActive(ctx context.Context, q sqlx.ExtContext, pollID, voterUserID int) (optionID int, found bool, err error)
	Insert(ctx context.Context, q sqlx.ExtContext, pollID, optionID, voterUserID int) (int, error)
}

// SearchRepository defines the id-set search operations used by services.
type SearchRepository interface {
	ByTagIDs(ctx context.Context, tagIDs []int, ownerUserID *int, limit, offset int) ([]int, int, error)
	ByText(ctx context.Context, text string, limit, offset int) ([]int, int, error)
}

// EventPublisher defines the event producing operations used by services.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, msg events.Message) error
}
