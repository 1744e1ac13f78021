package service

import (
	"context"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yourorg/poll-service/internal/apperror"
	"github.com/yourorg/poll-service/internal/events"
	"github.com/yourorg/poll-service/internal/model"
	"github.com/yourorg/poll-service/internal/validator"
)

// PollService manages the poll aggregate: a poll together with its owned
// options and tag attachments, mutated as one transactional unit.
type PollService struct {
	tx         TxRunner
	pollRepo   PollRepository
	optionRepo OptionRepository
	tagRepo    TagRepository
	publisher  EventPublisher
	eventTopic string
	logger     *zap.Logger
}

// NewPollService creates a new poll service
func NewPollService(
	tx TxRunner,
	pollRepo PollRepository,
	optionRepo OptionRepository,
	tagRepo TagRepository,
	publisher EventPublisher,
	eventTopic string,
	logger *zap.Logger,
) *PollService {
	return &PollService{
		tx:         tx,
		pollRepo:   pollRepo,
		optionRepo: optionRepo,
		tagRepo:    tagRepo,
		publisher:  publisher,
		eventTopic: eventTopic,
		logger:     logger,
	}
}

// CreatePoll creates a poll with its options and tags in one transaction.
// Option order follows the payload order; tag attachment goes through the
// reconciler so tag rows are shared across the owner's polls.
func (s *PollService) CreatePoll(ctx context.Context, create *model.PollCreate, ownerUserID int) (*model.Poll, error) {
	if err := validator.ValidatePollCreate(create); err != nil {
		return nil, err
	}

	tagNames, err := validator.NormalizeTagNames(create.Tags)
	if err != nil {
		return nil, err
	}

	var pollID int
	err = s.tx.WithinTx(ctx, func(q sqlx.ExtContext) error {
		poll := &model.Poll{
			Question:    create.Question,
			ExtraInfo:   create.ExtraInfo,
			OwnerUserID: ownerUserID,
		}

		id, err := s.pollRepo.Insert(ctx, q, poll)
		if err != nil {
			return err
		}
		pollID = id

		for i, opt := range create.Options {
			if _, err := s.optionRepo.Insert(ctx, q, pollID, i, opt); err != nil {
				return err
			}
		}

		_, err = reconcileTags(ctx, q, s.tagRepo, pollID, ownerUserID, tagNames)
		return err
	})
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	s.publishPollEvent(ctx, "created", pollID, ownerUserID)

	return s.GetPoll(ctx, pollID)
}

// GetPoll retrieves an active poll fully hydrated with its active options
// and tags.
func (s *PollService) GetPoll(ctx context.Context, id int) (*model.Poll, error) {
	poll, err := s.pollRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if poll == nil {
		return nil, apperror.NewNotFound("poll not found")
	}

	if err := hydratePoll(ctx, s.optionRepo, s.tagRepo, poll); err != nil {
		return nil, apperror.NewInternal(err)
	}

	return poll, nil
}

// UpdatePoll updates scalar fields and, when supplied, replaces the option
// set and reconciles the tag set, all in one transaction. Option identity
// is not preserved across an update: the old set is soft-deleted and the
// new set reinserted. A poll that is missing, deleted, or owned by someone
// else reports not-found.
func (s *PollService) UpdatePoll(ctx context.Context, id int, update *model.PollUpdate, ownerUserID int) (*model.Poll, error) {
	if err := validator.ValidatePollUpdate(update); err != nil {
		return nil, err
	}

	poll, err := s.pollRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if poll == nil || poll.OwnerUserID != ownerUserID {
		return nil, apperror.NewNotFound("poll not found")
	}

	question := poll.Question
	if update.Question != nil {
		question = *update.Question
	}
	extraInfo := poll.ExtraInfo
	if update.ExtraInfo != nil {
		extraInfo = update.ExtraInfo
	}

	var tagNames []string
	if update.Tags != nil {
		tagNames, err = validator.NormalizeTagNames(update.Tags)
		if err != nil {
			return nil, err
		}
	}

	err = s.tx.WithinTx(ctx, func(q sqlx.ExtContext) error {
		// The owner clause on the update is the authoritative check;
		// the read above only produced the merge base.
		ok, err := s.pollRepo.UpdateFields(ctx, q, id, ownerUserID, question, extraInfo)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewNotFound("poll not found")
		}

		if update.Options != nil {
			if err := s.optionRepo.SoftDeleteByPoll(ctx, q, id); err != nil {
				return err
			}
			for i, opt := range update.Options {
				if _, err := s.optionRepo.Insert(ctx, q, id, i, opt); err != nil {
					return err
				}
			}
		}

		if update.Tags != nil {
			keepIDs, err := reconcileTags(ctx, q, s.tagRepo, id, ownerUserID, tagNames)
			if err != nil {
				return err
			}
			if err := s.tagRepo.SoftDeleteMappingsNotIn(ctx, q, id, keepIDs); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, wrapUnlessTyped(err)
	}

	return s.GetPoll(ctx, id)
}

// DeletePoll soft-deletes an owned poll and cascades the soft-delete to
// its options and tag mappings in the same transaction.
func (s *PollService) DeletePoll(ctx context.Context, id, ownerUserID int) error {
	err := s.tx.WithinTx(ctx, func(q sqlx.ExtContext) error {
		ok, err := s.pollRepo.SoftDelete(ctx, q, id, ownerUserID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewNotFound("poll not found")
		}

		if err := s.optionRepo.SoftDeleteByPoll(ctx, q, id); err != nil {
			return err
		}

		return s.tagRepo.SoftDeleteMappingsByPoll(ctx, q, id)
	})
	if err != nil {
		return wrapUnlessTyped(err)
	}

	s.publishPollEvent(ctx, "deleted", id, ownerUserID)

	return nil
}

// ListPolls retrieves active polls, newest first, optionally scoped to an
// owner, each hydrated with options and tags.
func (s *PollService) ListPolls(ctx context.Context, ownerUserID *int, limit, offset int) ([]model.Poll, int, error) {
	limit, offset = clampPage(limit, offset)

	polls, total, err := s.pollRepo.List(ctx, ownerUserID, limit, offset)
	if err != nil {
		return nil, 0, apperror.NewInternal(err)
	}

	if err := hydratePolls(ctx, s.optionRepo, s.tagRepo, polls); err != nil {
		return nil, 0, apperror.NewInternal(err)
	}

	return polls, total, nil
}

// AddOption appends one option to an owned poll.
func (s *PollService) AddOption(ctx context.Context, pollID, ownerUserID int, opt model.OptionCreate) (*model.Option, error) {
	if err := validator.ValidateOption(opt); err != nil {
		return nil, err
	}

	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if poll == nil || poll.OwnerUserID != ownerUserID {
		return nil, apperror.NewNotFound("poll not found")
	}

	var optionID, position int
	err = s.tx.WithinTx(ctx, func(q sqlx.ExtContext) error {
		position, err = s.optionRepo.NextPosition(ctx, q, pollID)
		if err != nil {
			return err
		}
		optionID, err = s.optionRepo.Insert(ctx, q, pollID, position, opt)
		return err
	})
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	return &model.Option{
		ID:         optionID,
		PollID:     pollID,
		Position:   position,
		Text:       opt.Text,
		Confidence: opt.Confidence,
		VoteCount:  0,
		Status:     model.StatusActive,
		CreatedAt:  time.Now(),
	}, nil
}

// DeleteOption soft-deletes one option of an owned poll. Votes already
// cast on the option are kept; its counter is simply frozen.
func (s *PollService) DeleteOption(ctx context.Context, pollID, optionID, ownerUserID int) error {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return apperror.NewInternal(err)
	}
	if poll == nil || poll.OwnerUserID != ownerUserID {
		return apperror.NewNotFound("poll not found")
	}

	err = s.tx.WithinTx(ctx, func(q sqlx.ExtContext) error {
		ok, err := s.optionRepo.SoftDelete(ctx, q, optionID, pollID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewNotFound("option not found")
		}
		return nil
	})
	return wrapUnlessTyped(err)
}

// publishPollEvent emits a poll lifecycle event. Best-effort: failures are
// logged and never surfaced to the caller.
func (s *PollService) publishPollEvent(ctx context.Context, eventType string, pollID, ownerUserID int) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, s.eventTopic, events.Message{
		Key: strconv.Itoa(pollID),
		Value: events.PollEvent{
			Type:        eventType,
			PollID:      pollID,
			OwnerUserID: ownerUserID,
			OccurredAt:  time.Now(),
		},
	})
	if err != nil {
		s.logger.Warn("Failed to publish poll event",
			zap.String("type", eventType),
			zap.Int("poll_id", pollID),
			zap.Error(err))
	}
}
