package service

import (
	"context"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yourorg/poll-service/internal/apperror"
	"github.com/yourorg/poll-service/internal/events"
)

// VoteService records votes and keeps the denormalized per-option
// counters consistent. Policy: one active vote per voter per poll, last
// vote wins; an option's vote_count equals its number of active votes.
type VoteService struct {
	tx         TxRunner
	optionRepo OptionRepository
	voteRepo   VoteRepository
	publisher  EventPublisher
	eventTopic string
	logger     *zap.Logger
}

// NewVoteService creates a new vote service
func NewVoteService(
	tx TxRunner,
	optionRepo OptionRepository,
	voteRepo VoteRepository,
	publisher EventPublisher,
	eventTopic string,
	logger *zap.Logger,
) *VoteService {
	return &VoteService{
		tx:         tx,
		optionRepo: optionRepo,
		voteRepo:   voteRepo,
		publisher:  publisher,
		eventTopic: eventTopic,
		logger:     logger,
	}
}

// Vote casts a vote for an option. Supersedes the voter's prior active
// vote on the poll and decrements that option's counter, inserts the new
// vote and increments its option's counter, all in one transaction.
// Counter changes are relative server-side adjustments only.
func (s *VoteService) Vote(ctx context.Context, pollID, optionID, voterUserID int) error {
	var superseded *int

	err := s.tx.WithinTx(ctx, func(q sqlx.ExtContext) error {
		option, err := s.optionRepo.GetActiveWithPoll(ctx, q, optionID)
		if err != nil {
			return err
		}
		if option == nil {
			return apperror.NewNotFound("option not found")
		}
		if option.PollID != pollID {
			return apperror.NewValidation("option does not belong to this poll")
		}

		prevOptionID, found, err := s.voteRepo.SupersedeActive(ctx, q, pollID, voterUserID)
		if err != nil {
			return err
		}
		if found {
			if err := s.optionRepo.DecrementCount(ctx, q, prevOptionID); err != nil {
				return err
			}
			superseded = &prevOptionID
		}

		if _, err := s.voteRepo.Insert(ctx, q, pollID, optionID, voterUserID); err != nil {
			return err
		}

		return s.optionRepo.IncrementCount(ctx, q, optionID)
	})
	if err != nil {
		return wrapUnlessTyped(err)
	}

	s.publishVoteEvent(ctx, pollID, optionID, voterUserID, superseded)

	return nil
}

// publishVoteEvent emits a vote event. Best-effort: failures are logged
// and never surfaced to the voter.
func (s *VoteService) publishVoteEvent(ctx context.Context, pollID, optionID, voterUserID int, superseded *int) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, s.eventTopic, events.Message{
		Key: strconv.Itoa(pollID),
		Value: events.VoteEvent{
			PollID:           pollID,
			OptionID:         optionID,
			VoterUserID:      voterUserID,
			SupersededOption: superseded,
			OccurredAt:       time.Now(),
		},
	})
	if err != nil {
		s.logger.Warn("Failed to publish vote event",
			zap.Int("poll_id", pollID),
			zap.Int("option_id", optionID),
			zap.Error(err))
	}
}
