package service

import (
	"context"

	"github.com/yourorg/poll-service/internal/model"
)

// hydratePoll attaches the active options (in display order) and active
// tags to a single poll.
func hydratePoll(ctx context.Context, optionRepo OptionRepository, tagRepo TagRepository, poll *model.Poll) error {
	options, err := optionRepo.ListByPoll(ctx, poll.ID)
	if err != nil {
		return err
	}

	tags, err := tagRepo.ListByPoll(ctx, poll.ID)
	if err != nil {
		return err
	}

	poll.Options = options
	poll.Tags = tags
	if poll.Options == nil {
		poll.Options = []model.Option{}
	}
	if poll.Tags == nil {
		poll.Tags = []model.Tag{}
	}

	return nil
}

// hydratePolls attaches options and tags to a slice of polls with two
// batched queries, keeping the slice order untouched.
func hydratePolls(ctx context.Context, optionRepo OptionRepository, tagRepo TagRepository, polls []model.Poll) error {
	if len(polls) == 0 {
		return nil
	}

	ids := make([]int, len(polls))
	for i, p := range polls {
		ids[i] = p.ID
	}

	optionsByPoll, err := optionRepo.ListByPolls(ctx, ids)
	if err != nil {
		return err
	}

	tagsByPoll, err := tagRepo.ListByPolls(ctx, ids)
	if err != nil {
		return err
	}

	for i := range polls {
		polls[i].Options = optionsByPoll[polls[i].ID]
		polls[i].Tags = tagsByPoll[polls[i].ID]
		if polls[i].Options == nil {
			polls[i].Options = []model.Option{}
		}
		if polls[i].Tags == nil {
			polls[i].Tags = []model.Tag{}
		}
	}

	return nil
}
