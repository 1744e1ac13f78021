// Package validator checks poll payloads beyond what binding tags can
// express.
package validator

import (
	"fmt"
	"strings"

	"github.com/yourorg/poll-service/internal/apperror"
	"github.com/yourorg/poll-service/internal/model"
)

const (
	maxQuestionLength   = 500
	maxOptionTextLength = 200
	maxTagNameLength    = 50
	minOptions          = 2
	maxOptions          = 50
)

// ValidatePollCreate validates a poll creation payload.
func ValidatePollCreate(p *model.PollCreate) error {
	if err := validateQuestion(p.Question); err != nil {
		return err
	}
	if err := validateOptions(p.Options); err != nil {
		return err
	}
	_, err := NormalizeTagNames(p.Tags)
	return err
}

// ValidatePollUpdate validates a poll update payload. Nil fields are
// "leave unchanged" and skipped.
func ValidatePollUpdate(p *model.PollUpdate) error {
	if p.Question != nil {
		if err := validateQuestion(*p.Question); err != nil {
			return err
		}
	}
	if p.Options != nil {
		if err := validateOptions(p.Options); err != nil {
			return err
		}
	}
	if p.Tags != nil {
		if _, err := NormalizeTagNames(p.Tags); err != nil {
			return err
		}
	}
	return nil
}

// NormalizeTagNames trims tag names, rejects empty ones and drops
// duplicates while preserving first-seen order. This is the single place
// tag names are normalized; comparison everywhere else is exact.
func NormalizeTagNames(names []string) ([]string, error) {
	normalized := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, apperror.NewValidation("tag name cannot be empty")
		}
		if len(name) > maxTagNameLength {
			return nil, apperror.NewValidation(fmt.Sprintf("tag name cannot exceed %d characters", maxTagNameLength))
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		normalized = append(normalized, name)
	}

	return normalized, nil
}

// ValidateOption validates a single option payload.
func ValidateOption(opt model.OptionCreate) error {
	if strings.TrimSpace(opt.Text) == "" {
		return apperror.NewValidation("option text cannot be empty")
	}
	if len(opt.Text) > maxOptionTextLength {
		return apperror.NewValidation(fmt.Sprintf("option text cannot exceed %d characters", maxOptionTextLength))
	}
	if opt.Confidence != nil && (*opt.Confidence < 0 || *opt.Confidence > 1) {
		return apperror.NewValidation("option confidence must be between 0 and 1")
	}
	return nil
}

func validateQuestion(question string) error {
	if strings.TrimSpace(question) == "" {
		return apperror.NewValidation("poll question cannot be empty")
	}
	if len(question) > maxQuestionLength {
		return apperror.NewValidation(fmt.Sprintf("poll question cannot exceed %d characters", maxQuestionLength))
	}
	return nil
}

func validateOptions(options []model.OptionCreate) error {
	if len(options) < minOptions {
		return apperror.NewValidation(fmt.Sprintf("a poll needs at least %d options", minOptions))
	}
	if len(options) > maxOptions {
		return apperror.NewValidation(fmt.Sprintf("a poll cannot have more than %d options", maxOptions))
	}
	for _, opt := range options {
		if err := ValidateOption(opt); err != nil {
			return err
		}
	}
	return nil
}
