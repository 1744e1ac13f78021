package service

import (
	"errors"

	"github.com/yourorg/poll-service/internal/apperror"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// clampPage applies the default and maximum page size and floors the offset.
func clampPage(limit, offset int) (int, int) {
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// wrapUnlessTyped passes typed domain errors through untouched and wraps
// anything else as internal.
func wrapUnlessTyped(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.NewInternal(err)
}
