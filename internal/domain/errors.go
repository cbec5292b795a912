package domain

import "errors"

var (
	ErrEmptyIdea         = errors.New("idea is required")
	ErrGenerationTimeout = errors.New("generation timed out")
	ErrGenerationFailure = errors.New("generation failure")
)
