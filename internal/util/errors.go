package util

import "errors"

var (
	ErrInvalidGranularity = errors.New("invalid groupBy parameter")
	ErrInvalidPeriod      = errors.New("invalid period parameter")
	ErrInvalidThreshold   = errors.New("threshold must be between 0 and 1")
	ErrInvalidOrigin      = errors.New("generated_from must be ai or human")
)
