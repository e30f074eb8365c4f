package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrTransport             = errors.New("upstream transport failure")
	ErrUpstreamStatus        = errors.New("upstream returned non-success status")
	ErrMalformedResponse     = errors.New("malformed upstream response")
	ErrAggregateFailure      = errors.New("aggregation failed")
)
