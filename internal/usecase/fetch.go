package usecase

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
)

// HubResourceFetcher reads one upstream resource. Implementations never return
// a bare error: every failure comes back as a failed FetchOutcome.
type HubResourceFetcher interface {
	Fetch(ctx context.Context, endpoint string, query map[string]string) FetchOutcome
}

type FailureKind string

const (
	FailureInvalidRequest FailureKind = "invalid_request"
	FailureTransport      FailureKind = "transport"
	FailureStatus         FailureKind = "status"
	FailureMalformed      FailureKind = "malformed"
	FailureUnavailable    FailureKind = "unavailable"
)

// FetchOutcome is either a success carrying the raw JSON body or a failure
// carrying its kind and cause.
type FetchOutcome struct {
	Endpoint string
	body     []byte
	kind     FailureKind
	cause    error
}

func FetchSuccess(endpoint string, body []byte) FetchOutcome {
	return FetchOutcome{Endpoint: endpoint, body: body}
}

func FetchFailure(endpoint string, kind FailureKind, cause error) FetchOutcome {
	if cause == nil {
		cause = fmt.Errorf("unknown failure")
	}
	return FetchOutcome{Endpoint: endpoint, kind: kind, cause: cause}
}

func (o FetchOutcome) OK() bool { return o.cause == nil }

func (o FetchOutcome) Body() []byte { return o.body }

func (o FetchOutcome) Kind() FailureKind { return o.kind }

// Err returns nil on success; otherwise an error matching the sentinel for the
// failure kind and wrapping the underlying cause.
func (o FetchOutcome) Err() error {
	if o.OK() {
		return nil
	}
	return fmt.Errorf("fetch %s: %w: %w", o.Endpoint, sentinelFor(o.kind), o.cause)
}

func sentinelFor(kind FailureKind) error {
	switch kind {
	case FailureInvalidRequest:
		return ErrInvalidInput
	case FailureStatus:
		return ErrUpstreamStatus
	case FailureMalformed:
		return ErrMalformedResponse
	case FailureUnavailable:
		return ErrDependencyUnavailable
	default:
		return ErrTransport
	}
}

var payloadValidator = validator.New()

// DecodeOutcome converts a successful outcome into a typed, validated payload.
// A failed outcome is returned as its error; a body that does not fit T is
// reported as ErrMalformedResponse.
func DecodeOutcome[T any](outcome FetchOutcome) (T, error) {
	var out T
	if !outcome.OK() {
		return out, outcome.Err()
	}
	if err := sonic.Unmarshal(outcome.Body(), &out); err != nil {
		return out, fmt.Errorf("%w: decode %s: %v", ErrMalformedResponse, outcome.Endpoint, err)
	}
	if err := payloadValidator.Struct(out); err != nil {
		return out, fmt.Errorf("%w: validate %s: %v", ErrMalformedResponse, outcome.Endpoint, err)
	}
	return out, nil
}
