package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
)

type stubResponse struct {
	body  string
	kind  FailureKind
	panic bool
}

// stubFetcher answers by endpoint and records every call.
type stubFetcher struct {
	mu        sync.Mutex
	responses map[string]stubResponse
	calls     []string
	queries   map[string]map[string]string
}

func newStubFetcher(responses map[string]stubResponse) *stubFetcher {
	return &stubFetcher{
		responses: responses,
		queries:   make(map[string]map[string]string),
	}
}

func (f *stubFetcher) Fetch(_ context.Context, endpoint string, query map[string]string) FetchOutcome {
	f.mu.Lock()
	f.calls = append(f.calls, endpoint)
	f.queries[endpoint] = query
	resp, ok := f.responses[endpoint]
	f.mu.Unlock()

	if !ok {
		return FetchFailure(endpoint, FailureStatus, errors.New("provider status=404"))
	}
	if resp.panic {
		panic("unexpected payload shape for " + endpoint)
	}
	if resp.kind != "" {
		return FetchFailure(endpoint, resp.kind, errors.New("stub failure"))
	}
	return FetchSuccess(endpoint, []byte(resp.body))
}

func (f *stubFetcher) calledEndpoints() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.calls...)
	sort.Strings(out)
	return out
}

func (f *stubFetcher) queryFor(endpoint string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[endpoint]
}
