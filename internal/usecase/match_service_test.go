package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/faceit-hub-bot/internal/domain/division"
	"github.com/riskibarqy/faceit-hub-bot/internal/platform/logging"
)

func mustRegistry(t *testing.T, items ...division.Division) *division.Registry {
	t.Helper()
	registry, err := division.NewRegistry(items)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return registry
}

func ongoingBody(matches ...[4]any) string {
	body := `{"items":[`
	for i, m := range matches {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"teams":{"faction1":{"name":%q},"faction2":{"name":%q}},"results":{"score":{"faction1":%d,"faction2":%d}}}`, m[0], m[1], m[2], m[3])
	}
	return body + `]}`
}

func TestMatchService_CollectOngoingMatches_SkipsFailedDivision(t *testing.T) {
	t.Parallel()

	registry := mustRegistry(t,
		division.Division{Label: "A", HubID: "hub-a"},
		division.Division{Label: "B", HubID: "hub-b"},
	)
	fetcher := newStubFetcher(map[string]stubResponse{
		"hubs/hub-a/matches": {body: ongoingBody([4]any{"Team X", "Team Y", 16, 10})},
		"hubs/hub-b/matches": {kind: FailureTransport},
	})

	service := NewMatchService(fetcher, registry, AggregationConfig{}, logging.NewNop())
	got := service.CollectOngoingMatches(context.Background())

	want := []string{"1 A matches", "Team X [16] vs. Team Y [10]"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
	if q := fetcher.queryFor("hubs/hub-a/matches"); q["type"] != "ongoing" {
		t.Fatalf("expected type=ongoing query, got %v", q)
	}
}

func TestMatchService_CollectOngoingMatches_NoneLineForIdleDivision(t *testing.T) {
	t.Parallel()

	registry := mustRegistry(t,
		division.Division{Label: "PL", HubID: "hub-pl"},
		division.Division{Label: "CL", HubID: "hub-cl"},
	)
	fetcher := newStubFetcher(map[string]stubResponse{
		"hubs/hub-pl/matches": {body: `{"items":[]}`},
		"hubs/hub-cl/matches": {body: ongoingBody(
			[4]any{"team_alpha", "team_beta", 3, 7},
			[4]any{"team_gamma", "team_delta", 0, 0},
		)},
	})

	service := NewMatchService(fetcher, registry, AggregationConfig{}, logging.NewNop())
	got := service.CollectOngoingMatches(context.Background())

	want := []string{
		"No ongoing PL matches",
		"2 CL matches",
		"team_alpha [3] vs. team_beta [7]",
		"team_gamma [0] vs. team_delta [0]",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
}

func TestMatchService_CollectOngoingMatches_MalformedBodySkipsDivision(t *testing.T) {
	t.Parallel()

	registry := mustRegistry(t,
		division.Division{Label: "A", HubID: "hub-a"},
		division.Division{Label: "B", HubID: "hub-b"},
	)
	fetcher := newStubFetcher(map[string]stubResponse{
		"hubs/hub-a/matches": {body: `{"items":"not-a-list"}`},
		"hubs/hub-b/matches": {body: `{"items":[]}`},
	})

	service := NewMatchService(fetcher, registry, AggregationConfig{}, logging.NewNop())
	got := service.CollectOngoingMatches(context.Background())

	want := []string{"No ongoing B matches"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
}

func TestMatchService_CollectOngoingMatches_MissingItemsIsMalformed(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{}`, `null`, `{"items":null}`} {
		registry := mustRegistry(t,
			division.Division{Label: "A", HubID: "hub-a"},
			division.Division{Label: "B", HubID: "hub-b"},
		)
		fetcher := newStubFetcher(map[string]stubResponse{
			"hubs/hub-a/matches": {body: body},
			"hubs/hub-b/matches": {body: `{"items":[]}`},
		})

		service := NewMatchService(fetcher, registry, AggregationConfig{}, logging.NewNop())
		got := service.CollectOngoingMatches(context.Background())

		want := []string{"No ongoing B matches"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("body %s: unexpected lines (-want +got):\n%s", body, diff)
		}
	}
}

func TestMatchService_CollectOngoingMatches_AllFailedIsEmpty(t *testing.T) {
	t.Parallel()

	registry := mustRegistry(t, division.Division{Label: "A", HubID: "hub-a"})
	fetcher := newStubFetcher(map[string]stubResponse{
		"hubs/hub-a/matches": {kind: FailureUnavailable},
	})

	service := NewMatchService(fetcher, registry, AggregationConfig{}, logging.NewNop())
	got := service.CollectOngoingMatches(context.Background())
	if len(got) != 0 {
		t.Fatalf("expected no lines, got %v", got)
	}
}

func TestMatchService_CollectOngoingMatches_ParallelKeepsRegistryOrder(t *testing.T) {
	t.Parallel()

	items := make([]division.Division, 0, 6)
	responses := make(map[string]stubResponse, 6)
	want := make([]string, 0, 12)
	for i := 0; i < 6; i++ {
		label := fmt.Sprintf("D%d", i)
		hubID := fmt.Sprintf("hub-%d", i)
		items = append(items, division.Division{Label: label, HubID: hubID})
		responses["hubs/"+hubID+"/matches"] = stubResponse{body: ongoingBody([4]any{"home" + label, "away" + label, i, i + 1})}
		want = append(want,
			fmt.Sprintf("1 %s matches", label),
			fmt.Sprintf("home%s [%d] vs. away%s [%d]", label, i, label, i+1),
		)
	}

	service := NewMatchService(newStubFetcher(responses), mustRegistry(t, items...), AggregationConfig{FetchConcurrency: 4}, logging.NewNop())
	got := service.CollectOngoingMatches(context.Background())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
}

func TestMatchService_CollectOngoingMatches_RecoversFromPanic(t *testing.T) {
	t.Parallel()

	registry := mustRegistry(t,
		division.Division{Label: "A", HubID: "hub-a"},
		division.Division{Label: "B", HubID: "hub-b"},
	)
	fetcher := newStubFetcher(map[string]stubResponse{
		"hubs/hub-a/matches": {body: ongoingBody([4]any{"Team X", "Team Y", 1, 0})},
		"hubs/hub-b/matches": {panic: true},
	})

	service := NewMatchService(fetcher, registry, AggregationConfig{}, logging.NewNop())
	got := service.CollectOngoingMatches(context.Background())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result after panic, got %#v", got)
	}
}
