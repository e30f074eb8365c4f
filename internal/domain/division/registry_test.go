package division

import (
	"errors"
	"testing"
)

func TestNewRegistry_PreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry([]Division{
		{Label: "Division 2", HubID: "h2"},
		{Label: "PL", HubID: "h0"},
		{Label: " CL ", HubID: " h1 "},
	})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	got := registry.All()
	want := []string{"Division 2", "PL", "CL"}
	if len(got) != len(want) {
		t.Fatalf("unexpected division count: got=%d want=%d", len(got), len(want))
	}
	for i, label := range want {
		if got[i].Label != label {
			t.Fatalf("unexpected label at %d: got=%q want=%q", i, got[i].Label, label)
		}
	}
	if got[2].HubID != "h1" {
		t.Fatalf("expected trimmed hub id, got=%q", got[2].HubID)
	}
}

func TestNewRegistry_RejectsDuplicateLabels(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry([]Division{
		{Label: "PL", HubID: "h1"},
		{Label: "PL", HubID: "h2"},
	})
	if !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("expected ErrDuplicateLabel, got %v", err)
	}
}

func TestNewRegistry_RejectsInvalidEntries(t *testing.T) {
	t.Parallel()

	cases := map[string][]Division{
		"empty":      nil,
		"blank hub":  {{Label: "PL", HubID: "  "}},
		"blank name": {{Label: "", HubID: "h1"}},
	}
	for name, divisions := range cases {
		if _, err := NewRegistry(divisions); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestRegistry_AllReturnsCopy(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry(DefaultDivisions())
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	first := registry.All()
	first[0].Label = "mutated"

	if got := registry.All()[0].Label; got != "PL" {
		t.Fatalf("registry mutated through All(): got=%q", got)
	}
	if registry.Len() != 4 {
		t.Fatalf("expected 4 default divisions, got %d", registry.Len())
	}
}
