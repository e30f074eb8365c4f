package match

import "testing"

func TestMatchLines(t *testing.T) {
	t.Parallel()

	m := Match{Faction1Name: "team_alpha", Faction2Name: "team_bravo", Score1: 7, Score2: 13}
	if got := m.Line(); got != "team_alpha [7] vs. team_bravo [13]" {
		t.Fatalf("unexpected match line: %q", got)
	}
	if got := HeaderLine(2, "Division 1"); got != "2 Division 1 matches" {
		t.Fatalf("unexpected header: %q", got)
	}
	if got := NoneLine("CL"); got != "No ongoing CL matches" {
		t.Fatalf("unexpected none line: %q", got)
	}
}
