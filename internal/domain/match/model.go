package match

import "fmt"

// Match is one ongoing hub match, normalized from the upstream payload.
type Match struct {
	Faction1Name string
	Faction2Name string
	Score1       int
	Score2       int
}

// Line renders the match as a single chat line.
func (m Match) Line() string {
	return fmt.Sprintf("%s [%d] vs. %s [%d]", m.Faction1Name, m.Score1, m.Faction2Name, m.Score2)
}

func HeaderLine(count int, divisionLabel string) string {
	return fmt.Sprintf("%d %s matches", count, divisionLabel)
}

func NoneLine(divisionLabel string) string {
	return fmt.Sprintf("No ongoing %s matches", divisionLabel)
}
