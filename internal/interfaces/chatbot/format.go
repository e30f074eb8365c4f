package chatbot

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/riskibarqy/faceit-hub-bot/internal/domain/leaderboard"
	"github.com/valyala/bytebufferpool"
)

const codeFence = "```"

// FormatMatchReport returns the match lines as chat messages, one per line.
func FormatMatchReport(lines []string) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}

// FormatLeaderboard renders a snapshot as two chat messages: a header naming the
// division and board, and a fenced block with one line per entry.
func FormatLeaderboard(label string, snapshot leaderboard.Snapshot) []string {
	header := fmt.Sprintf("%s: %s", label, snapshot.BoardName())

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(codeFence)
	for _, entry := range snapshot.Entries() {
		_ = buf.WriteByte('\n')
		_, _ = buf.WriteString(formatEntry(entry))
	}
	_ = buf.WriteByte('\n')
	_, _ = buf.WriteString(codeFence)

	return []string{header, buf.String()}
}

func formatEntry(entry leaderboard.Entry) string {
	return fmt.Sprintf("( %d ) %s has won %d/%d (%d%%) of their matches [%d points]",
		entry.Position,
		entry.Nickname,
		entry.Wins,
		entry.Played,
		winRatePercent(entry.WinRate),
		entry.Points,
	)
}

// winRatePercent rounds rate*100 half-up. The product is snapped to 1e-6 first
// so that 0.005 and 0.995 land on .5 instead of just below it.
func winRatePercent(rate float64) int {
	if math.IsNaN(rate) {
		return 0
	}
	rate = math.Max(0, math.Min(1, rate))
	pct := math.Round(rate*100*1e6) / 1e6
	return int(math.Floor(pct + 0.5))
}

// ParsedEntry is a leaderboard line read back from a rendered block.
type ParsedEntry struct {
	Position       int
	Nickname       string
	Wins           int
	Played         int
	WinRatePercent int
	Points         int
}

var entryLinePattern = regexp.MustCompile(`^\( (-?\d+) \) (.*) has won (-?\d+)/(-?\d+) \((\d+)%\) of their matches \[(-?\d+) points\]$`)

// ParseLeaderboardBlock reads the fenced block produced by FormatLeaderboard.
func ParseLeaderboardBlock(block string) ([]ParsedEntry, error) {
	lines := strings.Split(block, "\n")
	if len(lines) < 2 || lines[0] != codeFence || lines[len(lines)-1] != codeFence {
		return nil, fmt.Errorf("leaderboard block must be fenced with %s", codeFence)
	}

	out := make([]ParsedEntry, 0, len(lines)-2)
	for i, line := range lines[1 : len(lines)-1] {
		m := entryLinePattern.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("line %d: unrecognized leaderboard entry %q", i+1, line)
		}
		nums := make([]int, 0, 5)
		for _, raw := range []string{m[1], m[3], m[4], m[5], m[6]} {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: parse %q: %w", i+1, raw, err)
			}
			nums = append(nums, v)
		}
		out = append(out, ParsedEntry{
			Position:       nums[0],
			Nickname:       m[2],
			Wins:           nums[1],
			Played:         nums[2],
			WinRatePercent: nums[3],
			Points:         nums[4],
		})
	}
	return out, nil
}
