package leaderboard

// Entry is one ranked player row on a hub leaderboard.
type Entry struct {
	Position int
	Nickname string
	Wins     int
	Played   int
	WinRate  float64
	Points   int
}

// Snapshot is a point-in-time ranking for one division. It is immutable once
// built: the constructor and Entries both copy.
type Snapshot struct {
	divisionLabel string
	boardName     string
	entries       []Entry
}

func NewSnapshot(divisionLabel, boardName string, entries []Entry) Snapshot {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return Snapshot{
		divisionLabel: divisionLabel,
		boardName:     boardName,
		entries:       out,
	}
}

func (s Snapshot) DivisionLabel() string { return s.divisionLabel }

func (s Snapshot) BoardName() string { return s.boardName }

func (s Snapshot) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s Snapshot) Len() int { return len(s.entries) }

// Leaderboards maps division labels to snapshots, iterating in the order the
// snapshots were added. Only divisions whose every fetch succeeded are present.
type Leaderboards struct {
	order   []string
	byLabel map[string]Snapshot
}

func NewLeaderboards(snapshots ...Snapshot) Leaderboards {
	out := Leaderboards{
		order:   make([]string, 0, len(snapshots)),
		byLabel: make(map[string]Snapshot, len(snapshots)),
	}
	for _, item := range snapshots {
		label := item.DivisionLabel()
		if _, exists := out.byLabel[label]; exists {
			continue
		}
		out.order = append(out.order, label)
		out.byLabel[label] = item
	}
	return out
}

func (l Leaderboards) Len() int { return len(l.order) }

func (l Leaderboards) Labels() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

func (l Leaderboards) Get(label string) (Snapshot, bool) {
	item, ok := l.byLabel[label]
	return item, ok
}

func (l Leaderboards) All() []Snapshot {
	out := make([]Snapshot, 0, len(l.order))
	for _, label := range l.order {
		out = append(out, l.byLabel[label])
	}
	return out
}
