package usecase

// Shapes of the FACEIT Data API v4 resources the aggregators read.

// A missing or null items list is malformed; an empty list is a valid idle hub.
type hubMatchesPayload struct {
	Items []hubMatchItem `json:"items" validate:"required"`
}

type hubMatchItem struct {
	Teams struct {
		Faction1 hubFaction `json:"faction1"`
		Faction2 hubFaction `json:"faction2"`
	} `json:"teams"`
	Results struct {
		Score struct {
			Faction1 int `json:"faction1"`
			Faction2 int `json:"faction2"`
		} `json:"score"`
	} `json:"results"`
}

type hubFaction struct {
	Name string `json:"name"`
}

type hubLeaderboardsPayload struct {
	Items []hubLeaderboardItem `json:"items" validate:"dive"`
}

type hubLeaderboardItem struct {
	LeaderboardID string `json:"leaderboard_id" validate:"required"`
}

type leaderboardPayload struct {
	Leaderboard *leaderboardInfo         `json:"leaderboard" validate:"required"`
	Items       []leaderboardRankingItem `json:"items" validate:"required"`
}

type leaderboardInfo struct {
	LeaderboardName string `json:"leaderboard_name" validate:"required"`
}

type leaderboardRankingItem struct {
	Position int `json:"position"`
	Player   struct {
		Nickname string `json:"nickname"`
	} `json:"player"`
	Won     int     `json:"won"`
	Played  int     `json:"played"`
	WinRate float64 `json:"win_rate"`
	Points  int     `json:"points"`
}
