package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/faceit-hub-bot/internal/domain/division"
	"github.com/riskibarqy/faceit-hub-bot/internal/domain/leaderboard"
	"github.com/riskibarqy/faceit-hub-bot/internal/platform/logging"
)

const (
	hubLeaderboardLookupLimit = "1"
	leaderboardEntryLimit     = "20"
)

// LeaderboardService builds one leaderboard snapshot per division.
//
// FACEIT does not expose a hub's leaderboard directly: the id is discovered
// from the hub's leaderboard listing first, then the ranking is fetched.
type LeaderboardService struct {
	fetcher     HubResourceFetcher
	registry    *division.Registry
	concurrency int
	logger      *logging.Logger
}

func NewLeaderboardService(fetcher HubResourceFetcher, registry *division.Registry, cfg AggregationConfig, logger *logging.Logger) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeaderboardService{
		fetcher:     fetcher,
		registry:    registry,
		concurrency: cfg.FetchConcurrency,
		logger:      logger,
	}
}

type resolvedBoard struct {
	division      division.Division
	leaderboardID string
	ok            bool
}

type fetchedBoard struct {
	snapshot leaderboard.Snapshot
	ok       bool
}

// CollectLeaderboards returns snapshots keyed by division label in registry
// order. A division that fails either phase is absent. An empty result means
// there is nothing to report.
func (s *LeaderboardService) CollectLeaderboards(ctx context.Context) leaderboard.Leaderboards {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.CollectLeaderboards")
	defer span.End()

	snapshots, err := s.collect(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "could not retrieve leaderboard data", "error", err)
		return leaderboard.NewLeaderboards()
	}
	return leaderboard.NewLeaderboards(snapshots...)
}

func (s *LeaderboardService) collect(ctx context.Context) (snapshots []leaderboard.Snapshot, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			snapshots = nil
			err = fmt.Errorf("%w: %v", ErrAggregateFailure, rec)
		}
	}()

	resolved := fanOut(s.registry.All(), s.concurrency, func(item division.Division) resolvedBoard {
		return s.resolve(ctx, item)
	})

	pending := make([]resolvedBoard, 0, len(resolved))
	for _, item := range resolved {
		if item.ok {
			pending = append(pending, item)
		}
	}

	fetched := fanOut(pending, s.concurrency, func(item resolvedBoard) fetchedBoard {
		return s.fetchBoard(ctx, item)
	})

	snapshots = make([]leaderboard.Snapshot, 0, len(fetched))
	for _, item := range fetched {
		if item.ok {
			snapshots = append(snapshots, item.snapshot)
		}
	}
	return snapshots, nil
}

func (s *LeaderboardService) resolve(ctx context.Context, item division.Division) resolvedBoard {
	endpoint := fmt.Sprintf("leaderboards/hubs/%s", item.HubID)
	outcome := s.fetcher.Fetch(ctx, endpoint, map[string]string{"limit": hubLeaderboardLookupLimit})
	payload, err := DecodeOutcome[hubLeaderboardsPayload](outcome)
	leaderboardID := ""
	if err == nil {
		if len(payload.Items) == 0 {
			err = fmt.Errorf("%w: hub %s lists no leaderboards", ErrMalformedResponse, item.HubID)
		} else if leaderboardID = strings.TrimSpace(payload.Items[0].LeaderboardID); leaderboardID == "" {
			err = fmt.Errorf("%w: hub %s leaderboard id is blank", ErrMalformedResponse, item.HubID)
		}
	}
	if err != nil {
		s.logger.WarnContext(ctx, "skip division leaderboard: could not resolve leaderboard id",
			"division", item.Label,
			"hub_id", item.HubID,
			"error", err,
		)
		return resolvedBoard{division: item}
	}

	return resolvedBoard{
		division:      item,
		leaderboardID: leaderboardID,
		ok:            true,
	}
}

func (s *LeaderboardService) fetchBoard(ctx context.Context, item resolvedBoard) fetchedBoard {
	endpoint := fmt.Sprintf("leaderboards/%s", item.leaderboardID)
	outcome := s.fetcher.Fetch(ctx, endpoint, map[string]string{"limit": leaderboardEntryLimit})
	payload, err := DecodeOutcome[leaderboardPayload](outcome)
	if err != nil {
		s.logger.WarnContext(ctx, "skip division leaderboard: could not fetch ranking",
			"division", item.division.Label,
			"leaderboard_id", item.leaderboardID,
			"error", err,
		)
		return fetchedBoard{}
	}

	entries := make([]leaderboard.Entry, 0, len(payload.Items))
	for _, raw := range payload.Items {
		entries = append(entries, leaderboard.Entry{
			Position: raw.Position,
			Nickname: raw.Player.Nickname,
			Wins:     raw.Won,
			Played:   raw.Played,
			WinRate:  raw.WinRate,
			Points:   raw.Points,
		})
	}

	return fetchedBoard{
		snapshot: leaderboard.NewSnapshot(item.division.Label, payload.Leaderboard.LeaderboardName, entries),
		ok:       true,
	}
}
