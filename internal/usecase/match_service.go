package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/faceit-hub-bot/internal/domain/division"
	"github.com/riskibarqy/faceit-hub-bot/internal/domain/match"
	"github.com/riskibarqy/faceit-hub-bot/internal/platform/logging"
)

// MatchService reports ongoing matches across every registered division.
type MatchService struct {
	fetcher     HubResourceFetcher
	registry    *division.Registry
	concurrency int
	logger      *logging.Logger
}

func NewMatchService(fetcher HubResourceFetcher, registry *division.Registry, cfg AggregationConfig, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		fetcher:     fetcher,
		registry:    registry,
		concurrency: cfg.FetchConcurrency,
		logger:      logger,
	}
}

// CollectOngoingMatches returns display lines grouped by division in registry
// order. Divisions whose fetch fails contribute nothing.
func (s *MatchService) CollectOngoingMatches(ctx context.Context) (lines []string) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.CollectOngoingMatches")
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.ErrorContext(ctx, "could not get ongoing matches",
				"error", fmt.Errorf("%w: %v", ErrAggregateFailure, rec),
			)
			lines = []string{}
		}
	}()

	perDivision := fanOut(s.registry.All(), s.concurrency, func(item division.Division) []string {
		return s.collectDivision(ctx, item)
	})

	lines = make([]string, 0, len(perDivision)*2)
	for _, divisionLines := range perDivision {
		lines = append(lines, divisionLines...)
	}
	return lines
}

func (s *MatchService) collectDivision(ctx context.Context, item division.Division) []string {
	matches, err := s.fetchOngoing(ctx, item)
	if err != nil {
		s.logger.WarnContext(ctx, "skip division ongoing matches",
			"division", item.Label,
			"hub_id", item.HubID,
			"error", err,
		)
		return nil
	}

	if len(matches) == 0 {
		return []string{match.NoneLine(item.Label)}
	}

	out := make([]string, 0, len(matches)+1)
	out = append(out, match.HeaderLine(len(matches), item.Label))
	for _, m := range matches {
		out = append(out, m.Line())
	}
	return out
}

func (s *MatchService) fetchOngoing(ctx context.Context, item division.Division) ([]match.Match, error) {
	endpoint := fmt.Sprintf("hubs/%s/matches", item.HubID)
	outcome := s.fetcher.Fetch(ctx, endpoint, map[string]string{"type": "ongoing"})
	payload, err := DecodeOutcome[hubMatchesPayload](outcome)
	if err != nil {
		return nil, err
	}

	out := make([]match.Match, 0, len(payload.Items))
	for _, raw := range payload.Items {
		out = append(out, match.Match{
			Faction1Name: raw.Teams.Faction1.Name,
			Faction2Name: raw.Teams.Faction2.Name,
			Score1:       raw.Results.Score.Faction1,
			Score2:       raw.Results.Score.Faction2,
		})
	}
	return out, nil
}
