package chatbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/faceit-hub-bot/internal/domain/leaderboard"
	"github.com/riskibarqy/faceit-hub-bot/internal/platform/id"
	"github.com/riskibarqy/faceit-hub-bot/internal/platform/logging"
	"github.com/riskibarqy/faceit-hub-bot/internal/platform/metrics"
	"go.opentelemetry.io/otel/attribute"
)

const (
	CommandPing        = "!ping"
	CommandMatches     = "!matches"
	CommandLeaderboard = "!leaderboard"

	pongReply              = "Pong!"
	matchesStatusLine      = "=> Checking for ongoing matches..."
	matchesFailureLine     = "Could not retrieve current matches..."
	leaderboardFailureLine = "Could not retrieve hub leaderboards!"
	commandResultOK        = "ok"
	commandResultEmpty     = "empty"
	commandResultSendFail  = "send_error"
)

// MessageSender posts one message to a chat channel.
type MessageSender interface {
	Send(ctx context.Context, channelID, content string) error
}

type MatchCollector interface {
	CollectOngoingMatches(ctx context.Context) []string
}

type LeaderboardCollector interface {
	CollectLeaderboards(ctx context.Context) leaderboard.Leaderboards
}

// SessionSender sends through a live Discord session.
type SessionSender struct {
	Session *discordgo.Session
}

func (s SessionSender) Send(ctx context.Context, channelID, content string) error {
	_, err := s.Session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	return err
}

type DispatcherConfig struct {
	Matches      MatchCollector
	Leaderboards LeaderboardCollector
	Pool         *ants.Pool
	Metrics      *metrics.CommandMetrics
	IDs          id.Generator
	Logger       *logging.Logger
}

// commandFunc reports whether it had anything to show and the first send error.
type commandFunc func(ctx context.Context, sender MessageSender, channelID string) (bool, error)

// Dispatcher routes exact-match chat commands to their handlers.
type Dispatcher struct {
	matches      MatchCollector
	leaderboards LeaderboardCollector
	pool         *ants.Pool
	metrics      *metrics.CommandMetrics
	ids          id.Generator
	logger       *logging.Logger
	routes       map[string]commandFunc
}

func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	ids := cfg.IDs
	if ids == nil {
		ids = id.NewRandomGenerator(0)
	}

	d := &Dispatcher{
		matches:      cfg.Matches,
		leaderboards: cfg.Leaderboards,
		pool:         cfg.Pool,
		metrics:      cfg.Metrics,
		ids:          ids,
		logger:       logger,
	}
	d.routes = map[string]commandFunc{
		CommandPing:        d.handlePing,
		CommandMatches:     d.handleMatches,
		CommandLeaderboard: d.handleLeaderboard,
	}
	return d
}

// OnMessageCreate is the discordgo handler for new messages. Commands run on the
// worker pool so a slow aggregation does not block the gateway event loop.
func (d *Dispatcher) OnMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil || m.Author == nil {
		return
	}
	if isOwnMessage(s, m.Author.ID) {
		return
	}

	content := strings.TrimSpace(m.Content)
	if _, ok := d.routes[content]; !ok {
		return
	}

	sender := SessionSender{Session: s}
	channelID := m.ChannelID
	run := func() {
		d.Handle(context.Background(), sender, channelID, content)
	}

	if d.pool == nil {
		run()
		return
	}
	if err := d.pool.Submit(run); err != nil {
		d.logger.Warn("could not schedule chat command",
			"command", content,
			"channel_id", channelID,
			"error", err,
		)
		d.metrics.Observe(content, "rejected")
	}
}

// Handle runs content as a command if it names one, and reports whether it did.
func (d *Dispatcher) Handle(ctx context.Context, sender MessageSender, channelID, content string) bool {
	command := strings.TrimSpace(content)
	handler, ok := d.routes[command]
	if !ok {
		return false
	}

	ctx, span := startCommandSpan(ctx, strings.TrimPrefix(command, "!"))
	defer span.End()

	commandID, err := d.ids.NewID()
	if err != nil {
		commandID = "unknown"
	}
	span.SetAttributes(
		attribute.String("chat.command", command),
		attribute.String("chat.command_id", commandID),
	)
	logger := d.logger.With("command_id", commandID)
	logger.InfoContext(ctx, "handling chat command", "command", command, "channel_id", channelID)

	hadContent, err := handler(ctx, sender, channelID)
	switch {
	case err != nil:
		span.RecordError(err)
		logger.WarnContext(ctx, "could not deliver chat command reply",
			"command", command,
			"channel_id", channelID,
			"error", err,
		)
		d.metrics.Observe(command, commandResultSendFail)
	case !hadContent:
		d.metrics.Observe(command, commandResultEmpty)
	default:
		d.metrics.Observe(command, commandResultOK)
	}
	return true
}

func (d *Dispatcher) handlePing(ctx context.Context, sender MessageSender, channelID string) (bool, error) {
	return true, sender.Send(ctx, channelID, pongReply)
}

func (d *Dispatcher) handleMatches(ctx context.Context, sender MessageSender, channelID string) (bool, error) {
	if err := sender.Send(ctx, channelID, matchesStatusLine); err != nil {
		return false, err
	}

	messages := FormatMatchReport(d.matches.CollectOngoingMatches(ctx))
	if len(messages) == 0 {
		return false, sender.Send(ctx, channelID, matchesFailureLine)
	}
	return true, sendAll(ctx, sender, channelID, messages)
}

func (d *Dispatcher) handleLeaderboard(ctx context.Context, sender MessageSender, channelID string) (bool, error) {
	boards := d.leaderboards.CollectLeaderboards(ctx)
	if boards.Len() == 0 {
		return false, sender.Send(ctx, channelID, leaderboardFailureLine)
	}

	for _, snapshot := range boards.All() {
		if err := sendAll(ctx, sender, channelID, FormatLeaderboard(snapshot.DivisionLabel(), snapshot)); err != nil {
			return true, err
		}
	}
	return true, nil
}

func sendAll(ctx context.Context, sender MessageSender, channelID string, messages []string) error {
	for i, message := range messages {
		if err := sender.Send(ctx, channelID, message); err != nil {
			return fmt.Errorf("send message %d/%d: %w", i+1, len(messages), err)
		}
	}
	return nil
}

func isOwnMessage(s *discordgo.Session, authorID string) bool {
	if s == nil || s.State == nil {
		return false
	}
	s.State.RLock()
	defer s.State.RUnlock()
	return s.State.User != nil && s.State.User.ID == authorID
}
