package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/riskibarqy/faceit-hub-bot/external/faceit"
	"github.com/riskibarqy/faceit-hub-bot/internal/config"
	"github.com/riskibarqy/faceit-hub-bot/internal/domain/division"
	"github.com/riskibarqy/faceit-hub-bot/internal/interfaces/chatbot"
	"github.com/riskibarqy/faceit-hub-bot/internal/interfaces/opsapi"
	"github.com/riskibarqy/faceit-hub-bot/internal/platform/id"
	"github.com/riskibarqy/faceit-hub-bot/internal/platform/logging"
	"github.com/riskibarqy/faceit-hub-bot/internal/platform/metrics"
	"github.com/riskibarqy/faceit-hub-bot/internal/platform/resilience"
	"github.com/riskibarqy/faceit-hub-bot/internal/usecase"
)

// App owns the Discord session and everything hanging off it.
type App struct {
	cfg        config.Config
	logger     *logging.Logger
	divisions  *division.Registry
	session    *discordgo.Session
	pool       *ants.Pool
	faceit     *faceit.Client
	dispatcher *chatbot.Dispatcher
	ops        *opsapi.Server
	connected  atomic.Bool
	removers   []func()
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	registry, err := division.NewRegistry(cfg.Divisions)
	if err != nil {
		return nil, fmt.Errorf("build division registry: %w", err)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	faceitClient := faceit.NewClient(faceit.ClientConfig{
		BaseURL: cfg.FaceitBaseURL,
		APIKey:  cfg.FaceitAPIKey,
		Timeout: cfg.FaceitTimeout,
		Logger:  logger.Named("faceit"),
		Metrics: metrics.NewFetchMetrics(promRegistry),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FaceitCircuitEnabled,
			FailureThreshold: cfg.FaceitCircuitFailureCount,
			OpenTimeout:      cfg.FaceitCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FaceitCircuitHalfOpenMaxReq,
		},
	})

	aggregation := usecase.AggregationConfig{FetchConcurrency: cfg.FaceitFetchConcurrency}
	matchSvc := usecase.NewMatchService(faceitClient, registry, aggregation, logger)
	leaderboardSvc := usecase.NewLeaderboardService(faceitClient, registry, aggregation, logger)

	pool, err := ants.NewPool(cfg.CommandWorkers,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(rec any) {
			logger.Error("chat command panicked", "panic", rec)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create command worker pool: %w", err)
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		pool.Release()
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	a := &App{
		cfg:       cfg,
		logger:    logger,
		divisions: registry,
		session:   session,
		pool:      pool,
		faceit:    faceitClient,
		dispatcher: chatbot.NewDispatcher(chatbot.DispatcherConfig{
			Matches:      matchSvc,
			Leaderboards: leaderboardSvc,
			Pool:         pool,
			Metrics:      metrics.NewCommandMetrics(promRegistry),
			IDs:          id.NewRandomGenerator(8),
			Logger:       logger.Named("chatbot"),
		}),
	}

	if cfg.OpsEnabled {
		a.ops = opsapi.NewServer(opsapi.ServerConfig{
			Addr:     cfg.OpsAddr,
			Status:   a,
			Gatherer: promRegistry,
			Logger:   logger.Named("ops"),
		})
	}

	return a, nil
}

// Start opens the gateway connection and begins serving ops endpoints.
func (a *App) Start(ctx context.Context) error {
	a.removers = append(a.removers,
		a.session.AddHandler(a.onReady),
		a.session.AddHandler(a.onConnect),
		a.session.AddHandler(a.onDisconnect),
		a.session.AddHandler(a.dispatcher.OnMessageCreate),
	)

	if a.ops != nil {
		go func() {
			if err := a.ops.ListenAndServe(); err != nil {
				a.logger.Error("ops server failed", "error", err)
			}
		}()
	}

	if err := a.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	a.logger.InfoContext(ctx, "bot started",
		"divisions", a.divisions.Len(),
		"fetch_concurrency", a.cfg.FaceitFetchConcurrency,
		"command_workers", a.cfg.CommandWorkers,
	)
	return nil
}

// Close stops accepting commands, waits for running ones up to the context
// deadline and closes the session.
func (a *App) Close(ctx context.Context) error {
	for _, remove := range a.removers {
		remove()
	}
	a.removers = nil

	var errs []error
	if a.ops != nil {
		if err := a.ops.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown ops server: %w", err))
		}
	}

	timeout := a.cfg.ShutdownTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = timeUntil(deadline)
	}
	if err := a.pool.ReleaseTimeout(timeout); err != nil {
		errs = append(errs, fmt.Errorf("release command workers: %w", err))
	}

	if err := a.session.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close discord session: %w", err))
	}
	a.connected.Store(false)

	return errors.Join(errs...)
}

func (a *App) DiscordConnected() bool {
	return a.connected.Load()
}

func (a *App) CircuitState() string {
	return a.faceit.CircuitState()
}

func (a *App) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	a.connected.Store(true)
	username := ""
	if r != nil && r.User != nil {
		username = r.User.Username
	}
	a.logger.Info("bot ready", "user", username)
}

func (a *App) onConnect(_ *discordgo.Session, _ *discordgo.Connect) {
	a.connected.Store(true)
}

func (a *App) onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	a.connected.Store(false)
	a.logger.Warn("discord gateway disconnected")
}

func timeUntil(deadline time.Time) time.Duration {
	if d := time.Until(deadline); d > 0 {
		return d
	}
	return time.Millisecond
}
