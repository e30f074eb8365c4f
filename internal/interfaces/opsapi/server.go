package opsapi

import (
	"context"
	"net"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/faceit-hub-bot/internal/platform/logging"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
)

// StatusSource reports the live state of the bot's dependencies.
type StatusSource interface {
	DiscordConnected() bool
	CircuitState() string
}

type healthResponse struct {
	Status           string `json:"status"`
	DiscordConnected bool   `json:"discord_connected"`
	CircuitState     string `json:"circuit_state"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type ServerConfig struct {
	Addr     string
	Status   StatusSource
	Gatherer prometheus.Gatherer
	Logger   *logging.Logger
}

// Server exposes health and metrics endpoints for the process.
type Server struct {
	addr    string
	status  StatusSource
	logger  *logging.Logger
	metrics fasthttp.RequestHandler
	srv     *fasthttp.Server
}

func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		addr:    cfg.Addr,
		status:  cfg.Status,
		logger:  logger,
		metrics: fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})),
	}
	s.srv = &fasthttp.Server{
		Handler:      s.recoverPanic(s.route),
		Name:         "faceit-hub-bot",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("ops server listening", "addr", s.addr)
	return s.srv.ListenAndServe(s.addr)
}

func (s *Server) Serve(ln net.Listener) error {
	return s.srv.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() && !ctx.IsHead() {
		writeJSON(ctx, fasthttp.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	switch string(ctx.Path()) {
	case "/healthz":
		s.healthz(ctx)
	case "/metrics":
		s.metrics(ctx)
	default:
		writeJSON(ctx, fasthttp.StatusNotFound, errorResponse{Error: "not found"})
	}
}

func (s *Server) healthz(ctx *fasthttp.RequestCtx) {
	resp := healthResponse{Status: statusOK, CircuitState: "unknown"}
	if s.status != nil {
		resp.DiscordConnected = s.status.DiscordConnected()
		resp.CircuitState = s.status.CircuitState()
	}

	code := fasthttp.StatusOK
	if !resp.DiscordConnected {
		resp.Status = statusDegraded
		code = fasthttp.StatusServiceUnavailable
	}
	writeJSON(ctx, code, resp)
}

func (s *Server) recoverPanic(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "path", string(ctx.Path()))
				writeJSON(ctx, fasthttp.StatusInternalServerError, errorResponse{Error: "internal error"})
			}
		}()
		next(ctx)
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, payload any) {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		ctx.Error(`{"error":"internal error"}`, fasthttp.StatusInternalServerError)
		ctx.SetContentType("application/json")
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(raw)
}
