package observability

import (
	"bytes"
	"context"
	"time"

	"github.com/riskibarqy/faceit-hub-bot/internal/config"
	"github.com/riskibarqy/faceit-hub-bot/internal/platform/logging"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/pprofhandler"
)

var pprofPrefix = []byte("/debug/pprof")

// StartPprofServer serves runtime profiles on their own listener, apart from
// the ops endpoints.
func StartPprofServer(cfg config.Config, logger *logging.Logger) (*fasthttp.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if !cfg.PprofEnabled {
		logger.Info("pprof disabled", "reason", "PPROF_ENABLED=false")
		return nil, nil
	}

	srv := &fasthttp.Server{
		Handler:     pprofHandler,
		Name:        cfg.ServiceName + "-pprof",
		ReadTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("pprof server starting", "addr", cfg.PprofAddr)
		if err := srv.ListenAndServe(cfg.PprofAddr); err != nil {
			logger.Error("pprof server failed", "error", err)
		}
	}()

	return srv, nil
}

func pprofHandler(ctx *fasthttp.RequestCtx) {
	if !bytes.HasPrefix(ctx.Path(), pprofPrefix) {
		ctx.NotFound()
		return
	}
	pprofhandler.PprofHandler(ctx)
}

func StopPprofServer(srv *fasthttp.Server, logger *logging.Logger, timeout time.Duration) error {
	if srv == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.ShutdownWithContext(ctx); err != nil {
		return err
	}
	logger.Info("pprof server stopped")

	return nil
}
