package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/ChemDraw-AI/internal/config"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
)

const (
	janitorInterval      = time.Minute
	limiterSweepInterval = 5 * time.Minute
)

// Run serves the API, and the metrics endpoint when it has its own port,
// until ctx is cancelled or one of them fails.  Both servers are drained
// before Run returns.  A non-empty configPath is watched and allow-list
// changes are applied without a restart.
func (a *App) Run(ctx context.Context, configPath string) error {
	apiLn, err := net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.Server.Port))
	if err != nil {
		return fmt.Errorf("app: listen on :%d: %w", a.cfg.Server.Port, err)
	}
	var metricsLn net.Listener
	if a.metricsServer != nil {
		metricsLn, err = net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.Metrics.Port))
		if err != nil {
			_ = apiLn.Close()
			return fmt.Errorf("app: listen on :%d: %w", a.cfg.Metrics.Port, err)
		}
	}
	if configPath != "" {
		a.watch(configPath)
	}
	return a.serve(ctx, apiLn, metricsLn)
}

func (a *App) serve(ctx context.Context, apiLn, metricsLn net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.server.Serve(apiLn) })
	if a.metricsServer != nil && metricsLn != nil {
		g.Go(func() error { return a.metricsServer.Serve(metricsLn) })
	}
	g.Go(func() error { return a.Sessions.Run(gctx, janitorInterval) })
	g.Go(func() error { return a.sweepLimiter(gctx) })

	g.Go(func() error {
		<-gctx.Done()
		stopCtx := context.WithoutCancel(ctx)
		var errs []error
		if err := a.server.Stop(stopCtx); err != nil {
			errs = append(errs, err)
		}
		if a.metricsServer != nil {
			if err := a.metricsServer.Stop(stopCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func (a *App) sweepLimiter(ctx context.Context) error {
	t := time.NewTicker(limiterSweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if n := a.rateLimit.Limiter().Cleanup(); n > 0 {
				a.logger.Debug("idle rate limiters dropped", logging.Int("count", n))
			}
		}
	}
}

func (a *App) watch(path string) {
	err := config.Watch(path, func(c *config.Config) {
		a.Policy.Update(c.Images)
		a.logger.Info("image allow-list reloaded", logging.Int("patterns", len(c.Images.Allowed)))
	}, func(err error) {
		a.logger.Warn("config reload rejected", logging.Err(err))
	})
	if err != nil {
		a.logger.Warn("config watch disabled", logging.String("path", path), logging.Err(err))
	}
}

//Personal.AI order the ending
