// Package server boots the whole application: configuration, storage
// backends, background workers, the scheduler and the HTTP (and
// optionally gRPC) listeners.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dnguyen-dev/bistro/app/jobs"
	"github.com/dnguyen-dev/bistro/app/routes"
	"github.com/dnguyen-dev/bistro/config"
	"github.com/dnguyen-dev/bistro/pkg/database"
	"github.com/dnguyen-dev/bistro/pkg/grpcserver"
	"github.com/dnguyen-dev/bistro/pkg/kv"
	"github.com/dnguyen-dev/bistro/pkg/logger"
	"github.com/dnguyen-dev/bistro/pkg/metrics"
	"github.com/dnguyen-dev/bistro/pkg/middleware"
	"github.com/dnguyen-dev/bistro/pkg/migration"
	"github.com/dnguyen-dev/bistro/pkg/queue"
	"github.com/dnguyen-dev/bistro/pkg/reqid"
	"github.com/dnguyen-dev/bistro/pkg/router"
	"github.com/dnguyen-dev/bistro/pkg/schedule"
	"github.com/dnguyen-dev/bistro/pkg/session"
	"github.com/dnguyen-dev/bistro/pkg/storage"
	"github.com/dnguyen-dev/bistro/pkg/ws"
)

// Start boots every subsystem and blocks until SIGINT/SIGTERM, then
// shuts down gracefully.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}
	if err := kv.Connect(); err != nil {
		logger.Warn("kv: redis unavailable, staying on memory store", "err", err)
	}
	storage.Connect()

	if err := migration.New(database.DB).Run(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background machinery.
	queue.UseDB(database.DB)
	if config.QueueDriver() == "redis" {
		if store, ok := kvRedis(); ok {
			queue.SetDriver(queue.NewRedisDriver(store.Client()))
		} else {
			logger.Warn("queue: redis driver requested but kv store is not redis, using memory")
		}
	}
	jobs.Register()
	queue.StartWorkers(ctx, 4)

	go ws.PaymentHub.Run()

	r := router.New()
	r.Use(
		reqid.Middleware(),
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
		session.Middleware(session.DefaultOptions()),
		metrics.Middleware(),
	)

	app, err := routes.RegisterAPI(r)
	if err != nil {
		return err
	}

	// Housekeeping: expire payment sessions whose flow has wandered off,
	// and hand tables back once their reserved date has passed.
	schedule.EveryMinute().Name("payments.sweep").WithoutOverlapping().Run(app.Payments.SweepOrphans)
	schedule.Daily().Name("tables.release").WithoutOverlapping().Run(app.Bookings.ReleasePastTables)
	schedule.Start(ctx)

	if port := config.GRPCPort(); port != "" {
		grpcSrv, _, err := grpcserver.Start(port)
		if err != nil {
			return err
		}
		defer grpcserver.Stop(grpcSrv)
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http: shutdown", "err", err)
	}

	cancel()
	app.Pool.Shutdown()
	return nil
}

func kvRedis() (*kv.RedisStore, bool) {
	store, ok := kv.Active().(*kv.RedisStore)
	return store, ok
}
