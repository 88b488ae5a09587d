package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fastprodman/pokerledger/internal/api"
	"github.com/fastprodman/pokerledger/internal/infra/logging"
	"github.com/fastprodman/pokerledger/internal/infra/metrics"
	"github.com/fastprodman/pokerledger/internal/infra/pgutils"
	"github.com/fastprodman/pokerledger/internal/notify"
	gamessvc "github.com/fastprodman/pokerledger/internal/services/games"
	profilessvc "github.com/fastprodman/pokerledger/internal/services/profiles"
	"github.com/fastprodman/pokerledger/pkg/envconf"
	"github.com/fastprodman/pokerledger/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logger := logging.SetupJSON(cfg.LogLevel, "pokerledger-api")

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		slog.Info("Close database")
		return db.Close()
	})

	registry := metrics.NewRegistry()

	var notifier notify.Notifier = notify.Discard{}
	if cfg.Notify.Enabled {
		notifier = notify.LogNotifier{Logger: logger}
	}

	gamesSrv := gamessvc.New(db, notifier, gamessvc.NewMetrics(registry), logger)
	profilesSrv := profilessvc.New(db, logger)

	// --- HTTP server ---
	handler := api.NewRouter(api.NewHandler(gamesSrv, profilesSrv, logger), registry)
	srv := api.NewServer(cfg.Port, handler)

	// Registered last so it drains first.
	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port)

	select {
	case <-ctx.Done():
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
