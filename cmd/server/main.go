package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/cardroom-backend/internal/config"
	"github.com/DoyleJ11/cardroom-backend/internal/deck"
	"github.com/DoyleJ11/cardroom-backend/internal/httpapi"
	"github.com/DoyleJ11/cardroom-backend/internal/hub"
	"github.com/DoyleJ11/cardroom-backend/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	cfg := &config.Config{}
	cobra.CheckErr(config.NewCommand(cfg, run).ExecuteContext(context.Background()))
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, cfg *config.Config) error {
	log, err := newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	seeded, err := st.SeedDecks(ctx, deck.DefaultDecks())
	if err != nil {
		return err
	}
	if seeded {
		log.Info("seeded default decks")
	}
	decks, err := st.ListDecks(ctx)
	if err != nil {
		return err
	}

	h := hub.NewHub(ctx, hub.Options{
		Logger:    log,
		Persister: st,
		Catalog:   deck.NewCatalog(decks...),
	})
	if err := restoreRooms(ctx, h, st, log); err != nil {
		return err
	}

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, httpapi.Options{
		Logger:         log,
		Decks:          st,
		AdminPassword:  cfg.AdminPassword,
		PublicURL:      cfg.PublicURL,
		OriginPatterns: cfg.AllowedOrigins,
		Ping:           st.Ping,
	})

	g, gctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Hijacked websocket connections end with the server context.
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return h.RunReaper(gctx, cfg.ReapInterval, cfg.IdleTimeout)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		h.Shutdown()

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}

// restoreRooms reopens every room that was active when the server last
// stopped.
func restoreRooms(ctx context.Context, h *hub.Hub, st *store.Store, log *zap.Logger) error {
	snaps, err := st.ListActiveRooms(ctx)
	if err != nil {
		return err
	}
	for _, snap := range snaps {
		if err := h.Restore(ctx, snap.Room, snap.LastActivity); err != nil {
			log.Warn("skip room", zap.String("room", snap.Room.ID), zap.Error(err))
		}
	}
	log.Info("restored rooms", zap.Int("count", len(snaps)))
	return nil
}
