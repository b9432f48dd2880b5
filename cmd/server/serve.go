package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm/logger"

	router "github.com/dkeye/projectchat/internal/adapters/http"
	"github.com/dkeye/projectchat/internal/app"
	"github.com/dkeye/projectchat/internal/app/orch"
	"github.com/dkeye/projectchat/internal/auth"
	"github.com/dkeye/projectchat/internal/config"
	"github.com/dkeye/projectchat/internal/store"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat HTTP and websocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Mode != "debug" && !verbose {
		// JSON lines in production.
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	db, err := store.Open(cfg.Database.DSN, logger.Warn)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(db); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	policy, err := app.PolicyByName(cfg.Chat.Backpressure)
	if err != nil {
		return err
	}
	chat := app.NewChatService(store.NewMessageStore(db), store.NewDirectory(db), cfg.Chat.MaxTextLen)
	o := orch.New(chat, orch.Options{
		TypingTimeout: cfg.Chat.TypingTimeout,
		Policy:        policy,
		EchoToSender:  cfg.Chat.EchoToSender,
	})
	verifier := auth.NewVerifier(auth.Config{Secret: cfg.Auth.Secret, Issuer: cfg.Auth.Issuer})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.SetupRouter(ctx, cfg, o, verifier),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("chat server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		// Hijacked websocket connections are not tracked by Shutdown.
		o.Shutdown()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server error")
		return err
	}
	log.Info().Msg("Server exited gracefully")
	return nil
}
