package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/budget-tracker/backend/internal/config"
	v1 "github.com/budget-tracker/backend/internal/controllers/v1"
	"github.com/budget-tracker/backend/internal/models"
	"github.com/budget-tracker/backend/internal/notify"
	"github.com/budget-tracker/backend/internal/router"
	"github.com/budget-tracker/backend/internal/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

//go:generate swag init --output api --outputTypes go

// @title			Budget Tracker
// @description	The backend for a budget tracker. Budgets are split into categories, expenses are recorded against them and all totals are kept up to date.
// @license.name	MIT
// @BasePath		/
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	output := io.Writer(os.Stdout)
	if cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(cfg.LogLevel)
	log.Logger = log.Output(output).With().Timestamp().Logger()

	// Create the directory of the database file
	if !models.IsPostgres(cfg.DSN) {
		err = os.MkdirAll(filepath.Dir(cfg.DSN), os.ModePerm)
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
	}

	db, err := models.Connect(cfg.DSN)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	var forward []notify.Publisher
	if cfg.AMQPURL != "" {
		publisher, err := notify.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
		defer publisher.Close()

		log.Info().Str("exchange", cfg.AMQPExchange).Msg("publishing change events")
		forward = append(forward, publisher)
	}

	r, teardown, err := router.Config(cfg)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer teardown()

	router.AttachRoutes(v1.Controller{
		Store:    store.New(db, notify.NewBroker(), forward...),
		PageSize: cfg.PageSize,
	}, r.Group("/"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// No write timeout, streams stay open as long as the client wants.
	// They end with the base context when the server shuts down.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	g.Go(func() error {
		log.Info().Int("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped")
		return
	}

	log.Info().Msg("server stopped gracefully")
}
