package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/dailymood/internal/config"
	"github.com/jrsteele09/dailymood/internal/logging"
	"github.com/jrsteele09/dailymood/router"
	"github.com/jrsteele09/dailymood/tui"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dailymood: %s\n", err)
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		return err
	}
	closer, err := logging.Setup(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	var app application
	if err := fx.New(appOptions(cfg, &app)).Err(); err != nil {
		return fmt.Errorf("building application: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	displayAppname(cfg.GetAppName())
	log.Info().Str("env", cfg.GetEnv()).Str("api", cfg.GetBaseURL()).Msg("starting")

	if err := app.Session.Verify(ctx); err != nil {
		log.Err(err).Msg("stored session not restored")
	}
	app.Router.Navigate(string(router.RouteRoot))

	return tui.Run(ctx, app.Deps)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
