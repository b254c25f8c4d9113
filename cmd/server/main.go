package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"socialite/config"
	"socialite/datastore"
	"socialite/log"
	"socialite/media"
	"socialite/server"
	"syscall"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log.SetDir(cfg.LogDir)
	if err = log.SetLevel(cfg.LogLevel); err != nil {
		log.Logger().Fatalf("invalid log level %q: %s", cfg.LogLevel, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err = run(ctx, cfg); err != nil {
		log.Logger().Fatal(err)
	}
}

// run serves the API until ctx is cancelled
func run(ctx context.Context, cfg *config.Config) error {
	store, err := datastore.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Logger().WithError(err).Error("closing store failed")
		}
	}()

	images, err := media.NewS3Host(ctx, cfg)
	if err != nil {
		return err
	}
	return server.New(cfg, store, images).ListenAndServe(ctx)
}
