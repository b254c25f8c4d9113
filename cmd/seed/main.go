// Seed tool: fills the configured store with sample accounts and content.
// Store settings come from .env and SOCIALITE_* variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"socialite/config"
	"socialite/datastore"
	"socialite/log"
	"socialite/seed"
	"time"
)

func main() {
	var reset bool
	flag.BoolVar(&reset, "reset", false, "drop existing users, posts and comments first")
	flag.Parse()

	cfg, err := config.Load(nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log.SetDir(cfg.LogDir)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := datastore.Open(ctx, cfg)
	if err != nil {
		log.Logger().Fatalf("opening store failed: %s", err)
	}
	defer store.Close(context.Background())

	start := time.Now()
	if _, err = seed.Run(ctx, store, seed.Options{Reset: reset}); err != nil {
		log.Logger().Fatalf("seeding failed: %s", err)
	}
	log.Logger().Infof("done in %s", time.Since(start).Truncate(time.Millisecond))

	fmt.Println("Test accounts:")
	for _, email := range seed.Accounts() {
		fmt.Printf("  %s / %s\n", email, seed.Password)
	}
}
