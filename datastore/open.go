package datastore

import (
	"context"
	"socialite/config"
	"socialite/log"
)

// Open returns the store selected by cfg
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store {
	case config.MemoryStore:
		log.Logger().Warn("using the in-memory store, data is lost on exit")
		return NewMemory(), nil
	case config.MongoStore:
		m, err := ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, log.WriteLogAndReturnError("unknown store %q", cfg.Store)
}
