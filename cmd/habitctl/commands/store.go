package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mindtrack/api/internal/config"
	"github.com/mindtrack/api/internal/store"
)

// openStore connects to the backend named by the environment, the same way the
// server does.
func openStore(ctx context.Context) (store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	openCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	st, err := store.Open(openCtx, store.Options{
		Backend:       cfg.StoreBackend,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
		SQLitePath:    cfg.SQLitePath,
		DatabaseURL:   cfg.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}

func closeStore(st store.Store) {
	if err := st.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
	}
}
