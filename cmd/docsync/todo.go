package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/localfirst/docsync/internal/models"
	"github.com/localfirst/docsync/internal/pending"
	"github.com/localfirst/docsync/internal/remote"
	"github.com/localfirst/docsync/internal/repository"
	"github.com/localfirst/docsync/internal/storage"
	"github.com/localfirst/docsync/internal/storage/boltdb"
	"github.com/localfirst/docsync/internal/storage/sqlite"
)

// Todo is the demo document type.
type Todo struct {
	UpdatedAt time.Time
	ID        string
	Title     string
	Done      bool
}

func todoFromRaw(doc models.RawDocument) (Todo, error) {
	t := Todo{
		ID:        doc.ID(),
		UpdatedAt: doc.UpdatedAt(),
	}
	if t.ID == "" {
		return Todo{}, fmt.Errorf("todo document without id")
	}
	if title, ok := doc["title"].(string); ok {
		t.Title = title
	}
	if done, ok := doc["done"].(bool); ok {
		t.Done = done
	}
	return t, nil
}

// app bundles one wired-up repository with its resources.
type app struct {
	repo *repository.Repository[Todo]
	kv   storage.KeyValueStore
}

// newApp wires storage, queue, remote and repository from the resolved
// configuration.
func newApp(ctx context.Context, logger *slog.Logger) (*app, error) {
	kv, err := openKV(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	collection := viper.GetString("collection")
	queue := pending.New(kv, "queue:"+collection)

	var backend remote.Store
	if server := viper.GetString("server"); server != "" {
		backend = remote.NewHTTPStore(server)
	} else {
		backend = remote.NewMemoryStore()
	}

	repo, err := repository.New(repository.Config[Todo]{
		Collection:       collection,
		UserID:           viper.GetString("user"),
		Remote:           backend,
		Pending:          queue,
		FromRaw:          todoFromRaw,
		Logger:           logger,
		AutoSyncInterval: autoSyncInterval(),
	})
	if err != nil {
		kv.Close()
		return nil, err
	}

	return &app{repo: repo, kv: kv}, nil
}

func openKV(ctx context.Context) (storage.KeyValueStore, error) {
	path := viper.GetString("db")
	switch driver := viper.GetString("db-driver"); driver {
	case "bolt":
		return boltdb.New(ctx, path)
	case "sqlite":
		return sqlite.New(ctx, path)
	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}
}

func (a *app) Close() {
	a.repo.Close()
	if err := a.kv.Close(); err != nil {
		slog.Error("failed to close local database", "error", err)
	}
}

// checkbox renders the done state.
func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
