package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/theleywin/Backend-Dissuade/src/lib"
	"github.com/theleywin/Backend-Dissuade/src/routes"
	"github.com/theleywin/Backend-Dissuade/src/store"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := lib.LoadConfig()

	log, err := lib.NewLogger(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, client, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("open store", "driver", cfg.StoreDriver, "error", err)
	}
	defer func() {
		if err := lib.DisconnectDB(client); err != nil {
			log.Warn("disconnect mongo", "error", err)
		}
	}()

	app := routes.NewApp(cfg, stores, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server is running", "port", cfg.Port, "store", cfg.StoreDriver)
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("Shutting down")
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "error", err)
	}
}

// openStores picks the store driver. The returned client is nil for the
// memory driver.
func openStores(ctx context.Context, cfg lib.Config, log *lib.Logger) (store.Stores, *mongo.Client, error) {
	switch cfg.StoreDriver {
	case "memory":
		log.Warn("using in-memory store, data is lost on restart")
		return store.NewMemory().Stores(), nil, nil
	case "mongo", "mongodb":
		client, err := lib.ConnectDB(ctx, cfg)
		if err != nil {
			return store.Stores{}, nil, err
		}
		mongoStore := store.NewMongo(client.Database(cfg.MongoDB), cfg.StoreTimeout)
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			_ = lib.DisconnectDB(client)
			return store.Stores{}, nil, err
		}
		log.Info("MongoDB connected", "database", cfg.MongoDB)
		return mongoStore.Stores(), client, nil
	default:
		return store.Stores{}, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
