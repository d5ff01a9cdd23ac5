package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/repcounter/internal/config"
	"github.com/claude/repcounter/internal/mcp"
	"github.com/claude/repcounter/internal/presets"
	"github.com/claude/repcounter/internal/server"
	"github.com/claude/repcounter/internal/storage"
	"github.com/claude/repcounter/internal/workout"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// presetStore is a preset store that owns a database handle.
type presetStore interface {
	presets.Store
	Close() error
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	noSeed := flag.Bool("no-seed", false, "do not insert the built-in presets into an empty store")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	log.Info("RepCounter starting", "version", Version)

	// Open preset store
	ctx := context.Background()
	store, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		log.Error("failed to open preset store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Engine, wired to the SSE hub
	hub := server.NewEventHub()
	engine := workout.NewEngine(cfg.Workout, log, workout.WithObserver(hub.Publish))
	defer engine.Close()

	presetSvc := presets.NewService(store, engine, log)
	if !*noSeed {
		if _, err := presetSvc.SeedDefaults(ctx); err != nil {
			log.Warn("seeding default presets failed", "error", err)
		}
	}

	// Create server with the MCP endpoint mounted
	srv := server.New(engine, presetSvc, hub, cfg.Auth.APIKey, log)
	mcpSrv := mcp.New(mcp.NewLocal(engine, presetSvc), Version, log)
	srv.MountMCP(mcpserver.NewStreamableHTTPServer(mcpSrv))

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "plain http (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	// Stop ticking first so open event streams see a quiet engine.
	engine.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// openStore opens the configured preset store, applying Postgres migrations
// when needed.
func openStore(ctx context.Context, db config.DatabaseConfig, log *slog.Logger) (presetStore, error) {
	switch db.Driver {
	case config.DriverPostgres:
		dsn := db.DSN()
		if err := storage.RunMigrations(dsn); err != nil {
			return nil, fmt.Errorf("migrating: %w", err)
		}
		log.Info("migrations applied")
		pg, err := storage.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		log.Info("database connected", "driver", db.Driver, "host", db.Host, "name", db.Name)
		return pg, nil
	default:
		lite, err := storage.OpenSQLite(db.Path)
		if err != nil {
			return nil, err
		}
		log.Info("database opened", "driver", config.DriverSQLite, "path", db.Path)
		return lite, nil
	}
}
