// Package main is the entry point for the progress engine daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pillarcoach/progress-engine/internal/config"
	"github.com/pillarcoach/progress-engine/internal/ipc"
	"github.com/pillarcoach/progress-engine/internal/provider"
	"github.com/pillarcoach/progress-engine/internal/store"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to configuration file (JSON or YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("progressd %s (commit=%s, built=%s)\n", version, commit, date)
		os.Exit(0)
	}

	// Resolve config path: --config flag > PROGRESS_CONFIG env > auto-discover next to exe.
	path := *configPath
	if path == "" {
		path = os.Getenv("PROGRESS_CONFIG")
	}
	if path == "" {
		path = discoverConfig()
	}
	if path == "" {
		log.Fatal("no config found. Place config.json next to the exe, use --config <path>, or set PROGRESS_CONFIG.")
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("load timezone: %v", err)
	}

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	p := provider.NewStoreProvider(db, loc, cfg.StreakWindow, cfg.FocusCap)
	handler := &ipc.Handler{Provider: p}
	srv := ipc.NewServer(handler, cfg.ListenAddr)

	// Graceful shutdown on interrupt.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Println("shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("progress engine listening on %s", ipc.FormatListenURL(cfg.ListenAddr))

	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// discoverConfig looks for a config file next to the executable, then in the cwd.
func discoverConfig() string {
	names := []string{"config.json", "config.yaml", "config.yml"}

	if exe, err := os.Executable(); err == nil {
		for _, name := range names {
			candidate := filepath.Join(filepath.Dir(exe), name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}
