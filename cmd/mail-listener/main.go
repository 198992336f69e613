package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kianwoon/report-population-tool/internal/catalog"
	"github.com/kianwoon/report-population-tool/internal/config"
	"github.com/kianwoon/report-population-tool/internal/listener"
	"github.com/kianwoon/report-population-tool/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	store := catalog.NewStore(cfg.ConfigDir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("mail listener starting provider=%s interval=%ds\n", cfg.ListenerProvider, cfg.ListenerIntervalSec)
	if err := listener.NewService(db, cfg, store).Run(ctx); err != nil {
		must(err)
	}
	fmt.Println("mail listener stopped")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
