package main

import (
	"os"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/navrd93/activitydo/internal/config"
	"github.com/navrd93/activitydo/internal/storage"
	"github.com/navrd93/activitydo/internal/task"
	"github.com/navrd93/activitydo/internal/ui"
)

func main() {
	configPath := flag.StringP("config", "c", config.ResolveConfigPath(), "path to config file")
	dbPath := flag.String("db", "", "path to database file (overrides config)")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

	cfg, err := config.LoadOrCreate(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", "path", *configPath, "err", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", "path", cfg.DBPath, "err", err)
	}
	defer store.Close()

	live, err := store.LoadTasks()
	if err != nil {
		logger.Fatal("failed to load tasks", "err", err)
	}
	completed, err := store.LoadCompleted()
	if err != nil {
		logger.Fatal("failed to load archive", "err", err)
	}

	if err := ui.Run(store, cfg, task.NewSet(live, completed)); err != nil {
		logger.Fatal("error running program", "err", err)
	}
}
