package main

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/glabrego/forumsheet/internal/app"
	"github.com/glabrego/forumsheet/internal/config"
	"github.com/glabrego/forumsheet/internal/forum"
	"github.com/glabrego/forumsheet/internal/storage"
	"github.com/glabrego/forumsheet/internal/tui"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("cannot open log file %s: %v", cfg.LogPath, err)
	}
	defer logFile.Close()
	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "forumsheet",
		Level:           log.DebugLevel,
	})

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := repo.Init(ctx); err != nil {
		log.Fatalf("storage schema error: %v", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		log.Fatalf("storage write check failed (%v). Verify FORUMSHEET_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	client := forum.NewClient(cfg.BaseURL, cfg.Cookie, nil, logger)
	service := app.NewService(client, repo, app.Options{
		StartFile: cfg.StartFile,
		ExportDir: cfg.ExportDir,
		SheetMode: cfg.SheetMode,
		Logger:    logger,
	})

	sheetMode, err := service.SheetModeEnabled(ctx)
	if err != nil {
		logger.Warn("startup.sheet_mode", "err", err)
		sheetMode = cfg.SheetMode == "on"
	}
	logger.Info("startup", "start", cfg.StartURL, "sheet_mode", sheetMode, "interval", cfg.RenderInterval)

	model := tui.NewModel(service, tui.Options{
		StartURL:       cfg.StartURL,
		SheetMode:      sheetMode,
		RenderInterval: cfg.RenderInterval,
		Logger:         logger,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		log.Fatalf("tui error: %v", err)
	}
}
