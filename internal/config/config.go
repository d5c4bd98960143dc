package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	defaultBaseURL        = "https://tieba.baidu.com"
	defaultRenderInterval = 5 * time.Second
	minRenderInterval     = 500 * time.Millisecond
)

// Config holds runtime settings for the terminal app.
type Config struct {
	BaseURL        string
	StartURL       string
	StartFile      string
	Cookie         string
	DBPath         string
	LogPath        string
	ExportDir      string
	RenderInterval time.Duration
	// SheetMode is the activation default used when nothing was persisted:
	// "on", "off" or empty.
	SheetMode string
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		BaseURL:   os.Getenv("FORUMSHEET_BASE_URL"),
		StartURL:  os.Getenv("FORUMSHEET_START_URL"),
		StartFile: os.Getenv("FORUMSHEET_START_FILE"),
		Cookie:    os.Getenv("FORUMSHEET_COOKIE"),
		DBPath:    os.Getenv("FORUMSHEET_DB_PATH"),
		LogPath:   os.Getenv("FORUMSHEET_LOG_PATH"),
		ExportDir: os.Getenv("FORUMSHEET_EXPORT_DIR"),
		SheetMode: strings.ToLower(strings.TrimSpace(os.Getenv("FORUMSHEET_SHEET_MODE"))),
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.StartURL == "" {
		cfg.StartURL = strings.TrimRight(cfg.BaseURL, "/") + "/"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "forumsheet.db"
	}
	if cfg.LogPath == "" {
		cfg.LogPath = "forumsheet.log"
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}

	cfg.RenderInterval = defaultRenderInterval
	if raw := os.Getenv("FORUMSHEET_RENDER_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("FORUMSHEET_RENDER_INTERVAL: %w", err)
		}
		cfg.RenderInterval = d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("BaseURL is required")
	}
	if c.BaseURL[len(c.BaseURL)-1] == '/' {
		return fmt.Errorf("BaseURL must not end with '/': %s", c.BaseURL)
	}
	if !isHTTPURL(c.BaseURL) {
		return fmt.Errorf("BaseURL must be an http(s) URL: %s", c.BaseURL)
	}
	if !isHTTPURL(c.StartURL) {
		return fmt.Errorf("StartURL must be an http(s) URL: %s", c.StartURL)
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.LogPath == "" {
		return errors.New("LogPath is required")
	}
	if c.RenderInterval < minRenderInterval {
		return fmt.Errorf("RenderInterval must be at least %s: %s", minRenderInterval, c.RenderInterval)
	}
	if c.SheetMode != "" && c.SheetMode != "on" && c.SheetMode != "off" {
		return fmt.Errorf("SheetMode must be on or off: %s", c.SheetMode)
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
