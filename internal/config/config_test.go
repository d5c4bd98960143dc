package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FORUMSHEET_BASE_URL", "FORUMSHEET_START_URL", "FORUMSHEET_START_FILE",
		"FORUMSHEET_COOKIE", "FORUMSHEET_DB_PATH", "FORUMSHEET_LOG_PATH",
		"FORUMSHEET_EXPORT_DIR", "FORUMSHEET_RENDER_INTERVAL", "FORUMSHEET_SHEET_MODE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromEnv_UsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}

	if cfg.BaseURL != defaultBaseURL {
		t.Fatalf("unexpected base URL: %s", cfg.BaseURL)
	}
	if cfg.StartURL != defaultBaseURL+"/" {
		t.Fatalf("unexpected start URL: %s", cfg.StartURL)
	}
	if cfg.DBPath != "forumsheet.db" || cfg.LogPath != "forumsheet.log" || cfg.ExportDir != "." {
		t.Fatalf("unexpected paths: %+v", cfg)
	}
	if cfg.RenderInterval != defaultRenderInterval {
		t.Fatalf("unexpected render interval: %s", cfg.RenderInterval)
	}
	if cfg.SheetMode != "" {
		t.Fatalf("unexpected sheet mode: %s", cfg.SheetMode)
	}
}

func TestLoadFromEnv_ReadsOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FORUMSHEET_BASE_URL", "http://localhost:8080")
	t.Setenv("FORUMSHEET_START_URL", "http://localhost:8080/f?kw=go")
	t.Setenv("FORUMSHEET_COOKIE", "BDUSS=abc")
	t.Setenv("FORUMSHEET_RENDER_INTERVAL", "750ms")
	t.Setenv("FORUMSHEET_SHEET_MODE", " ON ")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}
	if cfg.StartURL != "http://localhost:8080/f?kw=go" || cfg.Cookie != "BDUSS=abc" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.RenderInterval != 750*time.Millisecond {
		t.Fatalf("unexpected render interval: %s", cfg.RenderInterval)
	}
	if cfg.SheetMode != "on" {
		t.Fatalf("unexpected sheet mode: %s", cfg.SheetMode)
	}
}

func TestLoadFromEnv_BadInterval(t *testing.T) {
	clearEnv(t)
	t.Setenv("FORUMSHEET_RENDER_INTERVAL", "soon")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for unparsable interval")
	}

	t.Setenv("FORUMSHEET_RENDER_INTERVAL", "100ms")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for too short interval")
	}
}

func validConfig() Config {
	return Config{
		BaseURL:        "https://tieba.baidu.com",
		StartURL:       "https://tieba.baidu.com/",
		DBPath:         "forumsheet.db",
		LogPath:        "forumsheet.log",
		ExportDir:      ".",
		RenderInterval: time.Second,
	}
}

func TestValidate_BaseURLTrailingSlash(t *testing.T) {
	cfg := validConfig()
	cfg.BaseURL = "https://tieba.baidu.com/"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidate_StartURLScheme(t *testing.T) {
	cfg := validConfig()
	cfg.StartURL = "file:///tmp/page.html"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for non-http start url")
	}
}

func TestValidate_SheetMode(t *testing.T) {
	cfg := validConfig()
	cfg.SheetMode = "maybe"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for sheet mode")
	}
	cfg.SheetMode = "off"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
