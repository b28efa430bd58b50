package config_test

import (
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/furisto/companion/config"
)

func TestLoad_Defaults(t *testing.T) {
	settings, err := config.Load(afero.NewMemMapFs(), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if settings.ListenAddr != ":8000" {
		t.Errorf("unexpected listen addr %q", settings.ListenAddr)
	}
	if settings.HistoryLimit != 5 {
		t.Errorf("unexpected history limit %d", settings.HistoryLimit)
	}
	if settings.ModelName != "gpt-4o-mini" {
		t.Errorf("unexpected model %q", settings.ModelName)
	}
}

func TestLoad_YAMLOverride(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := []byte("listenAddr: \":9000\"\nmodelName: gpt-4o\nhistoryLimit: 8\n")
	if err := afero.WriteFile(fs, "config.yaml", content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	settings, err := config.Load(fs, "config.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if settings.ListenAddr != ":9000" {
		t.Errorf("yaml listen addr not applied: %q", settings.ListenAddr)
	}
	if settings.ModelName != "gpt-4o" {
		t.Errorf("yaml model not applied: %q", settings.ModelName)
	}
	if settings.HistoryLimit != 8 {
		t.Errorf("yaml history limit not applied: %d", settings.HistoryLimit)
	}
}

func TestLoad_EnvWinsOverYAML(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":7000")
	t.Setenv("MODEL_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("CHAT_TURN_TIMEOUT", "30s")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "config.yaml", []byte("listenAddr: \":9000\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	settings, err := config.Load(fs, "config.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if settings.ListenAddr != ":7000" {
		t.Errorf("env listen addr should win: %q", settings.ListenAddr)
	}
	if settings.ModelProvider != "anthropic" {
		t.Errorf("provider should be normalized to lowercase: %q", settings.ModelProvider)
	}
	if settings.APIKey() != "test-key" {
		t.Errorf("APIKey() should return the anthropic key, got %q", settings.APIKey())
	}
	if settings.TurnTimeout != 30*time.Second {
		t.Errorf("turn timeout not applied: %v", settings.TurnTimeout)
	}
	if len(settings.CORSOrigins) != 2 || settings.CORSOrigins[1] != "http://b.example" {
		t.Errorf("cors origins not parsed: %v", settings.CORSOrigins)
	}
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	if _, err := config.Load(afero.NewMemMapFs(), "does-not-exist.yaml"); err != nil {
		t.Errorf("missing config file should not error: %v", err)
	}
}
