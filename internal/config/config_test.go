package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dropline/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Storage.Backend != config.BackendSQLite || cfg.Storage.Key != "leaked_episodes" {
		t.Fatalf("unexpected storage defaults: %+v", cfg.Storage)
	}
	if cfg.Latency.Update.Duration != 400*time.Millisecond || cfg.Gate.ScreenDelay.Duration != 800*time.Millisecond {
		t.Fatalf("unexpected durations: %+v %+v", cfg.Latency, cfg.Gate)
	}
	if cfg.Gate.Passphrase != "Loki1loki" || cfg.Stock.Low != 10 || cfg.Stock.Critical != 3 {
		t.Fatalf("unexpected gate/stock defaults: %+v %+v", cfg.Gate, cfg.Stock)
	}
}

func TestFromYAMLKeepsDefaults(t *testing.T) {
	cfg, err := config.FromYAML([]byte("storage:\n  backend: file\nlatency:\n  list: 0s\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Backend != config.BackendFile || cfg.Storage.Key != "leaked_episodes" {
		t.Fatalf("unexpected storage: %+v", cfg.Storage)
	}
	if cfg.Latency.List.Duration != 0 || cfg.Latency.Get.Duration != 200*time.Millisecond {
		t.Fatalf("unexpected latency: %+v", cfg.Latency)
	}
}

func TestFromTOML(t *testing.T) {
	data := []byte(`
[storage]
backend = "memory"

[gate]
passphrase = "hunter2"
confirm_delay = "1s"

[log]
format = "json"
`)
	cfg, err := config.FromTOML(data)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Backend != config.BackendMemory || cfg.Gate.Passphrase != "hunter2" || cfg.Gate.ConfirmDelay.Duration != time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"backend", "storage:\n  backend: redis\n", "config.storage.backend"},
		{"key", "storage:\n  key: \"\"\n", "config.storage.key"},
		{"latency", "latency:\n  get: -1s\n", "config.latency.get"},
		{"passphrase", "gate:\n  passphrase: \"\"\n", "config.gate.passphrase"},
		{"stock", "stock:\n  low: 2\n  critical: 5\n", "config.stock"},
		{"log level", "log:\n  level: loud\n", "config.log.level"},
		{"duration syntax", "latency:\n  list: soon\n", "invalid config yaml"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.FromYAML([]byte(tc.yaml))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if cfg, err := config.LoadOptional(dir); err != nil || cfg != nil {
		t.Fatalf("expected nil config for empty workspace, got %v %v", cfg, err)
	}
	if _, err := config.Load(dir); err == nil || !strings.Contains(err.Error(), "config init") {
		t.Fatalf("expected not-found hint, got %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "dropline.toml"), []byte("[stock]\nlow = 20\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(dir)
	if err != nil || cfg.Stock.Low != 20 {
		t.Fatalf("toml load: %+v %v", cfg, err)
	}
	if err := os.WriteFile(config.Path(dir), []byte(config.GenerateDefault()), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = config.Load(dir)
	if err != nil || cfg.Stock.Low != 10 {
		t.Fatalf("yaml should win over toml: %+v %v", cfg, err)
	}
}
