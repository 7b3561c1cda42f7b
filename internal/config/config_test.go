package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Analysis.CompletedStatus != "済み" {
		t.Errorf("completed status = %q, want 済み", cfg.Analysis.CompletedStatus)
	}
	if cfg.Analysis.MinRepeatCount != 3 || cfg.Analysis.MinStylistCustomers != 10 || cfg.Analysis.MinCouponCustomers != 5 {
		t.Errorf("analysis thresholds = %d/%d/%d, want 3/10/5",
			cfg.Analysis.MinRepeatCount, cfg.Analysis.MinStylistCustomers, cfg.Analysis.MinCouponCustomers)
	}
	if cfg.Analysis.TargetFirstRepeat != 35.0 || cfg.Analysis.TargetSecondRepeat != 45.0 || cfg.Analysis.TargetThirdRepeat != 60.0 {
		t.Errorf("target rates = %v/%v/%v, want 35/45/60",
			cfg.Analysis.TargetFirstRepeat, cfg.Analysis.TargetSecondRepeat, cfg.Analysis.TargetThirdRepeat)
	}
	if cfg.Session.TTL() != 120*time.Minute {
		t.Errorf("session ttl = %v, want 2h", cfg.Session.TTL())
	}
	if cfg.Archive.Enabled {
		t.Error("archive must be disabled by default")
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9999
analysis:
  completed_status: done
  min_repeat_count: 2
session:
  redis_addr: "localhost:6379"
  ttl_minutes: 30
ingest:
  default_encoding: shift_jis
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Analysis.CompletedStatus != "done" {
		t.Errorf("completed status = %q", cfg.Analysis.CompletedStatus)
	}
	if cfg.Analysis.MinRepeatCount != 2 {
		t.Errorf("min repeat count = %d, want 2", cfg.Analysis.MinRepeatCount)
	}
	if cfg.Session.RedisAddr != "localhost:6379" || cfg.Session.TTL() != 30*time.Minute {
		t.Errorf("session = %+v", cfg.Session)
	}
	if cfg.Ingest.DefaultEncoding != "shift_jis" {
		t.Errorf("default encoding = %q", cfg.Ingest.DefaultEncoding)
	}
	// Unset fields still get defaults.
	if cfg.Analysis.MinStylistCustomers != 10 {
		t.Errorf("min stylist customers = %d, want default 10", cfg.Analysis.MinStylistCustomers)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load on a missing file should error")
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis.internal:6379")
	t.Setenv("DATABASE_URL", "postgres://u:p@db.internal/runs")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("CSV_DEFAULT_ENCODING", "cp932")

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Session.RedisAddr != "redis.internal:6379" {
		t.Errorf("redis addr = %q", cfg.Session.RedisAddr)
	}
	if !cfg.Archive.Enabled || cfg.Archive.DatabaseURL == "" {
		t.Error("DATABASE_URL must enable the archive")
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Ingest.DefaultEncoding != "cp932" {
		t.Errorf("default encoding = %q", cfg.Ingest.DefaultEncoding)
	}
}
