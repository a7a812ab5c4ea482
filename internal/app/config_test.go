package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

func configTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatal(err)
	}
	return log
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(configTestLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.WeakTopicBias != 0.7 {
		t.Fatalf("weak topic bias %v, want 0.7", cfg.Engine.WeakTopicBias)
	}
	if cfg.Dispute.MaxDisputes != 3 || cfg.Dispute.AcceptConfidence != 0.7 {
		t.Fatalf("dispute defaults: %+v", cfg.Dispute)
	}
	if cfg.Dispute.SearchDepth != "basic" || cfg.Dispute.MinArgumentLen != 30 {
		t.Fatalf("dispute defaults: %+v", cfg.Dispute)
	}
}

func TestLoadConfigYAMLAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	raw := []byte(`
engine:
  weak_topic_bias: 0.5
dispute:
  max_disputes: 5
  accept_confidence: 0.8
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ENGINE_CONFIG_PATH", path)
	t.Setenv("MAX_DISPUTES_PER_QUESTION", "7")

	cfg, err := LoadConfig(configTestLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.WeakTopicBias != 0.5 {
		t.Fatalf("yaml value not applied: %v", cfg.Engine.WeakTopicBias)
	}
	if cfg.Dispute.AcceptConfidence != 0.8 {
		t.Fatalf("yaml value not applied: %v", cfg.Dispute.AcceptConfidence)
	}
	if cfg.Dispute.MaxDisputes != 7 {
		t.Fatalf("env override lost to yaml: %d", cfg.Dispute.MaxDisputes)
	}
	// untouched keys keep their defaults
	if cfg.Dispute.SearchMaxResults != 5 {
		t.Fatalf("default lost: %d", cfg.Dispute.SearchMaxResults)
	}
}
