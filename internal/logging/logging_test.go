package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bookmytix/admin-core/internal/config"
	log "github.com/sirupsen/logrus"
)

func TestSetupRejectsUnknownLevel(t *testing.T) {
	if _, errSetup := Setup(config.LoggingConfig{Level: "chatty"}); errSetup == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestSetupWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "admin.log")
	closer, errSetup := Setup(config.LoggingConfig{Level: "debug", File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1})
	if errSetup != nil {
		t.Fatalf("setup: %v", errSetup)
	}
	t.Cleanup(func() {
		log.SetOutput(os.Stdout)
		log.SetLevel(log.InfoLevel)
	})

	log.WithField("rule_id", "r1").Info("pricing rule toggled")
	if errClose := closer.Close(); errClose != nil {
		t.Fatalf("close: %v", errClose)
	}

	data, errRead := os.ReadFile(path)
	if errRead != nil {
		t.Fatalf("read log: %v", errRead)
	}
	if !strings.Contains(string(data), "pricing rule toggled") || !strings.Contains(string(data), "rule_id=r1") {
		t.Fatalf("unexpected log content: %s", data)
	}
	if log.GetLevel() != log.DebugLevel {
		t.Fatalf("expected debug level, got %s", log.GetLevel())
	}
}
