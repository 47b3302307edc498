package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bookloop/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookloop.log")
	cfg := config.DefaultConfig().WithLogFile(path).WithVerbose(true)

	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("catalog installed")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"catalog installed"`) {
		t.Errorf("Expected debug entry in log file, got %s", data)
	}
	if !strings.Contains(string(data), `"logger":"bookloop"`) {
		t.Errorf("Expected named logger, got %s", data)
	}
}

func TestNewInfoLevelDropsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookloop.log")

	logger, err := New(config.DefaultConfig().WithLogFile(path))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") {
		t.Error("Expected debug entry to be filtered at info level")
	}
	if !strings.Contains(string(data), "shown") {
		t.Error("Expected info entry to be written")
	}
}
