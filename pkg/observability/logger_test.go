package observability

import (
    "os"
    "path/filepath"
    "strings"
    "testing"

    "go.uber.org/zap"

    "github.com/mrdav30/Rimgate-sub001/pkg/config"
)

func TestSetupLoggerWritesFile(t *testing.T) {
    prev := zap.L()
    defer zap.ReplaceGlobals(prev)

    path := filepath.Join(t.TempDir(), "logs", "sim.log")
    lg, err := SetupLogger(config.LogConfig{Level: "debug", Format: "json", Outputs: []string{path}})
    if err != nil { t.Fatalf("setup: %v", err) }
    zap.L().Info("link opened", zap.String("addr", "addr:1"))
    _ = lg.Sync()

    b, err := os.ReadFile(path)
    if err != nil { t.Fatalf("read: %v", err) }
    if !strings.Contains(string(b), `"msg":"link opened"`) { t.Fatalf("unexpected log content: %s", b) }
}

func TestSetupLoggerRejectsLevel(t *testing.T) {
    if _, err := SetupLogger(config.LogConfig{Level: "loud"}); err == nil {
        t.Fatalf("expected error for bad level")
    }
}

func TestParseLevelWarningAlias(t *testing.T) {
    lvl, err := parseLevel("Warning")
    if err != nil { t.Fatalf("parse: %v", err) }
    if lvl.Level() != zap.WarnLevel { t.Fatalf("want warn, got %v", lvl.Level()) }
}
