// Package observability wires zap for the simulator binaries and tests.
package observability

import (
    "fmt"
    "os"
    "path/filepath"
    "strings"

    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
    "gopkg.in/natefinch/lumberjack.v2"

    "github.com/mrdav30/Rimgate-sub001/pkg/config"
)

// SetupLogger builds a zap.Logger from c, installs it as the global logger
// and redirects the stdlib log package. The caller should defer Sync.
func SetupLogger(c config.LogConfig) (*zap.Logger, error) {
    level, err := parseLevel(c.Level)
    if err != nil { return nil, err }

    encoder := newEncoder(c)
    cores := make([]zapcore.Core, 0, len(c.Outputs))
    for _, out := range c.Outputs {
        ws, err := sinkFor(out, c)
        if err != nil { return nil, err }
        cores = append(cores, zapcore.NewCore(encoder, ws, level))
    }
    if len(cores) == 0 {
        cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
    }

    opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)}
    if c.Development { opts = append(opts, zap.Development()) }

    logger := zap.New(zapcore.NewTee(cores...), opts...)
    zap.ReplaceGlobals(logger)
    _, _ = zap.RedirectStdLogAt(logger, zap.InfoLevel)
    return logger, nil
}

func parseLevel(s string) (zap.AtomicLevel, error) {
    s = strings.ToLower(strings.TrimSpace(s))
    if s == "" { return zap.NewAtomicLevelAt(zap.InfoLevel), nil }
    if s == "warning" { s = "warn" }
    lvl, err := zap.ParseAtomicLevel(s)
    if err != nil { return lvl, fmt.Errorf("log level: %w", err) }
    return lvl, nil
}

func newEncoder(c config.LogConfig) zapcore.Encoder {
    var cfg zapcore.EncoderConfig
    if c.Development {
        cfg = zap.NewDevelopmentEncoderConfig()
        cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
    } else {
        cfg = zap.NewProductionEncoderConfig()
        cfg.EncodeTime = zapcore.ISO8601TimeEncoder
    }
    if strings.EqualFold(c.Format, "json") {
        // colour codes do not belong in json
        cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
        return zapcore.NewJSONEncoder(cfg)
    }
    return zapcore.NewConsoleEncoder(cfg)
}

// sinkFor maps one configured output to a WriteSyncer. Anything that is not
// stdout or stderr is a file path, rotated by lumberjack when enabled.
func sinkFor(out string, c config.LogConfig) (zapcore.WriteSyncer, error) {
    switch strings.ToLower(out) {
    case "stdout":
        return zapcore.Lock(os.Stdout), nil
    case "stderr":
        return zapcore.Lock(os.Stderr), nil
    }
    r := c.Rotation
    if r.Enable {
        name := out
        if strings.TrimSpace(r.Filename) != "" { name = r.Filename }
        return zapcore.AddSync(&lumberjack.Logger{
            Filename:   name,
            MaxSize:    atLeast(r.MaxSizeMB, 10),
            MaxBackups: atLeast(r.MaxBackups, 1),
            MaxAge:     atLeast(r.MaxAgeDays, 7),
            Compress:   r.Compress,
        }), nil
    }
    if dir := filepath.Dir(out); dir != "." {
        if err := os.MkdirAll(dir, 0o755); err != nil { return nil, fmt.Errorf("log dir %s: %w", dir, err) }
    }
    f, err := os.OpenFile(out, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
    if err != nil { return nil, fmt.Errorf("open log %s: %w", out, err) }
    return zapcore.AddSync(f), nil
}

func atLeast(v, floor int) int {
    if v < floor { return floor }
    return v
}
