// Package config provides YAML-based configuration loading for the link simulator.
package config

import (
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"

    "github.com/spf13/viper"
)

// Config is the root application configuration.
type Config struct {
    // AppName optional logical name of the simulator instance
    AppName string `mapstructure:"app_name"`

    // DataDir base directory for saved snapshots
    DataDir string `mapstructure:"data_dir"`

    // Log holds logging configuration
    Log LogConfig `mapstructure:"log"`

    // Link holds protocol timings
    Link LinkConfig `mapstructure:"link"`

    // World lists the locations that can host endpoints
    World WorldConfig `mapstructure:"world"`

    // Persist controls snapshot encoding
    Persist PersistConfig `mapstructure:"persist"`

    // Sim drives the command-line simulation run
    Sim SimConfig `mapstructure:"sim"`
}

// LogConfig defines logger settings.
type LogConfig struct {
    // Level: debug, info, warn, error
    Level string `mapstructure:"level"`
    // Format: console or json
    Format string `mapstructure:"format"`
    // Outputs: list of outputs: stdout, stderr, or file paths
    Outputs []string `mapstructure:"outputs"`

    // Rotation controls file rotation when writing to files
    Rotation RotationConfig `mapstructure:"rotation"`
    // Development toggles development-friendly logging options
    Development bool `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
    Enable     bool   `mapstructure:"enable"`
    Filename   string `mapstructure:"filename"`
    MaxSizeMB  int    `mapstructure:"max_size_mb"`
    MaxBackups int    `mapstructure:"max_backups"`
    MaxAgeDays int    `mapstructure:"max_age_days"`
    Compress   bool   `mapstructure:"compress"`
}

// LinkConfig holds protocol timings, in simulation steps.
type LinkConfig struct {
    InstabilityWindow int     `mapstructure:"instability_window"`
    InstabilityChance float64 `mapstructure:"instability_chance"`
    InstabilityRadius int     `mapstructure:"instability_radius"`
    DeliveryDelayMin  int     `mapstructure:"delivery_delay_min"`
    DeliveryDelayMax  int     `mapstructure:"delivery_delay_max"`
    IdleCloseTicks    int     `mapstructure:"idle_close_ticks"`
    // Seed for delivery timing and instability; 0 picks a time-based seed
    Seed int64 `mapstructure:"seed"`
}

// WorldConfig lists known locations.
type WorldConfig struct {
    Locations []LocationConfig `mapstructure:"locations"`
}

// LocationConfig describes one location.
type LocationConfig struct {
    Address      int32  `mapstructure:"address"`
    Name         string `mapstructure:"name"`
    Iris         bool   `mapstructure:"iris"`
    Materialized bool   `mapstructure:"materialized"`
    X            int    `mapstructure:"x"`
    Z            int    `mapstructure:"z"`
}

// PersistConfig controls snapshot encoding and where saves go.
type PersistConfig struct {
    // Format: json, cbor, proto or msgpack
    Format string `mapstructure:"format"`
    // Slot name written at the end of a run; empty disables saving
    Slot string `mapstructure:"slot"`
}

// SimConfig is the scripted workload of a command-line run.
type SimConfig struct {
    Ticks      int              `mapstructure:"ticks"`
    Dials      []DialConfig     `mapstructure:"dials"`
    Shipments  []ShipmentConfig `mapstructure:"shipments"`
    IrisClosed []int32           `mapstructure:"iris_closed"`
}

// DialConfig schedules a dial from one address to another.
type DialConfig struct {
    From  int32 `mapstructure:"from"`
    To    int32 `mapstructure:"to"`
    Delay int   `mapstructure:"delay"`
}

// ShipmentConfig sends objects from an address once it is linked.
type ShipmentConfig struct {
    From      int32  `mapstructure:"from"`
    Count     int    `mapstructure:"count"`
    Kind      string `mapstructure:"kind"` // cargo or actor
    Commanded bool   `mapstructure:"commanded"`
    AtTick    int    `mapstructure:"at_tick"`
}

// Default returns a Config populated with sensible defaults. The world and
// the scripted workload are left empty; they only come from a config file.
func Default() *Config {
    return &Config{
        AppName: "gatelink-sim",
        DataDir: "./data",
        Log: LogConfig{
            Level:       "info",
            Format:      "console",
            Outputs:     []string{"stdout"},
            Development: true,
            Rotation: RotationConfig{
                Enable:     false,
                Filename:   "logs/gatelink.log",
                MaxSizeMB:  50,
                MaxBackups: 3,
                MaxAgeDays: 28,
                Compress:   true,
            },
        },
        Link: LinkConfig{
            InstabilityWindow: 200,
            InstabilityChance: 0.05,
            InstabilityRadius: 3,
            DeliveryDelayMin:  10,
            DeliveryDelayMax:  80,
            IdleCloseTicks:    2500,
        },
        Persist: PersistConfig{Format: "cbor"},
        Sim:     SimConfig{Ticks: 3000},
    }
}

// Load reads configuration from the provided path (if non-empty),
// otherwise it searches common locations and supports environment overrides.
// Environment variables use the prefix GATELINK and `.`/`-` are replaced with `_`.
// Example: GATELINK_LOG_LEVEL=debug
func Load(path string) (*Config, error) {
    cfg := Default()

    v := viper.New()
    v.SetConfigType("yaml")
    v.SetEnvPrefix("GATELINK")
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
    v.AutomaticEnv()

    // seed defaults for viper so env-only configs work
    v.SetDefault("app_name", cfg.AppName)
    v.SetDefault("data_dir", cfg.DataDir)
    v.SetDefault("log.level", cfg.Log.Level)
    v.SetDefault("log.format", cfg.Log.Format)
    v.SetDefault("log.outputs", cfg.Log.Outputs)
    v.SetDefault("log.development", cfg.Log.Development)
    v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
    v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
    v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
    v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
    v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
    v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)
    v.SetDefault("link.instability_window", cfg.Link.InstabilityWindow)
    v.SetDefault("link.instability_chance", cfg.Link.InstabilityChance)
    v.SetDefault("link.instability_radius", cfg.Link.InstabilityRadius)
    v.SetDefault("link.delivery_delay_min", cfg.Link.DeliveryDelayMin)
    v.SetDefault("link.delivery_delay_max", cfg.Link.DeliveryDelayMax)
    v.SetDefault("link.idle_close_ticks", cfg.Link.IdleCloseTicks)
    v.SetDefault("link.seed", cfg.Link.Seed)
    v.SetDefault("persist.format", cfg.Persist.Format)
    v.SetDefault("persist.slot", cfg.Persist.Slot)
    v.SetDefault("sim.ticks", cfg.Sim.Ticks)

    // Choose config file
    if path == "" {
        if envPath := os.Getenv("GATELINK_CONFIG"); envPath != "" {
            path = envPath
        }
    }

    if path != "" {
        v.SetConfigFile(path)
    } else {
        // Search common locations with base name `gatelink`
        v.SetConfigName("gatelink")
        v.AddConfigPath(".")
        v.AddConfigPath("./configs")
        if home, err := os.UserHomeDir(); err == nil {
            v.AddConfigPath(filepath.Join(home, ".gatelink"))
        }
    }

    // Read config file if present; if not found, continue with defaults/env
    if err := v.ReadInConfig(); err != nil {
        var viperConfigFileNotFound viper.ConfigFileNotFoundError
        if !errors.As(err, &viperConfigFileNotFound) {
            return nil, fmt.Errorf("read config: %w", err)
        }
    }

    if err := v.Unmarshal(cfg); err != nil {
        return nil, fmt.Errorf("decode config: %w", err)
    }

    if err := cfg.validate(); err != nil {
        return nil, err
    }
    return cfg, nil
}

func (c *Config) validate() error {
    lvl := strings.ToLower(strings.TrimSpace(c.Log.Level))
    switch lvl {
    case "debug", "info", "warn", "warning", "error":
        // ok
    default:
        return fmt.Errorf("invalid log.level: %q", c.Log.Level)
    }

    if c.Log.Format == "" {
        c.Log.Format = "console"
    }
    if len(c.Log.Outputs) == 0 {
        c.Log.Outputs = []string{"stdout"}
    }

    l := &c.Link
    if l.InstabilityChance < 0 || l.InstabilityChance > 1 {
        return fmt.Errorf("invalid link.instability_chance: %v", l.InstabilityChance)
    }
    if l.DeliveryDelayMin < 0 || l.DeliveryDelayMax < l.DeliveryDelayMin {
        return fmt.Errorf("invalid link delivery delay range: [%d, %d]", l.DeliveryDelayMin, l.DeliveryDelayMax)
    }
    if l.IdleCloseTicks <= 0 {
        return fmt.Errorf("invalid link.idle_close_ticks: %d", l.IdleCloseTicks)
    }

    seen := make(map[int32]bool, len(c.World.Locations))
    for _, loc := range c.World.Locations {
        if loc.Address <= 0 { return fmt.Errorf("invalid world location address: %d", loc.Address) }
        if seen[loc.Address] { return fmt.Errorf("duplicate world location address: %d", loc.Address) }
        seen[loc.Address] = true
    }

    c.Persist.Format = strings.ToLower(strings.TrimSpace(c.Persist.Format))
    switch c.Persist.Format {
    case "":
        c.Persist.Format = "cbor"
    case "json", "cbor", "proto", "msgpack":
    default:
        return fmt.Errorf("invalid persist.format: %q", c.Persist.Format)
    }

    for i := range c.Sim.Shipments {
        c.Sim.Shipments[i].Kind = strings.ToLower(strings.TrimSpace(c.Sim.Shipments[i].Kind))
        // nothing else mandatory; unknown kinds ship as cargo
    }
    return nil
}
