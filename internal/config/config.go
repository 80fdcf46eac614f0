package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
	Game   GameConfig   `yaml:"game"`
	Static StaticConfig `yaml:"static"`
	Worker WorkerConfig `yaml:"worker"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// AuthConfig contains signed-payload verification settings.
type AuthConfig struct {
	// Secret is the shared launcher secret. Empty disables payload
	// verification entirely, which is only acceptable for local use.
	Secret string `yaml:"-"` // env-only, never in YAML
}

// GameConfig contains the tunable game-rule constants.
type GameConfig struct {
	MaxDeltaPerSync int64    `yaml:"max_delta_per_sync"`
	SyncCooldown    Duration `yaml:"sync_cooldown"`
	LeaderboardSize int      `yaml:"leaderboard_size"`
	JournalSize     int      `yaml:"journal_size"`
}

// StaticConfig contains game-asset serving settings.
type StaticConfig struct {
	// Dir is the directory of client assets served at /. Empty disables
	// static serving.
	Dir string `yaml:"dir"`
}

// WorkerConfig contains background worker settings.
type WorkerConfig struct {
	StatsInterval Duration `yaml:"stats_interval"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
// Returns an immutable Config suitable for concurrent read access.
func Load() (*Config, error) {
	cfg := newDefaults()

	configPath := getEnv("COINRUSH_CONFIG_PATH", "config/coinrush.yaml")

	// Load YAML file if it exists (missing file is not an error)
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific path.
// Used for testing and explicit path specification.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDefaults returns a Config with all default values.
func newDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(15 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Game: GameConfig{
			MaxDeltaPerSync: 50,
			SyncCooldown:    Duration(500 * time.Millisecond),
			LeaderboardSize: 100,
			JournalSize:     256,
		},
		Worker: WorkerConfig{
			StatsInterval: Duration(1 * time.Minute),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// loadYAMLFile loads configuration from a YAML file if it exists.
// Missing file is not an error; we just use defaults.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("COINRUSH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("COINRUSH_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = Duration(d)
		}
	}
	if v := os.Getenv("COINRUSH_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = Duration(d)
		}
	}
	if v := os.Getenv("COINRUSH_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ShutdownTimeout = Duration(d)
		}
	}

	// Auth
	if v := os.Getenv("COINRUSH_BOT_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}

	// Game
	if v := os.Getenv("COINRUSH_MAX_DELTA_PER_SYNC"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Game.MaxDeltaPerSync = n
		}
	}
	if v := os.Getenv("COINRUSH_SYNC_COOLDOWN"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Game.SyncCooldown = Duration(d)
		}
	}
	if v := os.Getenv("COINRUSH_LEADERBOARD_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Game.LeaderboardSize = n
		}
	}
	if v := os.Getenv("COINRUSH_JOURNAL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Game.JournalSize = n
		}
	}

	// Static
	if v := os.Getenv("COINRUSH_STATIC_DIR"); v != "" {
		cfg.Static.Dir = v
	}

	// Worker
	if v := os.Getenv("COINRUSH_STATS_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Worker.StatsInterval = Duration(d)
		}
	}

	// Log
	if v := os.Getenv("COINRUSH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("COINRUSH_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// validate checks configuration consistency. An empty launcher secret
// is allowed (verification disabled) and surfaced by the caller at
// startup rather than rejected here.
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Game.MaxDeltaPerSync <= 0 {
		return fmt.Errorf("game.max_delta_per_sync must be positive, got %d", c.Game.MaxDeltaPerSync)
	}
	if time.Duration(c.Game.SyncCooldown) <= 0 {
		return fmt.Errorf("game.sync_cooldown must be positive, got %s", time.Duration(c.Game.SyncCooldown))
	}
	if c.Game.LeaderboardSize <= 0 {
		return fmt.Errorf("game.leaderboard_size must be positive, got %d", c.Game.LeaderboardSize)
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
