// Package config handles configuration loading using viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"gridlog/internal/log"
)

// Config is the top-level recorder configuration.
type Config struct {
	Listen ListenConfig `mapstructure:"listen"`
	Format FormatConfig `mapstructure:"format"`
	Output OutputConfig `mapstructure:"output"`
	Queue  QueueConfig  `mapstructure:"queue"`
	Log    log.Config   `mapstructure:"log"`
}

// ListenConfig contains the UDP socket settings.
type ListenConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// ReadTimeout bounds each receive call; cancellation is observed
	// within one interval.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	BufferSize  int           `mapstructure:"buffer_size"`
}

// FormatConfig pins the expected wire format. Datagrams declaring any
// other format/year are rejected before payload decoding.
type FormatConfig struct {
	PacketFormat uint16 `mapstructure:"packet_format"`
	GameYear     uint8  `mapstructure:"game_year"`
}

// OutputConfig contains the CSV output settings.
type OutputConfig struct {
	Dir           string        `mapstructure:"dir"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
	// Summary enables the machine-readable YAML summary sidecar written
	// next to the CSV on close.
	Summary bool `mapstructure:"summary"`
}

// QueueConfig configures the bounded channel between the capture and
// process stages.
type QueueConfig struct {
	Capacity int `mapstructure:"capacity"`
	// DropPolicy is "oldest" (drop head, keep newest) or "newest".
	DropPolicy string `mapstructure:"drop_policy"`
}

const (
	DropOldest = "oldest"
	DropNewest = "newest"
)

// Load reads configuration from the optional file at path and from
// GRIDLOG_* environment variables, on top of built-in defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen.host", "0.0.0.0")
	v.SetDefault("listen.port", 20777)
	v.SetDefault("listen.read_timeout", 500*time.Millisecond)
	v.SetDefault("listen.buffer_size", 2048)

	v.SetDefault("format.packet_format", 2023)
	v.SetDefault("format.game_year", 23)

	v.SetDefault("output.dir", "telemetry_data")
	v.SetDefault("output.flush_interval", time.Second)
	v.SetDefault("output.summary", true)

	v.SetDefault("queue.capacity", 1024)
	v.SetDefault("queue.drop_policy", DropOldest)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.path", "gridlog.log")
	v.SetDefault("log.file.max_size_mb", 50)
	v.SetDefault("log.file.max_backups", 3)
	v.SetDefault("log.file.max_age_days", 7)

	v.SetEnvPrefix("GRIDLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Listen.Port <= 0 || c.Listen.Port > 65535 {
		return fmt.Errorf("config: invalid listen.port %d", c.Listen.Port)
	}
	if c.Listen.ReadTimeout <= 0 {
		return fmt.Errorf("config: listen.read_timeout must be positive")
	}
	if c.Output.FlushInterval <= 0 {
		return fmt.Errorf("config: output.flush_interval must be positive")
	}
	if c.Queue.Capacity <= 0 {
		return fmt.Errorf("config: queue.capacity must be positive")
	}
	switch c.Queue.DropPolicy {
	case DropOldest, DropNewest:
	default:
		return fmt.Errorf("config: unknown queue.drop_policy %q", c.Queue.DropPolicy)
	}
	return nil
}
