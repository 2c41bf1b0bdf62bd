// Package config loads pipetbot settings from defaults, a YAML file and
// PIPETBOT_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mastercactapus/pipetbot/coord"
	"github.com/mastercactapus/pipetbot/plate"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. PIPETBOT_SERIAL_PORT.
const EnvPrefix = "PIPETBOT"

// Config is the complete pipetbot configuration.
type Config struct {
	Serial SerialConfig  `mapstructure:"serial"`
	SPJS   SPJSConfig    `mapstructure:"spjs"`
	Server ServerConfig  `mapstructure:"server"`
	Deck   DeckConfig    `mapstructure:"deck"`
	Plates []PlateConfig `mapstructure:"plates"`
}

// SerialConfig controls the controller connection.
type SerialConfig struct {
	// Port is connected on startup when set.
	Port string `mapstructure:"port"`
	Baud int    `mapstructure:"baud"`

	ConnectTimeoutMs int `mapstructure:"connect_timeout_ms"`
	// AckTimeoutMs bounds the wait for each acknowledgement; 0 waits forever.
	AckTimeoutMs int `mapstructure:"ack_timeout_ms"`

	DoneToken       string `mapstructure:"done_token"`
	CalibratedToken string `mapstructure:"calibrated_token"`
	// Terminator is appended to each command, e.g. "\n".
	Terminator string `mapstructure:"terminator"`
}

// SPJSConfig selects a Serial Port JSON Server instead of a local port.
type SPJSConfig struct {
	// URL of the websocket endpoint; empty uses a local port.
	URL string `mapstructure:"url"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	DataDir string `mapstructure:"data_dir"`
}

// DeckConfig is the reachable area of the arm, in millimeters.
type DeckConfig struct {
	Width  float64 `mapstructure:"width"`
	Depth  float64 `mapstructure:"depth"`
	Height float64 `mapstructure:"height"`

	// SurfaceZ is the probe reading of the bare deck; leveled well heights
	// are relative to it.
	SurfaceZ float64 `mapstructure:"surface_z"`
}

// PlateConfig is a plate placed on the deck at startup.
type PlateConfig struct {
	Name     string      `mapstructure:"name"`
	Ordering string      `mapstructure:"ordering"`
	Corner   coord.Point `mapstructure:"corner"`
	Specs    plate.Specs `mapstructure:"specs"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Baud:             9600,
			ConnectTimeoutMs: 2000,
			AckTimeoutMs:     120000,
			DoneToken:        "Done",
			CalibratedToken:  "Finished Calibration",
		},
		Server: ServerConfig{
			Addr:    ":9091",
			DataDir: "./data",
		},
		Deck: DeckConfig{
			Width:  300,
			Depth:  300,
			Height: 100,
		},
	}
}

// ConnectTimeout returns the port open bound.
func (c *SerialConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutMs) * time.Millisecond
}

// AckTimeout returns the per-command acknowledgement bound.
func (c *SerialConfig) AckTimeout() time.Duration {
	return time.Duration(c.AckTimeoutMs) * time.Millisecond
}

// Bounds returns the far corner of the deck.
func (c *DeckConfig) Bounds() coord.Point {
	return coord.Point{X: c.Width, Y: c.Depth, Z: c.Height}
}

// SetDefaults registers every default with v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("serial.port", defaults.Serial.Port)
	v.SetDefault("serial.baud", defaults.Serial.Baud)
	v.SetDefault("serial.connect_timeout_ms", defaults.Serial.ConnectTimeoutMs)
	v.SetDefault("serial.ack_timeout_ms", defaults.Serial.AckTimeoutMs)
	v.SetDefault("serial.done_token", defaults.Serial.DoneToken)
	v.SetDefault("serial.calibrated_token", defaults.Serial.CalibratedToken)
	v.SetDefault("serial.terminator", defaults.Serial.Terminator)

	v.SetDefault("spjs.url", defaults.SPJS.URL)

	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.data_dir", defaults.Server.DataDir)

	v.SetDefault("deck.width", defaults.Deck.Width)
	v.SetDefault("deck.depth", defaults.Deck.Depth)
	v.SetDefault("deck.height", defaults.Deck.Height)
	v.SetDefault("deck.surface_z", defaults.Deck.SurfaceZ)
}

// New returns a viper instance with defaults and environment overrides set.
// If file is empty, config.yaml is searched in the working directory and
// ConfigDir.
func New(file string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(ConfigDir())
	}
	return v
}

// Read reads the config file, if any. A missing file is not an error
// unless it was named explicitly.
func Read(v *viper.Viper) error {
	err := v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return nil
	}
	return err
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the user's pipetbot config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pipetbot")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pipetbot"
	}
	return filepath.Join(home, ".config", "pipetbot")
}
