package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/core"
)

// Config holds all configuration for the application
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Fleet      FleetConfig      `mapstructure:"fleet"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Session    SessionConfig    `mapstructure:"session"`
}

// SimulationConfig holds the trial runner settings
type SimulationConfig struct {
	Trials       int    `mapstructure:"trials"`
	Workers      int    `mapstructure:"workers"`
	Seed         uint64 `mapstructure:"seed"`
	Mode         string `mapstructure:"mode"`
	MaxBoards    uint64 `mapstructure:"max_boards"`
	AnchorFinder string `mapstructure:"anchor_finder"`
	Selector     string `mapstructure:"selector"`
}

// FleetConfig holds the ship lengths still to be found at the start of a game
type FleetConfig struct {
	Lengths []int `mapstructure:"lengths"`
}

// Fleet builds the fleet described by Lengths.
func (f FleetConfig) Fleet() (core.Fleet, error) {
	return core.NewFleet(f.Lengths)
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SessionConfig holds interactive session settings
type SessionConfig struct {
	ShowGrid bool `mapstructure:"show_grid"`
}

const (
	ModeSample     = "sample"
	ModeExhaustive = "exhaustive"
)

var (
	// Global config instance
	mu          sync.RWMutex
	cfg         *Config
	v           *viper.Viper
	environment string
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Simulation defaults
	v.SetDefault("simulation.trials", 1_000_000)
	v.SetDefault("simulation.workers", 0)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.mode", ModeSample)
	v.SetDefault("simulation.max_boards", 50_000_000)
	v.SetDefault("simulation.anchor_finder", "auto")
	v.SetDefault("simulation.selector", "auto")

	// Fleet defaults
	v.SetDefault("fleet.lengths", core.DefaultLengths)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Session defaults
	v.SetDefault("session.show_grid", true)
}

// Init initializes the configuration
func Init(configPath string) error {
	nv := viper.New()

	// Set defaults before loading any config
	setViperDefaults(nv)

	if configPath != "" {
		nv.SetConfigFile(configPath)
	} else {
		nv.SetConfigName("config")
		nv.SetConfigType("yaml")
		nv.AddConfigPath(".")
		nv.AddConfigPath("./config")
		nv.AddConfigPath("/etc/battleship-heatmap")
	}

	nv.SetEnvPrefix("BHM")
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	if err := nv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if !missing {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; use defaults
	}

	c, err := decode(nv)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	v, cfg, environment = nv, c, ""
	return nil
}

func decode(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(c); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

// Get returns the current config. Callers must treat it as read-only; a
// reload replaces it rather than mutating it.
func Get() *Config {
	mu.RLock()
	c := cfg
	mu.RUnlock()
	if c != nil {
		return c
	}
	// Initialize with defaults if not already initialized
	if err := Init(""); err != nil {
		panic("failed to initialize config with defaults: " + err.Error())
	}
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	mu.RLock()
	defer mu.RUnlock()
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig overlays config.<env>.yaml from the directory of the
// loaded config file (or the working directory) onto the current config. A
// missing overlay file is not an error. The overlay is reapplied after every
// hot reload.
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}
	vp := GetViper()
	if err := mergeEnvironment(vp, env); err != nil {
		return err
	}
	if err := reload(vp); err != nil {
		return err
	}
	mu.Lock()
	environment = env
	mu.Unlock()
	return nil
}

func mergeEnvironment(vp *viper.Viper, env string) error {
	dir := "."
	if used := vp.ConfigFileUsed(); used != "" {
		dir = filepath.Dir(used)
	}
	envFile := filepath.Join(dir, fmt.Sprintf("config.%s.yaml", env))

	overlay := viper.New()
	overlay.SetConfigFile(envFile)
	if err := overlay.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug().Str("file", envFile).Msg("No environment config overlay")
			return nil
		}
		return fmt.Errorf("error reading environment config %s: %w", envFile, err)
	}
	if err := vp.MergeConfigMap(overlay.AllSettings()); err != nil {
		return fmt.Errorf("error merging environment config %s: %w", envFile, err)
	}
	log.Debug().Str("file", envFile).Msg("Merged environment config")
	return nil
}

// Set overrides a single key at runtime. Overrides survive hot reloads. A
// value that fails validation is rejected and the key keeps its previous
// value.
func Set(key string, value interface{}) error {
	vp := GetViper()
	prev := vp.Get(key)
	vp.Set(key, value)
	if err := reload(vp); err != nil {
		vp.Set(key, prev)
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func reload(vp *viper.Viper) error {
	c, err := decode(vp)
	if err != nil {
		return err
	}
	mu.Lock()
	cfg = c
	mu.Unlock()
	return nil
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return GetViper().ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. An edit that fails
// validation is logged and the previous config stays in effect.
func WatchConfig(onChange func(*Config)) {
	vp := GetViper()
	vp.OnConfigChange(func(e fsnotify.Event) {
		mu.RLock()
		env := environment
		mu.RUnlock()
		if env != "" {
			if err := mergeEnvironment(vp, env); err != nil {
				log.Warn().Err(err).Str("env", env).Msg("Ignoring environment overlay after config change")
			}
		}
		if err := reload(vp); err != nil {
			log.Warn().Err(err).Str("file", e.Name).Msg("Ignoring invalid config change")
			return
		}
		log.Info().Str("file", e.Name).Str("op", e.Op.String()).Msg("Config reloaded")
		if onChange != nil {
			onChange(Get())
		}
	})
	vp.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	// Validate simulation settings
	if c.Simulation.Trials <= 0 {
		return fmt.Errorf("simulation.trials must be positive")
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("simulation.workers must be non-negative")
	}
	switch c.Simulation.Mode {
	case ModeSample, ModeExhaustive:
	default:
		return fmt.Errorf("simulation.mode must be %q or %q, got %q", ModeSample, ModeExhaustive, c.Simulation.Mode)
	}
	if c.Simulation.MaxBoards == 0 {
		return fmt.Errorf("simulation.max_boards must be positive")
	}
	switch c.Simulation.AnchorFinder {
	case "", "auto", "scalar", "wide":
	default:
		return fmt.Errorf("simulation.anchor_finder must be auto, scalar or wide, got %q", c.Simulation.AnchorFinder)
	}
	switch c.Simulation.Selector {
	case "", "auto", "deposit", "popcount":
	default:
		return fmt.Errorf("simulation.selector must be auto, deposit or popcount, got %q", c.Simulation.Selector)
	}

	// Validate fleet
	if len(c.Fleet.Lengths) == 0 {
		return fmt.Errorf("fleet.lengths must not be empty")
	}
	if _, err := c.Fleet.Fleet(); err != nil {
		return fmt.Errorf("fleet.lengths: %w", err)
	}

	// Validate logging
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	return nil
}
