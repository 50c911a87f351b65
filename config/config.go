// Package config holds the process-wide default byte order.
//
// The default is read once, from the MEMLAYOUT_ENDIANNESS environment
// variable or from the file named by MEMLAYOUT_CONFIG, and never changes
// afterwards. Programs that want an explicit value call Init before any
// view is constructed.
package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/wippyai/memlayout/endian"
	"github.com/wippyai/memlayout/errors"
)

const (
	// EnvPrefix is prepended to every configuration key read from the environment.
	EnvPrefix = "MEMLAYOUT"

	keyEndianness = "endianness"
	keyConfigFile = "config"
)

// Config is the process-wide configuration.
type Config struct {
	Endianness endian.Endianness
}

var (
	mu      sync.Mutex
	current *Config
)

// Load reads the configuration from the environment and, when
// MEMLAYOUT_CONFIG is set, from that file. Environment values take
// precedence over the file. Load does not install the result.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	if err := v.BindEnv(keyEndianness); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "bind endianness")
	}
	if err := v.BindEnv(keyConfigFile); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "bind config file")
	}
	v.SetDefault(keyEndianness, endian.Native.String())

	if path := v.GetString(keyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err,
				fmt.Sprintf("read config file %s", path))
		}
	}

	name := v.GetString(keyEndianness)
	if name == "" {
		name = endian.Native.String()
	}
	e, err := endian.Parse(name)
	if err != nil {
		return Config{}, err
	}
	return Config{Endianness: e}, nil
}

// Init installs cfg as the process configuration. It fails once a
// configuration has been installed or loaded.
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		return errors.InvalidInput(errors.PhaseConfig, "configuration already initialized")
	}
	if cfg.Endianness == endian.Unspecified {
		cfg.Endianness = endian.Native
	}
	current = &cfg
	Logger().Debug("configuration installed", zap.Stringer("endianness", cfg.Endianness))
	return nil
}

// Get returns the installed configuration, loading it on first use.
// A configuration that fails to load is logged and replaced by the
// native byte order.
func Get() Config {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		cfg, err := Load()
		if err != nil {
			Logger().Warn("invalid configuration, using native byte order", zap.Error(err))
			cfg = Config{Endianness: endian.Native}
		}
		current = &cfg
	}
	return *current
}

// DefaultEndianness returns the process default byte order.
func DefaultEndianness() endian.Endianness {
	return Get().Endianness
}

func reset() {
	mu.Lock()
	current = nil
	mu.Unlock()
}
