package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/word-sys/puls/internal/errors"
)

const (
	// ConfigFileName is the per-directory config file name.
	ConfigFileName = ".puls.yaml"
	// GlobalConfigDir is the directory for global config, under $HOME.
	GlobalConfigDir = ".config/puls"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Load assembles a finalized Config. The search order for the config file is:
//
//  1. explicit path (from --config)
//  2. .puls.yaml in the current directory
//  3. ~/.config/puls/config.yaml
//
// A missing file is not an error unless it was explicitly requested.
// Environment variables prefixed PULS_ override file values; callers layer
// flag values on top of the returned Config themselves.
func Load(explicit string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PULS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("safe", def.SafeMode)
	v.SetDefault("refresh", def.RefreshInterval)
	v.SetDefault("history", def.HistoryLength)
	v.SetDefault("docker", def.DockerEnabled)
	v.SetDefault("gpu", def.GPUEnabled)
	v.SetDefault("network", def.NetworkEnabled)
	v.SetDefault("show_system", def.ShowSystem)
	v.SetDefault("verbose", def.Verbose)

	path, err := find(explicit)
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file "+path,
				"Check the file is valid YAML")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid configuration values",
			"Check types in "+path)
	}

	return cfg.Finalize(), nil
}

// find locates the config file, returning "" when none exists.
func find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Specified config file not found: "+explicit,
				"Check the path is correct")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err == nil {
		local := filepath.Join(cwd, ConfigFileName)
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// WriteDefault writes a commented default config file to path, replacing
// whatever is there. Callers decide whether an existing file may be
// overwritten; the init command gates that behind --force.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create config directory",
			"Check directory permissions")
	}

	out, err := yaml.Marshal(Default())
	if err != nil {
		return errors.Wrap(err, "Failed to encode default config")
	}

	header := "# puls configuration. Flags and PULS_* environment variables override\n" +
		"# these values. Durations accept Go syntax, e.g. 500ms or 2s.\n"
	return os.WriteFile(path, append([]byte(header), out...), 0o644)
}

// ParseRefresh converts a user-supplied refresh string to a duration,
// accepting both Go duration syntax ("500ms") and bare milliseconds ("500").
func ParseRefresh(s string) (time.Duration, error) {
	if s == "" {
		return DefaultRefreshInterval, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	if ms, err := time.ParseDuration(s + "ms"); err == nil {
		return ms, nil
	}
	return 0, errors.New(errors.ErrConfig,
		"Invalid refresh interval: "+s,
		"Use a duration like 500ms, 1s, or a bare millisecond count")
}
