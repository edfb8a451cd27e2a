// Package config resolves marquee settings from defaults, an optional
// marquee.yaml, MARQUEE_* environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lixenwraith/marquee/constants"
	"github.com/lixenwraith/marquee/marquee"
	"github.com/lixenwraith/marquee/terminal"
)

// Keys shared by flags, config file and environment
const (
	KeyText      = "text"
	KeyDelay     = "delay"
	KeyDirection = "direction"
	KeyColumn    = "column"
	KeyRow       = "row"
	KeyFrames    = "frames"
	KeyBackend   = "backend"
	KeyChime     = "chime"
	KeyDebug     = "debug"
	KeyLogFile   = "logfile"
	KeyLogLevel  = "log-level"
	KeyConfigDir = "config-dir"
)

var keys = []string{
	KeyText, KeyDelay, KeyDirection, KeyColumn, KeyRow, KeyFrames,
	KeyBackend, KeyChime, KeyDebug, KeyLogFile, KeyLogLevel, KeyConfigDir,
}

// IsKey reports whether name is a configuration key
func IsKey(name string) bool {
	for _, k := range keys {
		if k == name {
			return true
		}
	}
	return false
}

const (
	configName = "marquee"
	envPrefix  = "MARQUEE"
)

// Settings is the resolved configuration for one process
type Settings struct {
	Text      string `mapstructure:"text"`
	Delay     int    `mapstructure:"delay"`
	Direction string `mapstructure:"direction"`
	Column    int    `mapstructure:"column"`
	Row       int    `mapstructure:"row"`
	Frames    int    `mapstructure:"frames"`
	Backend   string `mapstructure:"backend"`
	Chime     bool   `mapstructure:"chime"`
	Debug     bool   `mapstructure:"debug"`
	LogFile   string `mapstructure:"logfile"`
	LogLevel  string `mapstructure:"log-level"`
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyText, "")
	v.SetDefault(KeyDelay, constants.DefaultDelayMs)
	v.SetDefault(KeyDirection, marquee.ShiftLeft.String())
	v.SetDefault(KeyColumn, constants.DefaultColumn)
	v.SetDefault(KeyRow, constants.DefaultRow)
	v.SetDefault(KeyFrames, 0)
	v.SetDefault(KeyBackend, terminal.BackendANSI)
	v.SetDefault(KeyChime, false)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyConfigDir, "")
}

// BindFlags binds every flag in fs to the key of the same name.
// A flag without a matching key is reported, not silently ignored
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var result *multierror.Error
	fs.VisitAll(func(f *pflag.Flag) {
		if !IsKey(f.Name) {
			result = multierror.Append(result, fmt.Errorf("flag --%s has no config key", f.Name))
			return
		}
		if err := v.BindPFlag(f.Name, f); err != nil {
			result = multierror.Append(result, err)
		}
	})
	return result.ErrorOrNil()
}

// Load reads marquee.yaml from configDir when present and applies env overrides.
// A missing file is not an error; a malformed one is
func Load(v *viper.Viper, configDir string) (Settings, error) {
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configDir != "" {
		v.AddConfigPath(configDir)
		v.SetConfigName(configName)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Settings{}, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	return s, nil
}

// MarqueeConfig converts settings into engine construction parameters.
// An empty text keeps the built-in default
func (s Settings) MarqueeConfig() (marquee.Config, error) {
	dir, err := marquee.ParseDirection(s.Direction)
	if err != nil {
		return marquee.Config{}, err
	}

	cfg := marquee.DefaultConfig()
	if s.Text != "" {
		cfg.Text = s.Text
	}
	cfg.DelayMs = s.Delay
	cfg.Direction = dir
	cfg.Column = s.Column
	cfg.Row = s.Row
	cfg.Frames = s.Frames
	return cfg, nil
}
