// Package config resolves streamfmt settings from flags and environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. STREAMFMT_VERBOSE.
const EnvPrefix = "STREAMFMT"

// Flag names shared by the command line and the environment.
const (
	FlagColor       = "color"
	FlagNoColor     = "no-color"
	FlagVerbose     = "verbose"
	FlagStats       = "stats"
	FlagStatsFormat = "stats-format"
)

// ErrConflictingColor is returned when color is both forced on and off.
var ErrConflictingColor = errors.New("--color and --no-color cannot be used together")

// Config holds the resolved settings.
type Config struct {
	ForceColor   bool
	ForceNoColor bool
	Verbose      bool
	Stats        bool
	StatsFormat  string
}

// RegisterFlags adds the streamfmt flags to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.Bool(FlagColor, false, "force-enable ANSI colors even when stdout is not a TTY")
	flags.Bool(FlagNoColor, false, "disable ANSI colors regardless of terminal detection")
	flags.BoolP(FlagVerbose, "v", false, "log skipped lines and write failures to stderr")
	flags.Bool(FlagStats, false, "print stream statistics to stderr at end of input")
	flags.String(FlagStatsFormat, "table", "statistics format: table, plain, or json")
}

// Load reads the settings from flags, falling back to STREAMFMT_* variables
// for flags that were not set on the command line.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}

	cfg := Config{
		ForceColor:   v.GetBool(FlagColor),
		ForceNoColor: v.GetBool(FlagNoColor),
		Verbose:      v.GetBool(FlagVerbose),
		Stats:        v.GetBool(FlagStats),
		StatsFormat:  strings.ToLower(v.GetString(FlagStatsFormat)),
	}
	if cfg.ForceColor && cfg.ForceNoColor {
		return Config{}, ErrConflictingColor
	}
	return cfg, nil
}

// UseColor decides whether output written to out should be colored.
func (c Config) UseColor(out io.Writer) bool {
	if c.ForceColor {
		return true
	}
	if c.ForceNoColor {
		return false
	}
	return shouldUseColorAuto(out)
}

func shouldUseColorAuto(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
