package main

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/iyisakuma/NPB-GO/NPB-CG/CG/params"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var (
	ErrInvalidThreads = errors.New("config: number of threads must be positive")
	ErrInvalidFormat  = errors.New("config: unknown report format")
)

// Config is the resolved command configuration.
type Config struct {
	Class    params.Class
	Threads  int
	LogLevel logrus.Level
	Format   string
	Timers   bool
}

// newViper returns a viper instance with the defaults and the environment
// bindings of the cg command. NPB_CLASS and NPB_THREADS win over the older
// CLASS and GO_NUM_THREADS variables.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("class", "S")
	v.SetDefault("threads", runtime.NumCPU())
	v.SetDefault("log-level", "info")
	v.SetDefault("format", "text")
	v.SetDefault("timers", false)

	v.SetEnvPrefix("NPB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("class", "NPB_CLASS", "CLASS")
	_ = v.BindEnv("threads", "NPB_THREADS", "GO_NUM_THREADS")
	return v
}

// loadConfig merges the optional config file into v, applies the positional
// <class> <threads> arguments and validates the result.
func loadConfig(v *viper.Viper, args []string) (Config, error) {
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", file, err)
		}
	}

	className := v.GetString("class")
	if len(args) > 0 {
		className = args[0]
	}
	class, err := params.Lookup(className)
	if err != nil {
		return Config{}, err
	}

	raw := v.GetString("threads")
	if len(args) > 1 {
		raw = args[1]
	}
	threads, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || threads <= 0 {
		return Config{}, fmt.Errorf("%w: got %q", ErrInvalidThreads, raw)
	}

	level, err := logrus.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	format := strings.ToLower(v.GetString("format"))
	if format != "text" && format != "yaml" {
		return Config{}, fmt.Errorf("%w: %q (want text or yaml)", ErrInvalidFormat, format)
	}

	return Config{
		Class:    class,
		Threads:  threads,
		LogLevel: level,
		Format:   format,
		Timers:   v.GetBool("timers"),
	}, nil
}
