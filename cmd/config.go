package cmd

import (
	"fmt"

	"github.com/spf13/viper"
)

// Target is one output profile from the config file.
type Target struct {
	Name      string `mapstructure:"name"`
	Dialect   string `mapstructure:"dialect"`
	Quote     string `mapstructure:"quote"`
	Framework string `mapstructure:"framework"`
	Module    string `mapstructure:"module"`
	Active    bool   `mapstructure:"active"`
}

// errNoActiveTarget is returned when no target is marked active.
var errNoActiveTarget = fmt.Errorf("no active target found in config (set active: true)")

// GetActiveTarget returns the currently active target configuration.
func GetActiveTarget() (*Target, error) {
	var targets []Target

	if err := viper.UnmarshalKey("targets", &targets); err != nil {
		return nil, fmt.Errorf("failed to parse targets config: %w", err)
	}

	var active *Target
	count := 0

	for i := range targets {
		if targets[i].Active {
			active = &targets[i]
			count++
		}
	}

	if count == 0 {
		return nil, errNoActiveTarget
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active targets found (only one can be active)")
	}

	return active, nil
}

// resolveTarget layers flags over the active target over defaults.
func resolveTarget(dialectFlag, quoteFlag, frameworkFlag, moduleFlag string) (Target, error) {
	t := Target{Name: "default", Dialect: "postgresql", Framework: "laravel", Module: "app"}

	active, err := GetActiveTarget()
	switch {
	case err == nil:
		t = *active
		if t.Dialect == "" {
			t.Dialect = "postgresql"
		}
		if t.Framework == "" {
			t.Framework = "laravel"
		}
		if t.Module == "" {
			t.Module = "app"
		}
	case err != errNoActiveTarget:
		return Target{}, err
	}

	if dialectFlag != "" {
		t.Dialect = dialectFlag
	}
	if quoteFlag != "" {
		t.Quote = quoteFlag
	}
	if frameworkFlag != "" {
		t.Framework = frameworkFlag
	}
	if moduleFlag != "" {
		t.Module = moduleFlag
	}
	return t, nil
}
