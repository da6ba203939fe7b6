// Package config holds the plugin's launch arguments and optional
// settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// ErrMissingArgs is returned when the host did not pass a required argument.
var ErrMissingArgs = errors.New("missing required parameters")

// Args are the launch arguments passed by the host application.
type Args struct {
	Port          int
	PluginUUID    string
	RegisterEvent string
	Info          string
	ConfigPath    string
	Mock          bool
}

// ParseArgs parses host launch arguments. The host passes long flags with
// a single dash ("-port 28196"); both forms are accepted.
func ParseArgs(args []string) (Args, error) {
	var a Args
	fs := pflag.NewFlagSet("kvgauge", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&a.Port, "port", 0, "WebSocket port of the host application")
	fs.StringVar(&a.PluginUUID, "pluginUUID", "", "identifier used to register the plugin")
	fs.StringVar(&a.RegisterEvent, "registerEvent", "", "event name for the registration message")
	fs.StringVar(&a.Info, "info", "", "JSON blob describing the host and devices")
	fs.StringVar(&a.ConfigPath, "config", "", "path to the optional YAML settings file")
	fs.BoolVar(&a.Mock, "mock", false, "use simulated readings instead of system sensors")

	if err := fs.Parse(normalizeArgs(args)); err != nil {
		return Args{}, err
	}

	var missing []string
	for _, name := range []string{"port", "pluginUUID", "registerEvent", "info"} {
		if !fs.Changed(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return Args{}, fmt.Errorf("%w: %s", ErrMissingArgs, strings.Join(missing, ", "))
	}
	if a.Port <= 0 || a.Port > 65535 {
		return Args{}, fmt.Errorf("invalid port %d", a.Port)
	}
	return a, nil
}

// normalizeArgs rewrites single-dash long flags to the double-dash form
// pflag expects.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if len(arg) > 2 && arg[0] == '-' && arg[1] != '-' {
			arg = "-" + arg
		}
		out[i] = arg
	}
	return out
}
