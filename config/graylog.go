package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrConfiguration matches every *ConfigurationError through errors.Is.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports a missing or invalid facade setting.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s %s", e.Key, e.Reason)
}

// Is lets errors.Is(err, ErrConfiguration) match.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// Environment is the deployment stage reported with every entry.
type Environment string

const (
	EnvProd    Environment = "PROD"
	EnvDev     Environment = "DEV"
	EnvStaging Environment = "STAGING"
)

// Environments lists the accepted values.
func Environments() []Environment { return []Environment{EnvProd, EnvDev, EnvStaging} }

// Valid reports whether e is one of the accepted values.
func (e Environment) Valid() bool {
	for _, v := range Environments() {
		if e == v {
			return true
		}
	}
	return false
}

// Options is the raw facade configuration as read from the environment, a
// file or flags. An empty string means the value was not provided.
type Options struct {
	Server      string `json:"server"`
	InputPort   string `json:"input_port"`
	AppName     string `json:"app_name"`
	AppVersion  string `json:"app_version"`
	Environment string `json:"environment"`
	ShowConsole string `json:"show_console"`
}

// Merge returns o with every non-empty field of overrides applied on top.
func (o Options) Merge(overrides Options) Options {
	pick := func(base, over string) string {
		if over != "" {
			return over
		}
		return base
	}
	return Options{
		Server:      pick(o.Server, overrides.Server),
		InputPort:   pick(o.InputPort, overrides.InputPort),
		AppName:     pick(o.AppName, overrides.AppName),
		AppVersion:  pick(o.AppVersion, overrides.AppVersion),
		Environment: pick(o.Environment, overrides.Environment),
		ShowConsole: pick(o.ShowConsole, overrides.ShowConsole),
	}
}

// Config is the validated facade configuration. It is immutable once built.
type Config struct {
	Server      string      `json:"server"`
	InputPort   int         `json:"input_port"`
	AppName     string      `json:"app_name"`
	AppVersion  string      `json:"app_version,omitempty"`
	Environment Environment `json:"environment"`
	ShowConsole bool        `json:"show_console"`
}

// Resolve coerces and validates raw options.
func Resolve(o Options) (Config, error) {
	port, portErr := parsePort(o.InputPort)
	required := []struct {
		key     string
		present bool
	}{
		{"server", o.Server != ""},
		{"inputPort", portErr != nil || port != 0},
		{"appName", o.AppName != ""},
		{"environment", o.Environment != ""},
	}
	for _, r := range required {
		if !r.present {
			return Config{}, &ConfigurationError{Key: r.key, Reason: "is required"}
		}
		if r.key == "inputPort" && portErr != nil {
			return Config{}, &ConfigurationError{Key: r.key, Reason: portErr.Error()}
		}
	}

	if port < 0 || port > 65535 {
		return Config{}, &ConfigurationError{Key: "inputPort", Reason: fmt.Sprintf("must be within 1-65535 (got %d)", port)}
	}

	env := Environment(o.Environment)
	if !env.Valid() {
		return Config{}, &ConfigurationError{
			Key:    "environment",
			Reason: fmt.Sprintf("must be one of PROD, DEV, STAGING (got %q)", o.Environment),
		}
	}

	return Config{
		Server:      o.Server,
		InputPort:   port,
		AppName:     o.AppName,
		AppVersion:  o.AppVersion,
		Environment: env,
		ShowConsole: parseShowConsole(o.ShowConsole),
	}, nil
}

func parsePort(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("must be an integer (got %q)", s)
	}
	return p, nil
}

// parseShowConsole treats only "false", in any case, as false. Absent
// values default to true.
func parseShowConsole(s string) bool {
	return !strings.EqualFold(strings.TrimSpace(s), "false")
}
