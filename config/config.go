package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/gelflog/core/metrics"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "GRAYLOG_"

// envKeys maps GRAYLOG_* variables to configuration paths.
var envKeys = map[string]string{
	"SERVER":       "graylog.server",
	"INPUT_PORT":   "graylog.input_port",
	"APP_NAME":     "graylog.app_name",
	"APP_VERSION":  "graylog.app_version",
	"ENVIRONMENT":  "graylog.environment",
	"SHOW_CONSOLE": "graylog.show_console",
	"ADAPTER":      "transport.adapter",
}

// File is the complete configuration of a process using the facade.
type File struct {
	Graylog   Options         `json:"graylog"`
	Transport TransportConfig `json:"transport"`
	Metrics   metrics.Config  `json:"metrics"`
	Sentry    SentryConfig    `json:"sentry"`
	Logging   LoggingConfig   `json:"logging"`
}

// Load reads an optional .env file, an optional YAML, JSON or TOML file at
// path and then the GRAYLOG_* environment variables, which take precedence.
// The graylog section is returned raw; call Resolve to validate it.
func Load(path string) (*File, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = tomlParser{}
		default:
			return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return envKeys[strings.TrimPrefix(s, EnvPrefix)]
	}), nil); err != nil {
		return nil, err
	}

	var cfg File
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	// koanf decodes YAML booleans and numbers weakly ("0"/"1"); read the
	// graylog values back through String so they keep their literal form.
	cfg.Graylog = Options{
		Server:      k.String("graylog.server"),
		InputPort:   k.String("graylog.input_port"),
		AppName:     k.String("graylog.app_name"),
		AppVersion:  k.String("graylog.app_version"),
		Environment: k.String("graylog.environment"),
		ShowConsole: k.String("graylog.show_console"),
	}

	cfg.Transport.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.Sentry.SetDefaults(cfg.Graylog)
	if err := cfg.Transport.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Sentry.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
