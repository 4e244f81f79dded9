package config

import "fmt"

// SentryConfig defines settings for forwarding extracted errors to Sentry.
// An empty DSN disables the integration.
type SentryConfig struct {
	DSN              string  `json:"dsn"`
	Environment      string  `json:"environment"`
	TracesSampleRate float64 `json:"traces_sample_rate"`
	Release          string  `json:"release"`
}

// SetDefaults fills the Sentry environment and release from the facade
// configuration when they are not set explicitly.
func (c *SentryConfig) SetDefaults(o Options) {
	if c.Environment == "" {
		c.Environment = o.Environment
	}
	if c.Release == "" && o.AppName != "" && o.AppVersion != "" {
		c.Release = o.AppName + "@" + o.AppVersion
	}
}

// Validate checks the sample rate bounds.
func (c SentryConfig) Validate() error {
	if c.TracesSampleRate < 0 || c.TracesSampleRate > 1 {
		return fmt.Errorf("sentry: traces_sample_rate must be within [0,1]")
	}
	return nil
}
