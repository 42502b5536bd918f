package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/guarzo/psalistings/internal/ebay"
	"github.com/guarzo/psalistings/internal/report"
)

// Environment variables read by FromEnv
const (
	EnvClientID          = "EBAY_CLIENT_ID"
	EnvClientSecret      = "EBAY_CLIENT_SECRET"
	EnvSandbox           = "EBAY_SANDBOX"
	EnvOutputDir         = "PSA_OUTPUT_DIR"
	EnvFilePrefix        = "PSA_FILE_PREFIX"
	EnvRequestsPerSecond = "PSA_REQUESTS_PER_SECOND"
	EnvSchedule          = "PSA_SCHEDULE"
	EnvMetricsAddr       = "PSA_METRICS_ADDR"
)

// CredentialsHelp is printed when the eBay credentials are missing.
const CredentialsHelp = `Please set your eBay API credentials!
   Export them as environment variables:
      export EBAY_CLIENT_ID='your_client_id'
      export EBAY_CLIENT_SECRET='your_client_secret'`

// Config holds runtime settings for a psalistings run
type Config struct {
	Credentials ebay.Credentials
	Sandbox     bool
	OutputDir   string
	FilePrefix  string
	CSV         bool

	// RequestsPerSecond paces eBay calls; 0 disables pacing.
	RequestsPerSecond float64

	// Schedule is a cron expression; empty runs the batch once.
	Schedule    string
	MetricsAddr string

	Searches []Search
}

// FromEnv builds a Config from environment variables. Unset values take
// defaults: sandbox on, current directory, the default file prefix.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Credentials: ebay.Credentials{
			ClientID:     strings.TrimSpace(os.Getenv(EnvClientID)),
			ClientSecret: strings.TrimSpace(os.Getenv(EnvClientSecret)),
		},
		Sandbox:     true,
		OutputDir:   os.Getenv(EnvOutputDir),
		FilePrefix:  report.DefaultPrefix,
		Schedule:    os.Getenv(EnvSchedule),
		MetricsAddr: os.Getenv(EnvMetricsAddr),
	}

	if v := os.Getenv(EnvSandbox); v != "" {
		sandbox, err := strconv.ParseBool(v)
		if err != nil {
			return nil, ValidationError{Field: EnvSandbox, Message: fmt.Sprintf("invalid boolean %q", v)}
		}
		cfg.Sandbox = sandbox
	}

	if v := os.Getenv(EnvFilePrefix); v != "" {
		cfg.FilePrefix = v
	}

	if v := os.Getenv(EnvRequestsPerSecond); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps < 0 {
			return nil, ValidationError{Field: EnvRequestsPerSecond, Message: fmt.Sprintf("invalid rate %q", v)}
		}
		cfg.RequestsPerSecond = rps
	}

	return cfg, nil
}

// HasCredentials reports whether both eBay credentials are present.
func (c *Config) HasCredentials() bool {
	return c.Credentials.Complete()
}

// SearchesOrDefault returns the configured searches, or the built-in examples.
func (c *Config) SearchesOrDefault() []Search {
	if len(c.Searches) > 0 {
		return c.Searches
	}
	return DefaultSearches()
}

// ValidationError represents an invalid configuration value
type ValidationError struct {
	Field   string
	Message string
}

// Returns the string representation of validation error
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
