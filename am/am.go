// Package am loads the wd configuration ("I am").
//
// Sources, lowest to highest precedence: built-in defaults, /etc/wd/am.toml,
// ~/.wd/am.toml, the nearest ./am.toml found walking up from the working
// directory, WD_* environment variables, the legacy unprefixed environment
// variables (WD_API_URI, REQUEST_TIMEOUT_SECONDS, ...), and finally
// command-line flags applied by the caller.
package am

import (
	"time"
)

// Config is the resolved configuration for one process. It is loaded once at
// startup and passed by value.
type Config struct {
	Endpoints EndpointsConfig `mapstructure:"endpoints" toml:"endpoints" json:"endpoints" yaml:"endpoints"`
	Request   RequestConfig   `mapstructure:"request" toml:"request" json:"request" yaml:"request"`
	Output    OutputConfig    `mapstructure:"output" toml:"output" json:"output" yaml:"output"`
}

// EndpointsConfig holds the base URLs of the four remote services
type EndpointsConfig struct {
	APIURL          string `mapstructure:"api_url" toml:"api_url" json:"api_url" yaml:"api_url"`                                         // MediaWiki action API (wbsearchentities, wbgetentities)
	QueryURL        string `mapstructure:"query_url" toml:"query_url" json:"query_url" yaml:"query_url"`                                 // SPARQL endpoint
	TextifierURL    string `mapstructure:"textifier_url" toml:"textifier_url" json:"textifier_url" yaml:"textifier_url"`                 // statement flattening API
	VectorSearchURL string `mapstructure:"vector_search_url" toml:"vector_search_url" json:"vector_search_url" yaml:"vector_search_url"` // vector similarity API
	VectorAPISecret string `mapstructure:"vector_api_secret" toml:"vector_api_secret" json:"vector_api_secret" yaml:"vector_api_secret"` // sent as x-api-secret when set
}

// RequestConfig controls every outbound request
type RequestConfig struct {
	TimeoutSeconds    float64 `mapstructure:"timeout_seconds" toml:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"`
	UserAgent         string  `mapstructure:"user_agent" toml:"user_agent" json:"user_agent" yaml:"user_agent"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" toml:"requests_per_second" json:"requests_per_second" yaml:"requests_per_second"` // 0 = unlimited
	BlockPrivateIPs   bool    `mapstructure:"block_private_ips" toml:"block_private_ips" json:"block_private_ips" yaml:"block_private_ips"`
}

// OutputConfig controls result rendering
type OutputConfig struct {
	Format string `mapstructure:"format" toml:"format" json:"format" yaml:"format"` // text, json, yaml
}

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Timeout returns the per-request timeout as a duration
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Request.TimeoutSeconds * float64(time.Second))
}

// Masked returns a copy safe to print: secrets are replaced with "***".
func (c Config) Masked() Config {
	if c.Endpoints.VectorAPISecret != "" {
		c.Endpoints.VectorAPISecret = "***"
	}
	return c
}
