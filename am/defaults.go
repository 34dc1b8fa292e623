package am

import (
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Default values
const (
	DefaultAPIURL          = "https://www.wikidata.org/w/api.php"
	DefaultQueryURL        = "https://query.wikidata.org/sparql"
	DefaultTextifierURL    = "https://wd-textify.wmcloud.org"
	DefaultVectorSearchURL = "https://wd-vectordb.wmcloud.org"
	DefaultTimeoutSeconds  = 15.0
	DefaultUserAgent       = "wd-cli/0.1 (+https://github.com/teranos/wd)"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("endpoints.api_url", DefaultAPIURL)
	v.SetDefault("endpoints.query_url", DefaultQueryURL)
	v.SetDefault("endpoints.textifier_url", DefaultTextifierURL)
	v.SetDefault("endpoints.vector_search_url", DefaultVectorSearchURL)
	v.SetDefault("endpoints.vector_api_secret", "")

	v.SetDefault("request.timeout_seconds", DefaultTimeoutSeconds)
	v.SetDefault("request.user_agent", DefaultUserAgent)
	v.SetDefault("request.requests_per_second", 0.0)
	v.SetDefault("request.block_private_ips", false)

	v.SetDefault("output.format", FormatText)
}

// legacyEnvVars maps the unprefixed environment variables onto config
// keys. Earlier names win when several map to the same key (TEXTIFER_URI is a
// historical misspelling kept for compatibility and takes precedence).
var legacyEnvVars = []struct {
	Key   string
	Names []string
}{
	{Key: "endpoints.api_url", Names: []string{"WD_API_URI"}},
	{Key: "endpoints.query_url", Names: []string{"WD_QUERY_URI"}},
	{Key: "endpoints.textifier_url", Names: []string{"TEXTIFER_URI", "TEXTIFIER_URI"}},
	{Key: "endpoints.vector_search_url", Names: []string{"VECTOR_SEARCH_URI"}},
	{Key: "endpoints.vector_api_secret", Names: []string{"WD_VECTORDB_API_SECRET"}},
	{Key: "request.user_agent", Names: []string{"USER_AGENT"}},
}

// EnvPrefix prefixes the environment variable of every config key:
// endpoints.api_url is read from WD_ENDPOINTS_API_URL.
const EnvPrefix = "WD"

// EnvVarName returns the prefixed environment variable for a config key
func EnvVarName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// ApplyPrefixedEnv overrides every known config key from its WD_* variable,
// read through getenv only. Blank values are ignored.
func ApplyPrefixedEnv(v *viper.Viper, getenv func(string) string) map[string]string {
	applied := map[string]string{}
	for _, key := range v.AllKeys() {
		name := EnvVarName(key)
		if value := strings.TrimSpace(getenv(name)); value != "" {
			v.Set(key, value)
			applied[key] = name
		}
	}
	return applied
}

// ApplyLegacyEnv overrides config keys from the unprefixed environment
// variables. Blank values are ignored; REQUEST_TIMEOUT_SECONDS is only applied
// when it parses as a positive number.
func ApplyLegacyEnv(v *viper.Viper, getenv func(string) string) map[string]string {
	applied := map[string]string{}
	for _, binding := range legacyEnvVars {
		for _, name := range binding.Names {
			if value := strings.TrimSpace(getenv(name)); value != "" {
				v.Set(binding.Key, value)
				applied[binding.Key] = name
				break
			}
		}
	}

	if raw := strings.TrimSpace(getenv("REQUEST_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			v.Set("request.timeout_seconds", parsed)
			applied["request.timeout_seconds"] = "REQUEST_TIMEOUT_SECONDS"
		}
	}
	return applied
}
