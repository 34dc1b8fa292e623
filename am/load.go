package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/teranos/wd/errors"
)

// ConfigSource represents where a configuration file sits in the cascade
type ConfigSource string

const (
	SourceSystem  ConfigSource = "system"  // /etc/wd/am.toml
	SourceUser    ConfigSource = "user"    // ~/.wd/am.toml
	SourceProject ConfigSource = "project" // nearest ./am.toml
)

// FileInfo describes one config file that was checked during loading
type FileInfo struct {
	Source ConfigSource `json:"source" yaml:"source"`
	Path   string       `json:"path" yaml:"path"`
	Exists bool         `json:"exists" yaml:"exists"`
}

// LoadOptions makes the loader's environment explicit. Zero values mean
// "use the real process environment".
type LoadOptions struct {
	Getenv    func(string) string
	HomeDir   string
	WorkDir   string
	SystemDir string
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
	if o.HomeDir == "" {
		o.HomeDir, _ = os.UserHomeDir()
	}
	if o.WorkDir == "" {
		o.WorkDir, _ = os.Getwd()
	}
	if o.SystemDir == "" {
		o.SystemDir = "/etc/wd"
	}
	return o
}

// Load reads the configuration from the real process environment
func Load() (Config, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions reads the configuration using the given environment
func LoadWithOptions(opts LoadOptions) (Config, error) {
	v, err := NewViper(opts)
	if err != nil {
		return Config{}, err
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals configuration from a prepared Viper instance
func LoadWithViper(v *viper.Viper) (Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal config")
	}
	config.Endpoints.APIURL = strings.TrimSpace(config.Endpoints.APIURL)
	config.Endpoints.QueryURL = strings.TrimSpace(config.Endpoints.QueryURL)
	config.Endpoints.TextifierURL = strings.TrimSpace(config.Endpoints.TextifierURL)
	config.Endpoints.VectorSearchURL = strings.TrimSpace(config.Endpoints.VectorSearchURL)
	config.Endpoints.VectorAPISecret = strings.TrimSpace(config.Endpoints.VectorAPISecret)
	config.Request.UserAgent = strings.TrimSpace(config.Request.UserAgent)
	config.Output.Format = strings.ToLower(strings.TrimSpace(config.Output.Format))
	return config, nil
}

// NewViper builds a Viper instance with defaults, config files, and
// environment bindings applied in precedence order.
func NewViper(opts LoadOptions) (*viper.Viper, error) {
	opts = opts.withDefaults()

	v := viper.New()
	SetDefaults(v)

	for _, file := range ConfigFiles(opts) {
		if !file.Exists {
			continue
		}
		fileViper := viper.New()
		fileViper.SetConfigFile(file.Path)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			return nil, errors.WithHintf(
				errors.Wrapf(err, "failed to read config file %s", file.Path),
				"fix or remove %s", file.Path,
			)
		}
		if err := v.MergeConfigMap(fileViper.AllSettings()); err != nil {
			return nil, errors.Wrapf(err, "failed to merge config file %s", file.Path)
		}
	}

	ApplyPrefixedEnv(v, opts.Getenv)
	ApplyLegacyEnv(v, opts.Getenv)
	return v, nil
}

// ConfigFiles lists the config files consulted, lowest precedence first
func ConfigFiles(opts LoadOptions) []FileInfo {
	opts = opts.withDefaults()

	files := []FileInfo{
		{Source: SourceSystem, Path: filepath.Join(opts.SystemDir, "am.toml")},
	}
	if opts.HomeDir != "" {
		files = append(files, FileInfo{Source: SourceUser, Path: filepath.Join(opts.HomeDir, ".wd", "am.toml")})
	}
	if project := findProjectConfig(opts.WorkDir); project != "" {
		files = append(files, FileInfo{Source: SourceProject, Path: project})
	}

	for i := range files {
		if _, err := os.Stat(files[i].Path); err == nil {
			files[i].Exists = true
		}
	}
	return files
}

// findProjectConfig searches for am.toml by walking up the directory tree
func findProjectConfig(dir string) string {
	if dir == "" {
		return ""
	}
	for {
		candidate := filepath.Join(dir, "am.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}
