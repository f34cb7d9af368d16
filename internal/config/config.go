package config

import (
	"os"

	"github.com/goccy/go-yaml"
)

// AppConfig holds the application configuration.
type AppConfig struct {
	Version  string           `yaml:"version"`
	Debug    bool             `yaml:"debug"`
	Headless bool             `yaml:"headless"`
	APIPort  string           `yaml:"api-port"`
	Browser  AppConfigBrowser `yaml:"browser"`
	Target   AppConfigTarget  `yaml:"target"`
	Suites   AppConfigSuites  `yaml:"suites"`
}

type AppConfigBrowser struct {
	Path        string   `yaml:"path"`
	Args        []string `yaml:"args"`
	UserDataDir string   `yaml:"user-data-dir,omitempty"`
}

// AppConfigTarget describes the page the keywords run against.
type AppConfigTarget struct {
	URL string `yaml:"url"`
	// StateFile persists cookies and local storage between runs, for targets
	// behind a login.
	StateFile string `yaml:"state-file,omitempty"`
	// ClearCookies wipes browser cookies on startup, before any state load.
	ClearCookies bool `yaml:"clear-cookies,omitempty"`
}

// AppConfigSuites locates the YAML keyword suites.
type AppConfigSuites struct {
	Dir  string `yaml:"dir"`
	Init string `yaml:"init,omitempty"`
}

// LoadConfig reads the YAML configuration from path.
func LoadConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config AppConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}
