// Package config holds the server's YAML-loaded configuration.
package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name looked for when none is
// given explicitly.
const DefaultConfigFile = "webthing.yaml"

// DefaultPort is used when Config.Port is zero.
const DefaultPort = 80

// Config carries the settings needed to construct and run a Server: see
// SPEC_FULL.md's "Ambient stack — configuration" section.
type Config struct {
	// Port the HTTP(S) listener binds to. 0 means DefaultPort.
	Port int `yaml:"port"`
	// Hostname is an additional allow-listed Host header value, on top of
	// localhost, the system hostname + ".local", and bound interface
	// addresses.
	Hostname string `yaml:"hostname"`
	// BasePath prefixes every Thing's href; a trailing "/" is trimmed.
	BasePath string `yaml:"basePath"`
	// DisableHostValidation turns off the Host-header allow-list check.
	DisableHostValidation bool `yaml:"disableHostValidation"`
	// TLSCertFile / TLSKeyFile, both required together, enable HTTPS/WSS.
	TLSCertFile string `yaml:"tlsCertFile"`
	TLSKeyFile  string `yaml:"tlsKeyFile"`
	// LogLevel is one of logrus's level names (debug, info, warning, error).
	LogLevel string `yaml:"logLevel"`
	// LogFile tees log output to a file in addition to stdout. Empty means
	// stdout only.
	LogFile string `yaml:"logFile"`

	// sourcePath is the file Load last read cfg from, if any. Unexported so
	// it's never part of the YAML document itself; WatchFile's reload
	// callback uses it to know what to re-read.
	sourcePath string
}

// NewDefaultConfig returns a Config with the server's baseline defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Port:     DefaultPort,
		LogLevel: "warning",
	}
}

// Load reads configFile as YAML into cfg, leaving any already-set field
// untouched where the file doesn't mention it (yaml.Unmarshal only
// overwrites keys present in the document). Call on a *Config obtained from
// NewDefaultConfig so omitted fields keep their defaults.
//
// Adapted from wostzone/wost-go/pkg/config.HubConfig.Load: the teacher
// additionally substitutes {clientID}/{homeFolder}-style placeholders and
// resolves certificate paths relative to a home folder. Neither applies to
// this server's flat, single-process configuration, so Load is reduced to
// read-and-unmarshal plus Validate.
func (cfg *Config) Load(configFile string) error {
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", configFile, err)
	}

	logrus.Infof("config: loading %s", configFile)
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", configFile, err)
	}
	cfg.sourcePath = configFile
	return cfg.Validate()
}

// SourcePath returns the file the most recent successful Load read from, or
// "" if Load has never been called.
func (cfg *Config) SourcePath() string {
	return cfg.sourcePath
}

// Validate checks the few invariants a malformed config file could violate.
func (cfg *Config) Validate() error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", cfg.Port)
	}
	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return fmt.Errorf("config: tlsCertFile and tlsKeyFile must both be set or both be empty")
	}
	return nil
}

// EffectivePort returns cfg.Port, or DefaultPort if unset.
func (cfg *Config) EffectivePort() int {
	if cfg.Port == 0 {
		return DefaultPort
	}
	return cfg.Port
}
