// Package config manages application-wide settings and directory structures.
// It follows XDG specifications for storing cache, configuration, and state.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// ReadOnly defines the read-only interface for Config.
// Immutable
type ReadOnly interface {
	GetCacheDir() string
	GetConfigDir() string
	GetStateDir() string
	GetDownloadDir() string
	GetComponentDir() string
	GetReceiptsFile() string
	GetSettingsFile() string
	GetDisplayProgress() bool
	GetMode() Mode
	GetJobs() int
	GetManifest() string
	Freeze()
	Checkout() Writable
}

// Writable defines the writable interface for Config.
// Mutable
type Writable interface {
	ReadOnly
	SetCacheDir(string)
	SetConfigDir(string)
	SetStateDir(string)
	SetDisplayProgress(bool)
	SetMode(Mode)
	SetJobs(int)
	SetManifest(string)
}

// Settings is the content of the optional config.yaml.
type Settings struct {
	Progress *bool  `yaml:"progress"`
	Mode     string `yaml:"mode"`
	Jobs     int    `yaml:"jobs"`
	Manifest string `yaml:"manifest"`
}

// Config holds the base directories and display settings for toolup.
// Mutable
type Config struct {
	cacheDir  string
	configDir string
	stateDir  string

	downloadDir  string
	componentDir string
	receiptsFile string
	settingsFile string

	displayProgress bool
	mode            Mode
	jobs            int
	manifest        string

	frozen bool
	edited bool
}

var _ ReadOnly = (*Config)(nil)
var _ Writable = (*Config)(nil)

func (c *Config) GetCacheDir() string      { return c.cacheDir }
func (c *Config) GetConfigDir() string     { return c.configDir }
func (c *Config) GetStateDir() string      { return c.stateDir }
func (c *Config) GetDownloadDir() string   { return c.downloadDir }
func (c *Config) GetComponentDir() string  { return c.componentDir }
func (c *Config) GetReceiptsFile() string  { return c.receiptsFile }
func (c *Config) GetSettingsFile() string  { return c.settingsFile }
func (c *Config) GetDisplayProgress() bool { return c.displayProgress }
func (c *Config) GetMode() Mode            { return c.mode }
func (c *Config) GetJobs() int             { return c.jobs }
func (c *Config) GetManifest() string      { return c.manifest }

func (c *Config) mustBeEditable() {
	if c.frozen {
		panic("cannot modify frozen config")
	}
}

func (c *Config) SetCacheDir(s string) {
	c.mustBeEditable()
	c.cacheDir = s
	c.updateDerived()
}

func (c *Config) SetConfigDir(s string) {
	c.mustBeEditable()
	c.configDir = s
	c.updateDerived()
}

func (c *Config) SetStateDir(s string) {
	c.mustBeEditable()
	c.stateDir = s
	c.updateDerived()
}

func (c *Config) SetDisplayProgress(b bool) {
	c.mustBeEditable()
	c.displayProgress = b
}

func (c *Config) SetMode(m Mode) {
	c.mustBeEditable()
	c.mode = m
}

// SetJobs sets the number of components installed in parallel. Values
// below one are treated as one.
func (c *Config) SetJobs(n int) {
	c.mustBeEditable()
	c.jobs = max(n, 1)
}

func (c *Config) SetManifest(s string) {
	c.mustBeEditable()
	c.manifest = s
}

func (c *Config) Freeze() {
	c.frozen = true
}

func (c *Config) Checkout() Writable {
	if c.frozen {
		panic("cannot checkout from frozen config")
	}
	if c.edited {
		panic("config already checked out")
	}
	c.edited = true
	return c
}

func (c *Config) updateDerived() {
	c.downloadDir = filepath.Join(c.cacheDir, "downloads")
	c.componentDir = filepath.Join(c.cacheDir, "components")
	c.receiptsFile = filepath.Join(c.stateDir, "receipts.json")
	c.settingsFile = filepath.Join(c.configDir, "config.yaml")
}

// Init initializes the configuration using XDG base directories and applies
// the settings file, if any.
func Init() (ReadOnly, error) {
	c := New(
		filepath.Join(xdg.CacheHome, "toolup"),
		filepath.Join(xdg.ConfigHome, "toolup"),
		filepath.Join(xdg.StateHome, "toolup"),
	)

	s, err := LoadSettings(c.settingsFile)
	if err != nil {
		return nil, err
	}
	if err := c.apply(s); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", c.settingsFile, err)
	}

	return c, nil
}

// New creates a Config rooted at the given directories with default
// settings.
func New(cacheDir, configDir, stateDir string) *Config {
	c := &Config{
		cacheDir:        cacheDir,
		configDir:       configDir,
		stateDir:        stateDir,
		displayProgress: true,
		mode:            ModeMulti,
		jobs:            1,
	}
	c.updateDerived()
	return c
}

// LoadSettings reads a settings file. A missing file yields empty settings.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return &s, nil
}

func (c *Config) apply(s *Settings) error {
	if s.Progress != nil {
		c.displayProgress = *s.Progress
	}
	if s.Mode != "" {
		m, err := ParseMode(s.Mode)
		if err != nil {
			return err
		}
		c.mode = m
	}
	if s.Jobs > 0 {
		c.jobs = s.Jobs
	}
	if s.Manifest != "" {
		c.manifest = s.Manifest
	}
	return nil
}
