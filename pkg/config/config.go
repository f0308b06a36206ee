// Package config provides configuration management for the galois CLI tool
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Davincible/galois/pkg/gf2"
	"github.com/Davincible/galois/pkg/gf2n"
	"github.com/Davincible/galois/pkg/tables"
	"github.com/caarlos0/env/v11"
)

var ErrProfileNotFound = errors.New("config: profile not found")

// DefaultProfile is the field selected by a fresh config and the fallback
// when the selected profile is removed.
const DefaultProfile = "gf16"

// Config represents the main configuration structure
type Config struct {
	Version string        `json:"version"`
	Field   FieldSettings `json:"field"`
	Tables  TableSettings `json:"tables"`
	UI      UIConfig      `json:"ui"`
	Storage StorageConfig `json:"storage"`
}

// FieldSettings selects the field used when no profile or flag is given
type FieldSettings struct {
	Profile string `json:"profile" env:"GALOIS_PROFILE"` // Default: gf16
	Width   uint   `json:"width" env:"GALOIS_WIDTH"`     // Used when Profile is empty
	Modulus string `json:"modulus" env:"GALOIS_MODULUS"` // Polynomial, hex or binary
}

// TableSettings contains defaults for table generation
type TableSettings struct {
	Format  string `json:"format" env:"GALOIS_FORMAT"`   // dec or hex
	Workers int    `json:"workers" env:"GALOIS_WORKERS"` // 0 means GOMAXPROCS
	Verify  bool   `json:"verify" env:"GALOIS_VERIFY"`   // Verify tables after building
}

// UIConfig contains user interface settings
type UIConfig struct {
	UseColor  bool   `json:"use_color" env:"GALOIS_COLOR"`
	Verbosity string `json:"verbosity" env:"GALOIS_VERBOSITY"` // quiet, normal, verbose
}

// StorageConfig contains artifact output settings
type StorageConfig struct {
	OutputDir string `json:"output_dir" env:"GALOIS_OUTPUT_DIR"`
}

// FieldProfile is a named field definition for quick access
type FieldProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Width       uint   `json:"width"`
	Modulus     string `json:"modulus"`
}

// Field builds the field described by the profile.
func (p *FieldProfile) Field() (*gf2n.Field, error) {
	return buildField(p.Width, p.Modulus)
}

// BuiltinProfiles are always available and cannot be deleted.
var BuiltinProfiles = map[string]FieldProfile{
	"gf16": {
		Name:        "gf16",
		Description: "GF(2^4) used for the addition and multiplication handout tables",
		Width:       4,
		Modulus:     "x^4 + x^3 + 1",
	},
	"aes": {
		Name:        "aes",
		Description: "Rijndael field GF(2^8) used by the AES S-box",
		Width:       8,
		Modulus:     "x^8 + x^4 + x^3 + x + 1",
	},
}

// ConfigManager manages configuration loading and saving. It keeps the
// on-disk config apart from the effective one, which has GALOIS_*
// environment overrides applied, so saving never persists env values.
type ConfigManager struct {
	file       *Config
	config     *Config
	configPath string
	profiles   map[string]*FieldProfile
}

// NewConfigManager creates a new configuration manager at the default path
func NewConfigManager() (*ConfigManager, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return NewConfigManagerAt(configPath)
}

// NewConfigManagerAt creates a configuration manager backed by configPath.
// A default config file is written if none exists, then environment
// overrides are applied on top.
func NewConfigManagerAt(configPath string) (*ConfigManager, error) {
	cm := &ConfigManager{
		configPath: configPath,
		profiles:   make(map[string]*FieldProfile),
	}

	if err := cm.LoadConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cm.file = DefaultConfig()
		if err := cm.SaveConfig(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	if err := cm.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cm.LoadProfiles(); err != nil {
		// Profiles are optional, so we don't fail here
		cm.profiles = make(map[string]*FieldProfile)
	}

	return cm, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0.0",
		Field: FieldSettings{
			Profile: DefaultProfile,
			Width:   4,
			Modulus: "x^4 + x^3 + 1",
		},
		Tables: TableSettings{
			Format:  string(tables.FormatDecimal),
			Workers: 0,
			Verify:  true,
		},
		UI: UIConfig{
			UseColor:  true,
			Verbosity: "normal",
		},
		Storage: StorageConfig{
			OutputDir: ".",
		},
	}
}

// LoadConfig loads the configuration from disk
func (cm *ConfigManager) LoadConfig() error {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	cm.file = config
	cm.config = config.clone()
	return nil
}

func (c *Config) clone() *Config {
	cp := *c
	return &cp
}

// SaveConfig saves the file-backed configuration to disk
func (cm *ConfigManager) SaveConfig() error {
	configDir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cm.file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cm.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ApplyEnv rebuilds the effective configuration from the file-backed one
// with any GALOIS_* environment variables applied on top
func (cm *ConfigManager) ApplyEnv() error {
	effective := cm.file.clone()
	if err := env.Parse(effective); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	cm.config = effective
	return nil
}

// GetConfig returns the effective configuration
func (cm *ConfigManager) GetConfig() *Config {
	return cm.config
}

// FileConfig returns the configuration as stored on disk, without
// environment overrides
func (cm *ConfigManager) FileConfig() *Config {
	return cm.file
}

// SetConfig replaces the file-backed configuration and refreshes the
// effective one. It does not save.
func (cm *ConfigManager) SetConfig(config *Config) error {
	cm.file = config
	return cm.ApplyEnv()
}

// UpdateConfig applies fn to the file-backed configuration, saves it and
// refreshes the effective configuration
func (cm *ConfigManager) UpdateConfig(fn func(*Config)) error {
	updated := cm.file.clone()
	fn(updated)
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	cm.file = updated
	if err := cm.SaveConfig(); err != nil {
		return err
	}
	return cm.ApplyEnv()
}

// Path returns the configuration file path
func (cm *ConfigManager) Path() string {
	return cm.configPath
}

func (cm *ConfigManager) profilesPath() string {
	return filepath.Join(filepath.Dir(cm.configPath), "profiles.json")
}

// LoadProfiles loads saved field profiles
func (cm *ConfigManager) LoadProfiles() error {
	data, err := os.ReadFile(cm.profilesPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	profiles := make(map[string]*FieldProfile)
	if err := json.Unmarshal(data, &profiles); err != nil {
		return fmt.Errorf("failed to parse profiles: %w", err)
	}

	cm.profiles = profiles
	return nil
}

// SaveProfiles saves field profiles to disk
func (cm *ConfigManager) SaveProfiles() error {
	data, err := json.MarshalIndent(cm.profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cm.configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(cm.profilesPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}

	return nil
}

// AddProfile validates and stores a new field profile
func (cm *ConfigManager) AddProfile(profile *FieldProfile) error {
	if profile.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if _, builtin := BuiltinProfiles[profile.Name]; builtin {
		return fmt.Errorf("profile '%s' is built in", profile.Name)
	}
	if _, err := profile.Field(); err != nil {
		return fmt.Errorf("invalid profile '%s': %w", profile.Name, err)
	}

	cm.profiles[profile.Name] = profile
	return cm.SaveProfiles()
}

// GetProfile retrieves a field profile by name, user profiles first
func (cm *ConfigManager) GetProfile(name string) (*FieldProfile, error) {
	if profile, exists := cm.profiles[name]; exists {
		return profile, nil
	}
	if profile, exists := BuiltinProfiles[name]; exists {
		return &profile, nil
	}
	return nil, fmt.Errorf("%w: '%s'", ErrProfileNotFound, name)
}

// ListProfiles returns built-in and saved profiles sorted by name
func (cm *ConfigManager) ListProfiles() []*FieldProfile {
	byName := make(map[string]*FieldProfile, len(BuiltinProfiles)+len(cm.profiles))
	for name, profile := range BuiltinProfiles {
		profile := profile
		byName[name] = &profile
	}
	for name, profile := range cm.profiles {
		byName[name] = profile
	}

	profiles := make([]*FieldProfile, 0, len(byName))
	for _, profile := range byName {
		profiles = append(profiles, profile)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles
}

// DeleteProfile removes a saved field profile. If it was the configured
// default, the default falls back to DefaultProfile and the config is saved.
func (cm *ConfigManager) DeleteProfile(name string) error {
	if _, exists := cm.profiles[name]; !exists {
		return fmt.Errorf("%w: '%s'", ErrProfileNotFound, name)
	}

	delete(cm.profiles, name)
	if err := cm.SaveProfiles(); err != nil {
		return err
	}

	if cm.file.Field.Profile != name {
		return nil
	}
	return cm.UpdateConfig(func(c *Config) {
		c.Field.Profile = DefaultProfile
	})
}

// DefaultField resolves the configured default field: the named profile if
// set, otherwise the explicit width and modulus.
func (cm *ConfigManager) DefaultField() (*gf2n.Field, error) {
	if cm.config.Field.Profile != "" {
		profile, err := cm.GetProfile(cm.config.Field.Profile)
		if err != nil {
			return nil, err
		}
		return profile.Field()
	}
	return buildField(cm.config.Field.Width, cm.config.Field.Modulus)
}

// Validate checks the configuration for values the tool cannot use
func (c *Config) Validate() error {
	if c.Field.Profile == "" {
		if _, err := buildField(c.Field.Width, c.Field.Modulus); err != nil {
			return fmt.Errorf("field: %w", err)
		}
	}
	if _, err := tables.ParseFormat(c.Tables.Format); err != nil {
		return fmt.Errorf("tables: %w", err)
	}
	if c.Tables.Workers < 0 {
		return fmt.Errorf("tables: workers cannot be negative, got %d", c.Tables.Workers)
	}
	switch c.UI.Verbosity {
	case "", "quiet", "normal", "verbose":
	default:
		return fmt.Errorf("ui: unknown verbosity '%s'", c.UI.Verbosity)
	}
	return nil
}

func buildField(width uint, modulus string) (*gf2n.Field, error) {
	m, err := gf2.ParsePolynomial(modulus)
	if err != nil {
		return nil, err
	}
	return gf2n.NewField(width, m)
}

// getConfigPath returns the configuration file path
func getConfigPath() (string, error) {
	// Check for custom config path
	if customPath := os.Getenv("GALOIS_CONFIG"); customPath != "" {
		return customPath, nil
	}

	// Use XDG_CONFIG_HOME if set
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "galois", "config.json"), nil
	}

	// Default to ~/.config/galois/config.json
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "galois", "config.json"), nil
}
