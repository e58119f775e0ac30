package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultProjectPrefix = "tk"
	DefaultAPIURL        = "http://127.0.0.1:7433"
	DefaultDBFileName    = ".daotask.db"
	DefaultLogLevel      = "info"
	ConfigFileName       = ".daotask.toml"

	DefaultMaxVestingMonths int64 = 120
	DefaultMaxLockMonths    int64 = 120

	configDirEnvKey          = "DAOTASK_CONFIG_DIR"
	trustProjectConfigEnvKey = "DAOTASK_TRUST_PROJECT_CONFIG"
	apiURLEnvKey             = "DAOTASK_API_URL"
	dbPathEnvKey             = "DAOTASK_DB"
)

// GrantsConfig bounds the schedules the server accepts.
type GrantsConfig struct {
	MaxVestingMonths int64 `toml:"max_vesting_months"`
	MaxLockMonths    int64 `toml:"max_lock_months"`
}

// Config defines runtime configuration for daotask.
type Config struct {
	ProjectPrefix            string       `toml:"project_prefix"`
	APIURL                   string       `toml:"api_url"`
	DBPath                   string       `toml:"db_path"`
	LogLevel                 string       `toml:"log_level"`
	APITokenHash             string       `toml:"api_token_hash"`
	Grants                   GrantsConfig `toml:"grants"`
	TrustedProjectConfigPath string       `toml:"-"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		ProjectPrefix: DefaultProjectPrefix,
		APIURL:        DefaultAPIURL,
		DBPath:        "",
		LogLevel:      DefaultLogLevel,
		Grants: GrantsConfig{
			MaxVestingMonths: DefaultMaxVestingMonths,
			MaxLockMonths:    DefaultMaxLockMonths,
		},
	}
}

func loadFile(path string, cfg *Config) error {
	_, err := loadFileIfExists(path, cfg)
	return err
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, ConfigFileName), true
}

func trustProjectConfig() bool {
	raw := strings.TrimSpace(os.Getenv(trustProjectConfigEnvKey))
	if raw == "" {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value
}

var allowedKeys = []string{
	"project_prefix",
	"api_url",
	"db_path",
	"log_level",
	"api_token_hash",
	"grants.max_vesting_months",
	"grants.max_lock_months",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "project_prefix":
		return c.ProjectPrefix, nil
	case "api_url":
		return c.APIURL, nil
	case "db_path":
		return c.DBPath, nil
	case "log_level":
		return c.LogLevel, nil
	case "api_token_hash":
		return c.APITokenHash, nil
	case "grants.max_vesting_months":
		return strconv.FormatInt(c.Grants.MaxVestingMonths, 10), nil
	case "grants.max_lock_months":
		return strconv.FormatInt(c.Grants.MaxLockMonths, 10), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFileName), nil
}

// ProjectPath returns the path to the project config file.
func ProjectPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, ConfigFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads config from trusted files and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	if overridePath, ok := overrideConfigPath(); ok {
		if err := loadFile(overridePath, &cfg); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			if err := loadFile(filepath.Join(home, ConfigFileName), &cfg); err != nil {
				return nil, err
			}
		}

		if trustProjectConfig() {
			if cwd, err := os.Getwd(); err == nil {
				projectPath := filepath.Join(cwd, ConfigFileName)
				info, statErr := os.Stat(projectPath)
				switch {
				case statErr == nil && !info.IsDir():
					if err := loadFile(projectPath, &cfg); err != nil {
						return nil, err
					}
					cfg.TrustedProjectConfigPath = projectPath
				case statErr != nil && !os.IsNotExist(statErr):
					return nil, statErr
				}
			}
		}
	}

	if cfg.DBPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.DBPath = filepath.Join(cwd, DefaultDBFileName)
		}
	}

	if apiURL := os.Getenv(apiURLEnvKey); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if dbPath := os.Getenv(dbPathEnvKey); dbPath != "" {
		cfg.DBPath = dbPath
	}

	cfg.normalizeDefaults()

	return &cfg, nil
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "grants.max_vesting_months", "grants.max_lock_months":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "warning", "error":
			return strings.ToLower(value), nil
		}
		return nil, fmt.Errorf("log_level must be one of: debug, info, warn, error")
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}

func (c *Config) normalizeDefaults() {
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	if strings.TrimSpace(c.ProjectPrefix) == "" {
		c.ProjectPrefix = DefaultProjectPrefix
	}
	if c.Grants.MaxVestingMonths <= 0 {
		c.Grants.MaxVestingMonths = DefaultMaxVestingMonths
	}
	if c.Grants.MaxLockMonths <= 0 {
		c.Grants.MaxLockMonths = DefaultMaxLockMonths
	}
}
