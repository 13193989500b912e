package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is ~/.formctl/config.yaml. Flags override it; FORMCTL_* environment
// variables (including ones set by a .env file) override the file.
type Config struct {
	// CredentialsFile is a service-account or authorized-user JSON key. When
	// empty, Application Default Credentials are used.
	CredentialsFile string `yaml:"credentials_file,omitempty"`

	// Format is the default output format (json, edn, text).
	Format string `yaml:"format,omitempty"`

	LogLevel string `yaml:"log_level,omitempty"`

	// Journal enables the local batch journal.
	Journal bool `yaml:"journal,omitempty"`
	// JournalPath overrides <config dir>/journal.sqlite.
	JournalPath string `yaml:"journal_path,omitempty"`

	// Endpoint overrides the Forms API base URL.
	Endpoint string `yaml:"endpoint,omitempty"`
}

var configKeys = map[string]struct {
	env string
	get func(*Config) string
	set func(*Config, string) error
}{
	"credentials_file": {
		env: "FORMCTL_CREDENTIALS_FILE",
		get: func(c *Config) string { return c.CredentialsFile },
		set: func(c *Config, v string) error { c.CredentialsFile = v; return nil },
	},
	"format": {
		env: "FORMCTL_FORMAT",
		get: func(c *Config) string { return c.Format },
		set: func(c *Config, v string) error { c.Format = v; return nil },
	},
	"log_level": {
		env: "FORMCTL_LOG_LEVEL",
		get: func(c *Config) string { return c.LogLevel },
		set: func(c *Config, v string) error { c.LogLevel = v; return nil },
	},
	"journal": {
		env: "FORMCTL_JOURNAL",
		get: func(c *Config) string { return strconv.FormatBool(c.Journal) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("journal: %w", err)
			}
			c.Journal = b
			return nil
		},
	},
	"journal_path": {
		env: "FORMCTL_JOURNAL_PATH",
		get: func(c *Config) string { return c.JournalPath },
		set: func(c *Config, v string) error { c.JournalPath = v; return nil },
	},
	"endpoint": {
		env: "FORMCTL_ENDPOINT",
		get: func(c *Config) string { return c.Endpoint },
		set: func(c *Config, v string) error { c.Endpoint = v; return nil },
	},
}

// ConfigKeys lists the settable keys in stable order.
func ConfigKeys() []string {
	out := make([]string, 0, len(configKeys))
	for k := range configKeys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	k, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(ConfigKeys(), ", "))
	}
	return k.get(c), nil
}

// Set assigns a config key from its string form.
func (c *Config) Set(key, value string) error {
	k, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(ConfigKeys(), ", "))
	}
	return k.set(c, strings.TrimSpace(value))
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.formctl).
	if v := strings.TrimSpace(os.Getenv("FORMCTL_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".formctl"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadConfig reads the config file (a missing file is an empty config), then
// applies environment overrides. A .env file in the config dir or the
// working directory is loaded first; it never replaces variables that are
// already set.
func LoadConfig() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	_ = godotenv.Load(filepath.Join(dir, ".env"))
	_ = godotenv.Load()

	cfg, err := readConfigFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		return nil, err
	}
	for _, key := range ConfigKeys() {
		k := configKeys[key]
		if v := strings.TrimSpace(os.Getenv(k.env)); v != "" {
			if err := k.set(cfg, v); err != nil {
				return nil, fmt.Errorf("%s: %w", k.env, err)
			}
		}
	}
	return cfg, nil
}

func readConfigFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadConfigFile reads only the file, without environment overrides. Used
// when editing the file so env values are not persisted.
func LoadConfigFile() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return readConfigFile(path)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Keep a copy of the previous config; failures here never block the save.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.yaml.bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, "config.yaml.*.tmp", path, b, 0o600)
}

// ResolveJournalPath returns the journal database location for cfg.
func ResolveJournalPath(cfg *Config) (string, error) {
	if cfg != nil && strings.TrimSpace(cfg.JournalPath) != "" {
		return cfg.JournalPath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "journal.sqlite"), nil
}
