package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains input and output file locations.
type Paths struct {
	AssetsDir          string `toml:"assets_dir"`
	MetadataFile       string `toml:"metadata_file"`
	ManifestFile       string `toml:"manifest_file"`
	ManifestRecordFile string `toml:"manifest_record_file"`
	StateDir           string `toml:"state_dir"`
	LogDir             string `toml:"log_dir"`
}

// Walrus contains configuration for the external storage client.
type Walrus struct {
	Binary       string `toml:"binary"`
	ConfigPath   string `toml:"config_path"`
	FullNodeURL  string `toml:"full_node_url"`
	Epochs       int    `toml:"epochs"`
	StoreTimeout int    `toml:"store_timeout"` // seconds; 0 waits indefinitely
}

// Tier names one asset category and the directory holding its files.
type Tier struct {
	Name string `toml:"name"`
	Dir  string `toml:"dir"`
	// Key overrides the metadata/manifest key. Defaults to Name + "NFT".
	Key string `toml:"key"`
}

// TierOptions controls how tier directories are enumerated.
type TierOptions struct {
	SkipHidden bool `toml:"skip_hidden"`
}

// Match selects how asset files are paired with metadata records.
type Match struct {
	Strategy string `toml:"strategy"`
	Field    string `toml:"field"`
}

// Ledger contains configuration for the upload audit database.
type Ledger struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Notifications configures ntfy delivery of run outcomes. An empty topic
// disables notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"` // seconds
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for walrusup.
//
// Configuration sections:
//   - Paths: metadata input, manifest outputs, state and log directories
//   - Walrus: storage client binary, its config file, and store parameters
//   - Tiers: ordered asset tiers processed by the pipeline
//   - Match: file-to-record pairing strategy
//   - Ledger: sqlite audit log of every upload
//   - Notifications: optional ntfy topic for run outcomes
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Walrus        Walrus        `toml:"walrus"`
	Tiers         []Tier        `toml:"tiers"`
	TierOptions   TierOptions   `toml:"tier_options"`
	Match         Match         `toml:"match"`
	Ledger        Ledger        `toml:"ledger"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/walrusup/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		// A [[tiers]] table in the file replaces the default tier list.
		cfg.Tiers = nil
		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		if len(cfg.Tiers) == 0 {
			cfg.Tiers = defaultTiers()
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("walrusup.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories plus the parent
// directories of both manifest outputs.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.StateDir,
		c.Paths.LogDir,
		filepath.Dir(c.Paths.ManifestFile),
		filepath.Dir(c.Paths.ManifestRecordFile),
	}
	if c.Ledger.Enabled && strings.TrimSpace(c.Ledger.Path) != "" {
		dirs = append(dirs, filepath.Dir(c.Ledger.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// TierKey returns the metadata/manifest key for the tier.
func (t Tier) TierKey() string {
	if key := strings.TrimSpace(t.Key); key != "" {
		return key
	}
	return t.Name + "NFT"
}

// LockPath returns the location of the cross-process run lock.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "walrusup.lock")
}

// LogFile returns the persistent log file path.
func (c *Config) LogFile() string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "walrusup.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultStateDir() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "walrusup")
	}
	return "~/.local/state/walrusup"
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
