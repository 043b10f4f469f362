package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeWalrus(); err != nil {
		return err
	}
	if err := c.normalizeTiers(); err != nil {
		return err
	}
	if err := c.normalizeLedger(); err != nil {
		return err
	}
	c.normalizeMatch()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.AssetsDir) == "" {
		c.Paths.AssetsDir = defaultAssetsDir
	}
	if c.Paths.AssetsDir, err = expandPath(c.Paths.AssetsDir); err != nil {
		return fmt.Errorf("paths.assets_dir: %w", err)
	}
	if c.Paths.MetadataFile, err = expandPath(strings.TrimSpace(c.Paths.MetadataFile)); err != nil {
		return fmt.Errorf("paths.metadata_file: %w", err)
	}
	if c.Paths.ManifestFile, err = expandPath(strings.TrimSpace(c.Paths.ManifestFile)); err != nil {
		return fmt.Errorf("paths.manifest_file: %w", err)
	}
	if c.Paths.ManifestRecordFile, err = expandPath(strings.TrimSpace(c.Paths.ManifestRecordFile)); err != nil {
		return fmt.Errorf("paths.manifest_record_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeWalrus() error {
	c.Walrus.Binary = strings.TrimSpace(c.Walrus.Binary)
	if c.Walrus.Binary == "" {
		if value, ok := os.LookupEnv("WALRUS_BINARY"); ok {
			c.Walrus.Binary = strings.TrimSpace(value)
		}
	}
	if c.Walrus.Binary == "" {
		c.Walrus.Binary = defaultWalrusBinary
	}
	// Bare command names are resolved through PATH at invocation time.
	if strings.ContainsRune(c.Walrus.Binary, filepath.Separator) || strings.HasPrefix(c.Walrus.Binary, "~") {
		expanded, err := expandPath(c.Walrus.Binary)
		if err != nil {
			return fmt.Errorf("walrus.binary: %w", err)
		}
		c.Walrus.Binary = expanded
	}

	c.Walrus.ConfigPath = strings.TrimSpace(c.Walrus.ConfigPath)
	if c.Walrus.ConfigPath == "" {
		if value, ok := os.LookupEnv("WALRUS_CONFIG"); ok {
			c.Walrus.ConfigPath = strings.TrimSpace(value)
		}
	}
	if c.Walrus.ConfigPath == "" {
		c.Walrus.ConfigPath = defaultWalrusConfigPath
	}
	var err error
	if c.Walrus.ConfigPath, err = expandPath(c.Walrus.ConfigPath); err != nil {
		return fmt.Errorf("walrus.config_path: %w", err)
	}

	c.Walrus.FullNodeURL = strings.TrimSpace(c.Walrus.FullNodeURL)
	if c.Walrus.FullNodeURL == "" {
		if value, ok := os.LookupEnv("SUI_FULL_NODE_URL"); ok {
			c.Walrus.FullNodeURL = strings.TrimSpace(value)
		}
	}
	if c.Walrus.Epochs == 0 {
		c.Walrus.Epochs = defaultWalrusEpochs
	}
	return nil
}

func (c *Config) normalizeTiers() error {
	for i := range c.Tiers {
		tier := &c.Tiers[i]
		tier.Name = strings.TrimSpace(tier.Name)
		tier.Key = strings.TrimSpace(tier.Key)
		tier.Dir = strings.TrimSpace(tier.Dir)
		if tier.Dir == "" {
			tier.Dir = tier.Name
		}
		if !filepath.IsAbs(tier.Dir) && !strings.HasPrefix(tier.Dir, "~") {
			tier.Dir = filepath.Join(c.Paths.AssetsDir, tier.Dir)
		}
		expanded, err := expandPath(tier.Dir)
		if err != nil {
			return fmt.Errorf("tiers[%d].dir: %w", i, err)
		}
		tier.Dir = expanded
	}
	return nil
}

func (c *Config) normalizeLedger() error {
	c.Ledger.Path = strings.TrimSpace(c.Ledger.Path)
	if c.Ledger.Path == "" {
		c.Ledger.Path = defaultLedgerPath
	}
	var err error
	if c.Ledger.Path, err = expandPath(c.Ledger.Path); err != nil {
		return fmt.Errorf("ledger.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeMatch() {
	c.Match.Strategy = strings.ToLower(strings.TrimSpace(c.Match.Strategy))
	if c.Match.Strategy == "" {
		c.Match.Strategy = defaultMatchStrategy
	}
	c.Match.Field = strings.TrimSpace(c.Match.Field)
	if c.Match.Field == "" {
		c.Match.Field = defaultMatchField
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
