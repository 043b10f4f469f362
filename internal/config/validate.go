package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateWalrus(); err != nil {
		return err
	}
	if err := c.validateTiers(); err != nil {
		return err
	}
	if err := c.validateMatch(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if err := ensureNonEmptyMap(map[string]string{
		"paths.metadata_file":        c.Paths.MetadataFile,
		"paths.manifest_file":        c.Paths.ManifestFile,
		"paths.manifest_record_file": c.Paths.ManifestRecordFile,
	}); err != nil {
		return err
	}
	if c.Paths.ManifestFile == c.Paths.ManifestRecordFile {
		return errors.New("paths.manifest_record_file must differ from paths.manifest_file")
	}
	if c.Paths.ManifestFile == c.Paths.MetadataFile {
		return errors.New("paths.manifest_file must differ from paths.metadata_file")
	}
	return nil
}

func (c *Config) validateWalrus() error {
	if strings.TrimSpace(c.Walrus.Binary) == "" {
		return errors.New("walrus.binary must be set (or export WALRUS_BINARY)")
	}
	if strings.TrimSpace(c.Walrus.ConfigPath) == "" {
		return errors.New("walrus.config_path must be set (or export WALRUS_CONFIG)")
	}
	if c.Walrus.Epochs < 1 {
		return errors.New("walrus.epochs must be positive")
	}
	if c.Walrus.StoreTimeout < 0 {
		return errors.New("walrus.store_timeout must be >= 0 (seconds)")
	}
	if c.Walrus.FullNodeURL != "" {
		parsed, err := url.Parse(c.Walrus.FullNodeURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("walrus.full_node_url %q must be an absolute URL", c.Walrus.FullNodeURL)
		}
	}
	return nil
}

func (c *Config) validateTiers() error {
	if len(c.Tiers) == 0 {
		return errors.New("tiers must include at least one tier")
	}
	names := make(map[string]struct{}, len(c.Tiers))
	keys := make(map[string]struct{}, len(c.Tiers))
	for i, tier := range c.Tiers {
		if tier.Name == "" {
			return fmt.Errorf("tiers[%d].name must be set", i)
		}
		if _, dup := names[tier.Name]; dup {
			return fmt.Errorf("tiers[%d].name %q is declared more than once", i, tier.Name)
		}
		names[tier.Name] = struct{}{}
		key := tier.TierKey()
		if _, dup := keys[key]; dup {
			return fmt.Errorf("tiers[%d] key %q is declared more than once", i, key)
		}
		keys[key] = struct{}{}
	}
	return nil
}

func (c *Config) validateMatch() error {
	switch c.Match.Strategy {
	case MatchPositional:
		return nil
	case MatchKey:
		if c.Match.Field == "" {
			return errors.New("match.field must be set when match.strategy is \"key\"")
		}
		return nil
	default:
		return fmt.Errorf("match.strategy: unsupported value %q (want %q or %q)", c.Match.Strategy, MatchPositional, MatchKey)
	}
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout < 0 {
		return errors.New("notifications.request_timeout must be >= 0 (seconds)")
	}
	if topic := c.Notifications.NtfyTopic; topic != "" {
		parsed, err := url.Parse(topic)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("notifications.ntfy_topic %q must be an absolute URL", topic)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func ensureNonEmptyMap(values map[string]string) error {
	for key, value := range values {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	return nil
}
