package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"walrusup/internal/config"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("WALRUS_BINARY", "")
	t.Setenv("WALRUS_CONFIG", "")
	t.Setenv("SUI_FULL_NODE_URL", "")
	t.Chdir(t.TempDir())
	return home
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	home := isolateEnv(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if want := filepath.Join(cwd, "assets", "brains_info.json"); cfg.Paths.MetadataFile != want {
		t.Fatalf("unexpected metadata file: got %q want %q", cfg.Paths.MetadataFile, want)
	}
	if want := filepath.Join(cwd, "assets", "brains_info_uploaded.json"); cfg.Paths.ManifestFile != want {
		t.Fatalf("unexpected manifest file: got %q want %q", cfg.Paths.ManifestFile, want)
	}
	if want := filepath.Join(cwd, "assets", "info_blob_id.json"); cfg.Paths.ManifestRecordFile != want {
		t.Fatalf("unexpected manifest record file: got %q want %q", cfg.Paths.ManifestRecordFile, want)
	}
	if want := filepath.Join(home, ".local", "state", "walrusup"); cfg.Paths.StateDir != want {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, want)
	}
	if cfg.Walrus.Binary != "walrus" {
		t.Fatalf("expected bare walrus binary, got %q", cfg.Walrus.Binary)
	}
	if want := filepath.Join(home, ".config", "walrus", "client_config.yaml"); cfg.Walrus.ConfigPath != want {
		t.Fatalf("unexpected walrus config path: got %q want %q", cfg.Walrus.ConfigPath, want)
	}
	if cfg.Walrus.Epochs != 1 {
		t.Fatalf("expected one epoch by default, got %d", cfg.Walrus.Epochs)
	}
	if cfg.Walrus.StoreTimeout != 0 {
		t.Fatalf("expected no store timeout by default, got %d", cfg.Walrus.StoreTimeout)
	}

	wantTiers := []string{"bronze", "silver", "gold"}
	if len(cfg.Tiers) != len(wantTiers) {
		t.Fatalf("expected %d tiers, got %d", len(wantTiers), len(cfg.Tiers))
	}
	for i, name := range wantTiers {
		tier := cfg.Tiers[i]
		if tier.Name != name {
			t.Fatalf("tier %d: got name %q want %q", i, tier.Name, name)
		}
		if tier.TierKey() != name+"NFT" {
			t.Fatalf("tier %d: unexpected key %q", i, tier.TierKey())
		}
		if want := filepath.Join(cwd, "assets", name); tier.Dir != want {
			t.Fatalf("tier %d: got dir %q want %q", i, tier.Dir, want)
		}
	}
	if cfg.Match.Strategy != config.MatchPositional {
		t.Fatalf("expected positional matching by default, got %q", cfg.Match.Strategy)
	}
	if !cfg.Ledger.Enabled {
		t.Fatal("expected ledger enabled by default")
	}
	if cfg.TierOptions.SkipHidden {
		t.Fatal("expected hidden files to qualify by default")
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir, filepath.Dir(cfg.Ledger.Path)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadHonoursEnvironmentFallbacks(t *testing.T) {
	isolateEnv(t)
	binDir := t.TempDir()
	t.Setenv("WALRUS_BINARY", filepath.Join(binDir, "walrus-testnet"))
	t.Setenv("WALRUS_CONFIG", filepath.Join(binDir, "client.yaml"))
	t.Setenv("SUI_FULL_NODE_URL", "https://fullnode.testnet.sui.io:443")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Walrus.Binary != filepath.Join(binDir, "walrus-testnet") {
		t.Fatalf("expected binary from env, got %q", cfg.Walrus.Binary)
	}
	if cfg.Walrus.ConfigPath != filepath.Join(binDir, "client.yaml") {
		t.Fatalf("expected config path from env, got %q", cfg.Walrus.ConfigPath)
	}
	if cfg.Walrus.FullNodeURL != "https://fullnode.testnet.sui.io:443" {
		t.Fatalf("expected full node url from env, got %q", cfg.Walrus.FullNodeURL)
	}
}

func TestLoadCustomPath(t *testing.T) {
	isolateEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "walrusup.toml")

	type tier struct {
		Name string `toml:"name"`
		Dir  string `toml:"dir"`
		Key  string `toml:"key"`
	}
	type payload struct {
		Paths struct {
			AssetsDir    string `toml:"assets_dir"`
			MetadataFile string `toml:"metadata_file"`
		} `toml:"paths"`
		Walrus struct {
			Epochs       int `toml:"epochs"`
			StoreTimeout int `toml:"store_timeout"`
		} `toml:"walrus"`
		Tiers []tier `toml:"tiers"`
		Match struct {
			Strategy string `toml:"strategy"`
			Field    string `toml:"field"`
		} `toml:"match"`
	}
	custom := payload{}
	custom.Paths.AssetsDir = filepath.Join(tempDir, "art")
	custom.Paths.MetadataFile = filepath.Join(tempDir, "art", "items.json")
	custom.Walrus.Epochs = 5
	custom.Walrus.StoreTimeout = 90
	custom.Tiers = []tier{
		{Name: "common"},
		{Name: "rare", Dir: "rares", Key: "rareItems"},
	}
	custom.Match.Strategy = "KEY"
	custom.Match.Field = "id"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Walrus.Epochs != 5 || cfg.Walrus.StoreTimeout != 90 {
		t.Fatalf("unexpected walrus settings: %+v", cfg.Walrus)
	}
	if len(cfg.Tiers) != 2 {
		t.Fatalf("expected custom tiers to replace defaults, got %+v", cfg.Tiers)
	}
	if cfg.Tiers[0].Dir != filepath.Join(tempDir, "art", "common") {
		t.Fatalf("expected tier dir to default to its name, got %q", cfg.Tiers[0].Dir)
	}
	if cfg.Tiers[0].TierKey() != "commonNFT" {
		t.Fatalf("unexpected default key %q", cfg.Tiers[0].TierKey())
	}
	if cfg.Tiers[1].Dir != filepath.Join(tempDir, "art", "rares") {
		t.Fatalf("unexpected tier dir %q", cfg.Tiers[1].Dir)
	}
	if cfg.Tiers[1].TierKey() != "rareItems" {
		t.Fatalf("expected key override, got %q", cfg.Tiers[1].TierKey())
	}
	if cfg.Match.Strategy != config.MatchKey || cfg.Match.Field != "id" {
		t.Fatalf("unexpected match settings: %+v", cfg.Match)
	}
}

func TestValidateRejectsInvalidSettings(t *testing.T) {
	isolateEnv(t)
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"negative epochs", func(c *config.Config) { c.Walrus.Epochs = -1 }, "walrus.epochs"},
		{"negative timeout", func(c *config.Config) { c.Walrus.StoreTimeout = -5 }, "walrus.store_timeout"},
		{"bad strategy", func(c *config.Config) { c.Match.Strategy = "random" }, "match.strategy"},
		{"no tiers", func(c *config.Config) { c.Tiers = nil }, "at least one tier"},
		{"duplicate tier", func(c *config.Config) {
			c.Tiers = append(c.Tiers, config.Tier{Name: "gold", Dir: "/tmp/gold2"})
		}, "declared more than once"},
		{"same outputs", func(c *config.Config) { c.Paths.ManifestRecordFile = c.Paths.ManifestFile }, "paths.manifest_record_file"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"relative full node url", func(c *config.Config) { c.Walrus.FullNodeURL = "fullnode" }, "walrus.full_node_url"},
		{"relative ntfy topic", func(c *config.Config) { c.Notifications.NtfyTopic = "walrusup" }, "notifications.ntfy_topic"},
		{"negative ntfy timeout", func(c *config.Config) { c.Notifications.RequestTimeout = -1 }, "notifications.request_timeout"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, _, _, err := config.Load("")
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			tc.mutate(cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleLoadsCleanly(t *testing.T) {
	isolateEnv(t)
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if len(cfg.Tiers) != 3 || cfg.Tiers[2].TierKey() != "goldNFT" {
		t.Fatalf("unexpected sample tiers: %+v", cfg.Tiers)
	}

	encoded, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !strings.Contains(string(encoded), "[walrus]") {
		t.Fatalf("expected walrus table in encoded config:\n%s", encoded)
	}
}
