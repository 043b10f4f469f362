package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"walrusup/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Tier directories and the Walrus client config file are created; the
// metadata file is not.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	assets := filepath.Join(base, "assets")
	cfgVal := config.Default()
	cfgVal.Paths = config.Paths{
		AssetsDir:          assets,
		MetadataFile:       filepath.Join(assets, "brains_info.json"),
		ManifestFile:       filepath.Join(assets, "brains_info_uploaded.json"),
		ManifestRecordFile: filepath.Join(assets, "info_blob_id.json"),
		StateDir:           filepath.Join(base, "state"),
		LogDir:             filepath.Join(base, "logs"),
	}
	cfgVal.Walrus.Binary = filepath.Join(base, "bin", "walrus")
	cfgVal.Walrus.ConfigPath = filepath.Join(base, "walrus", "client_config.yaml")
	cfgVal.Ledger.Path = filepath.Join(base, "state", "ledger.db")
	for i := range cfgVal.Tiers {
		cfgVal.Tiers[i].Dir = filepath.Join(assets, cfgVal.Tiers[i].Name)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, tier := range cfgVal.Tiers {
		builder.mkdir(tier.Dir)
	}
	builder.mkdir(filepath.Dir(cfgVal.Walrus.ConfigPath))
	if err := os.WriteFile(cfgVal.Walrus.ConfigPath, []byte("contexts: {}\n"), 0o644); err != nil {
		t.Fatalf("write walrus client config: %v", err)
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

func (b *configBuilder) mkdir(dir string) {
	b.t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		b.t.Fatalf("mkdir %s: %v", dir, err)
	}
}

// WithMetadata writes the metadata source file.
func WithMetadata(data string) ConfigOption {
	return func(b *configBuilder) {
		if err := os.WriteFile(b.cfg.Paths.MetadataFile, []byte(data), 0o644); err != nil {
			b.t.Fatalf("write metadata: %v", err)
		}
	}
}

// WithAssets writes small asset files into the named tier directory.
func WithAssets(tier string, names ...string) ConfigOption {
	return func(b *configBuilder) {
		dir := filepath.Join(b.cfg.Paths.AssetsDir, tier)
		for _, name := range names {
			WriteAsset(b.t, filepath.Join(dir, name))
		}
	}
}

// WithMatch sets the matching strategy and field.
func WithMatch(strategy, field string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Match.Strategy = strategy
		b.cfg.Match.Field = field
	}
}

// WithLedgerDisabled turns off the upload ledger.
func WithLedgerDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ledger.Enabled = false
	}
}

// WithWalrusStub installs a scripted Walrus CLI at the configured binary path.
func WithWalrusStub(responses ...StubResponse) ConfigOption {
	return func(b *configBuilder) {
		InstallWalrusStub(b.t, b.cfg.Walrus.Binary, responses...)
	}
}

// WithWalrusOnPath installs the scripted Walrus CLI in a directory prepended
// to PATH and configures the bare command name.
func WithWalrusOnPath(responses ...StubResponse) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "path-bin")
		InstallWalrusStub(b.t, filepath.Join(binDir, "walrus"), responses...)
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
		b.cfg.Walrus.Binary = "walrus"
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
