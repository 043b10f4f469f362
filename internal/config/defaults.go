package config

const (
	defaultAssetsDir          = "assets"
	defaultMetadataFile       = "assets/brains_info.json"
	defaultManifestFile       = "assets/brains_info_uploaded.json"
	defaultManifestRecordFile = "assets/info_blob_id.json"
	defaultLogDir             = "~/.local/share/walrusup/logs"
	defaultLedgerPath         = "~/.local/share/walrusup/ledger.db"
	defaultWalrusBinary       = "walrus"
	defaultWalrusConfigPath   = "~/.config/walrus/client_config.yaml"
	defaultWalrusEpochs       = 1
	defaultMatchStrategy      = MatchPositional
	defaultMatchField         = "name"
	defaultNtfyTimeout        = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Match strategies.
const (
	MatchPositional = "positional"
	MatchKey        = "key"
)

func defaultTiers() []Tier {
	return []Tier{
		{Name: "bronze", Dir: "bronze"},
		{Name: "silver", Dir: "silver"},
		{Name: "gold", Dir: "gold"},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AssetsDir:          defaultAssetsDir,
			MetadataFile:       defaultMetadataFile,
			ManifestFile:       defaultManifestFile,
			ManifestRecordFile: defaultManifestRecordFile,
			StateDir:           defaultStateDir(),
			LogDir:             defaultLogDir,
		},
		Walrus: Walrus{
			Epochs: defaultWalrusEpochs,
		},
		Tiers: defaultTiers(),
		Match: Match{
			Strategy: defaultMatchStrategy,
			Field:    defaultMatchField,
		},
		Ledger: Ledger{
			Enabled: true,
			Path:    defaultLedgerPath,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
