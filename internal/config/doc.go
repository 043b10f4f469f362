// Package config loads, normalizes, and validates walrusup configuration data.
//
// It supplies repository defaults (the bronze/silver/gold tier layout under
// ./assets), expands user paths including tilde shortcuts, reads TOML files,
// and honours environment fallbacks such as WALRUS_BINARY, WALRUS_CONFIG and
// SUI_FULL_NODE_URL. Relative tier directories resolve against
// paths.assets_dir.
//
// Always obtain settings through this package so downstream code receives
// absolute paths and clear validation errors that name the offending key.
package config
