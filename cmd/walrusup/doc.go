// Command walrusup uploads tiered asset directories to Walrus, merges the
// returned blob ids into the metadata manifest, and stores the manifest.
//
// Subcommands:
//
//	upload       run the full pipeline (--dry-run to preview pairings)
//	store        upload a single file
//	check        run preflight checks
//	history      list recorded uploads from the ledger
//	config       init, validate, or show configuration
//	test-notify  send a test ntfy notification
package main
