// Package uploadrun assembles a complete walrusup run from configuration:
// run lock, run id, preflight checks, Walrus client, ledger, and the
// pipeline driver. The CLI commands are thin wrappers over Run and StoreFile.
package uploadrun
