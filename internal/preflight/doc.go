// Package preflight provides readiness checks for the Walrus client, its
// configuration, the metadata source, and the tier directories.
//
// The CLI "walrusup check" command prints every result; "walrusup upload"
// runs the same checks first and refuses to start when any fails.
package preflight
