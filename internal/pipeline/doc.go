// Package pipeline uploads tiered asset directories and merges the resulting
// blob ids into the metadata manifest.
//
// The Processor handles one tier: it lists the tier directory, pairs each
// file with a metadata record, uploads the file, and stamps the record with
// the blob id and expiry epoch. The Driver loads the metadata once, runs the
// Processor over every configured tier in declared order, writes the
// aggregated manifest, uploads the manifest itself, and records where it was
// stored.
//
// All work is sequential. Any error aborts the run before the manifest is
// written.
package pipeline
