// Package manifest builds and persists the aggregated upload manifest: tier
// key to the ordered metadata records augmented with blob ids, plus the small
// record describing where the manifest itself was stored.
package manifest
