// Package metadata loads the pre-existing item metadata that uploads are
// merged into.
//
// The metadata file maps a tier key (for example "bronzeNFT") to an ordered
// list of item records. Records carry arbitrary fields; Record keeps them in
// their original order so rewritten manifests diff cleanly against the input.
package metadata
