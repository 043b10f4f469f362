package pipeline

import (
	"context"
	"strings"

	"walrusup/internal/metadata"
	"walrusup/internal/walrus"
)

// Record fields written after a successful upload.
const (
	FieldImage    = "image"
	FieldEndEpoch = "endEpoch"
)

// ManifestTier is the tier label used when recording the manifest upload.
const ManifestTier = "manifest"

// Tier is one asset category.
type Tier struct {
	Name string
	Dir  string
	// Key names the tier in the metadata source and manifest. Empty means Name + "NFT".
	Key string
}

// MetadataKey returns the key under which the tier's records live.
func (t Tier) MetadataKey() string {
	if key := strings.TrimSpace(t.Key); key != "" {
		return key
	}
	return t.Name + "NFT"
}

// Pair couples an asset file with the metadata record it describes.
type Pair struct {
	File   string
	Index  int
	Record metadata.Record
}

// TierPlan lists the pairs a tier would upload.
type TierPlan struct {
	Tier    Tier
	Pairs   []Pair
	Records int
}

// Recorder receives every successful upload. Implementations must not retain
// the result beyond the call.
type Recorder interface {
	RecordUpload(ctx context.Context, tier, path string, result walrus.Result) error
}

// TierSummary reports one processed tier.
type TierSummary struct {
	Name     string
	Key      string
	Uploaded int
	Records  int
}

// Summary reports a completed run.
type Summary struct {
	RunID          string
	Tiers          []TierSummary
	ManifestPath   string
	RecordPath     string
	ManifestBlobID string
	ManifestEpoch  int64
	ManifestResult walrus.Variant
}

// Uploaded returns the number of asset files uploaded across tiers.
func (s Summary) Uploaded() int {
	total := 0
	for _, tier := range s.Tiers {
		total += tier.Uploaded
	}
	return total
}
