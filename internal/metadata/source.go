package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Source is the loaded metadata file: tier key to ordered records. It is
// treated as immutable once loaded; Records hands out copies.
type Source struct {
	path  string
	tiers map[string][]Record
}

// Load reads and decodes the metadata file at path.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	src, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", path, err)
	}
	src.path = path
	return src, nil
}

// Parse decodes metadata JSON of the form {"<key>": [ {...}, ... ], ...}.
func Parse(data []byte) (*Source, error) {
	var tiers map[string][]Record
	if err := json.Unmarshal(data, &tiers); err != nil {
		return nil, err
	}
	if tiers == nil {
		tiers = map[string][]Record{}
	}
	return &Source{tiers: tiers}, nil
}

// Path returns the file the source was loaded from, if any.
func (s *Source) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Has reports whether key is present in the source.
func (s *Source) Has(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.tiers[key]
	return ok
}

// Records returns deep copies of the records stored under key. A missing key
// yields an empty slice.
func (s *Source) Records(key string) []Record {
	if s == nil {
		return nil
	}
	records := s.tiers[key]
	out := make([]Record, len(records))
	for i, record := range records {
		out[i] = record.Clone()
	}
	return out
}

// Keys returns the tier keys in sorted order.
func (s *Source) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.tiers))
	for key := range s.tiers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
