package pipeline

import (
	"fmt"
	"strings"

	"walrusup/internal/fileutil"
	"walrusup/internal/metadata"
)

// Matcher pairs the listed files of a tier with its metadata records.
type Matcher interface {
	Match(tier Tier, files []string, records []metadata.Record) ([]Pair, error)
}

// NewMatcher returns the matcher for strategy ("positional" or "key").
func NewMatcher(strategy, field string) (Matcher, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", "positional":
		return PositionalMatcher{}, nil
	case "key":
		field = strings.TrimSpace(field)
		if field == "" {
			field = "name"
		}
		return KeyMatcher{Field: field}, nil
	default:
		return nil, fmt.Errorf("unknown match strategy %q", strategy)
	}
}

// PositionalMatcher pairs the i-th file with the i-th record. Having more
// files than records is a mismatch; extra records are left out.
type PositionalMatcher struct{}

func (PositionalMatcher) Match(tier Tier, files []string, records []metadata.Record) ([]Pair, error) {
	if len(files) > len(records) {
		return nil, &MismatchError{
			Tier:    tier.Name,
			File:    files[len(records)],
			Files:   len(files),
			Records: len(records),
			Reason:  "more files than metadata records",
		}
	}
	pairs := make([]Pair, len(files))
	for i, file := range files {
		pairs[i] = Pair{File: file, Index: i, Record: records[i]}
	}
	return pairs, nil
}

// KeyMatcher pairs a file with the record whose Field equals the file name
// without its extension.
type KeyMatcher struct {
	Field string
}

func (m KeyMatcher) Match(tier Tier, files []string, records []metadata.Record) ([]Pair, error) {
	index := make(map[string][]int, len(records))
	for i, record := range records {
		if value, ok := record.String(m.Field); ok {
			index[value] = append(index[value], i)
		}
	}

	mismatch := func(file, reason string) error {
		return &MismatchError{
			Tier:    tier.Name,
			File:    file,
			Files:   len(files),
			Records: len(records),
			Reason:  reason,
		}
	}

	pairs := make([]Pair, 0, len(files))
	used := make(map[int]string, len(files))
	for _, file := range files {
		key := fileutil.Stem(file)
		matches := index[key]
		switch len(matches) {
		case 0:
			return nil, mismatch(file, fmt.Sprintf("no record with %s %q", m.Field, key))
		case 1:
		default:
			return nil, mismatch(file, fmt.Sprintf("%d records share %s %q", len(matches), m.Field, key))
		}
		i := matches[0]
		if prev, taken := used[i]; taken {
			return nil, mismatch(file, fmt.Sprintf("record %q already matched by %s", key, prev))
		}
		used[i] = file
		pairs = append(pairs, Pair{File: file, Index: i, Record: records[i]})
	}
	return pairs, nil
}
