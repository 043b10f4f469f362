package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"walrusup/internal/metadata"
)

// Manifest maps tier keys to records, keeping the declared key order.
type Manifest struct {
	keys  []string
	tiers map[string][]metadata.Record
}

// New returns a manifest with an empty sequence for every key.
func New(keys []string) *Manifest {
	m := &Manifest{tiers: make(map[string][]metadata.Record, len(keys))}
	for _, key := range keys {
		if _, exists := m.tiers[key]; exists {
			continue
		}
		m.keys = append(m.keys, key)
		m.tiers[key] = []metadata.Record{}
	}
	return m
}

// Append adds records to the sequence for key. Unknown keys are added after
// the declared ones.
func (m *Manifest) Append(key string, records ...metadata.Record) {
	if _, exists := m.tiers[key]; !exists {
		m.keys = append(m.keys, key)
		m.tiers[key] = []metadata.Record{}
	}
	m.tiers[key] = append(m.tiers[key], records...)
}

// Records returns the sequence stored under key.
func (m *Manifest) Records(key string) []metadata.Record {
	return m.tiers[key]
}

// Keys returns tier keys in declared order.
func (m *Manifest) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Count returns the total number of records across tiers.
func (m *Manifest) Count() int {
	total := 0
	for _, records := range m.tiers {
		total += len(records)
	}
	return total
}

// MarshalJSON renders the tiers in declared order.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		encodedRecords, err := json.Marshal(m.tiers[key])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(encodedRecords)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode returns the manifest as JSON indented with four spaces.
func (m *Manifest) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// Write persists the manifest to path, replacing any previous content.
func (m *Manifest) Write(path string) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Read loads a manifest previously written by Write. Key order follows the
// file.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parse manifest %s: expected JSON object", path)
	}
	m := New(nil)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse manifest %s: %w", path, err)
		}
		key, _ := tok.(string)
		var records []metadata.Record
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("parse manifest %s: tier %s: %w", path, key, err)
		}
		m.Append(key, records...)
	}
	return m, nil
}
