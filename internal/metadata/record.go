package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Record is one item's metadata: a JSON object whose field order is preserved
// across decode and encode. Fields added with Set are appended; overwritten
// fields keep their position.
type Record struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewRecord returns an empty record.
func NewRecord() Record {
	return Record{values: map[string]json.RawMessage{}}
}

// Len reports the number of fields.
func (r Record) Len() int { return len(r.keys) }

// Keys returns the field names in order.
func (r Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Raw returns the undecoded JSON value of field.
func (r Record) Raw(field string) (json.RawMessage, bool) {
	v, ok := r.values[field]
	return v, ok
}

// String returns field when it holds a JSON string.
func (r Record) String(field string) (string, bool) {
	raw, ok := r.values[field]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Set encodes value and stores it under field.
func (r *Record) Set(field string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode field %q: %w", field, err)
	}
	if r.values == nil {
		r.values = map[string]json.RawMessage{}
	}
	if _, exists := r.values[field]; !exists {
		r.keys = append(r.keys, field)
	}
	r.values[field] = raw
	return nil
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	out := Record{
		keys:   append([]string(nil), r.keys...),
		values: make(map[string]json.RawMessage, len(r.values)),
	}
	for k, v := range r.values {
		out.values[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// MarshalJSON renders the record with its fields in order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(r.values[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, remembering field order. Duplicate
// keys keep the first position and the last value.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("metadata record must be a JSON object")
	}
	out := NewRecord()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("metadata record: unexpected key token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("metadata record field %q: %w", key, err)
		}
		if _, exists := out.values[key]; !exists {
			out.keys = append(out.keys, key)
		}
		out.values[key] = value
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}
