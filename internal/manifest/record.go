package manifest

import (
	"encoding/json"
	"fmt"
	"os"
)

// UploadRecord locates the uploaded manifest on the storage network.
type UploadRecord struct {
	BlobID   string `json:"blob_id" yaml:"blob_id"`
	EndEpoch int64  `json:"endEpoch" yaml:"endEpoch"`
}

// WriteRecord persists rec to path as compact JSON.
func WriteRecord(path string, rec UploadRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal manifest record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest record: %w", err)
	}
	return nil
}

// ReadRecord loads a record written by WriteRecord.
func ReadRecord(path string) (UploadRecord, error) {
	var rec UploadRecord
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, fmt.Errorf("read manifest record: %w", err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("parse manifest record %s: %w", path, err)
	}
	return rec, nil
}
