package walrus

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Variant identifies which response shape Walrus returned.
type Variant string

const (
	// VariantNewlyCreated means Walrus stored a fresh blob object.
	VariantNewlyCreated Variant = "newlyCreated"
	// VariantAlreadyCertified means the content was already certified on the network.
	VariantAlreadyCertified Variant = "alreadyCertified"
)

// Result describes one stored blob.
type Result struct {
	BlobID   string  `json:"blobId" yaml:"blob_id"`
	EndEpoch int64   `json:"endEpoch" yaml:"end_epoch"`
	Variant  Variant `json:"variant" yaml:"variant"`
	// ObjectID is the Sui object backing a newly created blob; empty otherwise.
	ObjectID string `json:"objectId,omitempty" yaml:"object_id,omitempty"`
}

type storeResponse struct {
	NewlyCreated     *newlyCreated     `json:"newlyCreated"`
	AlreadyCertified *alreadyCertified `json:"alreadyCertified"`
}

type newlyCreated struct {
	BlobObject struct {
		ID      string `json:"id"`
		BlobID  string `json:"blobId"`
		Storage struct {
			StartEpoch int64 `json:"startEpoch"`
			EndEpoch   int64 `json:"endEpoch"`
		} `json:"storage"`
	} `json:"blobObject"`
}

type alreadyCertified struct {
	BlobID   string `json:"blobId"`
	EndEpoch int64  `json:"endEpoch"`
}

// ParseStoreResponse decodes the stdout of a `walrus json` store command.
// path is only used to annotate errors.
func ParseStoreResponse(path string, output []byte) (Result, error) {
	trimmed := bytes.TrimSpace(output)

	var resp storeResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return Result{}, &FormatError{Path: path, Output: string(output), Reason: "decode json", Err: err}
	}

	var result Result
	switch {
	case resp.NewlyCreated != nil:
		obj := resp.NewlyCreated.BlobObject
		result = Result{
			BlobID:   obj.BlobID,
			EndEpoch: obj.Storage.EndEpoch,
			Variant:  VariantNewlyCreated,
			ObjectID: obj.ID,
		}
	case resp.AlreadyCertified != nil:
		result = Result{
			BlobID:   resp.AlreadyCertified.BlobID,
			EndEpoch: resp.AlreadyCertified.EndEpoch,
			Variant:  VariantAlreadyCertified,
		}
	default:
		return Result{}, &FormatError{Path: path, Output: string(output), Reason: "neither newlyCreated nor alreadyCertified present"}
	}

	if result.BlobID == "" {
		return Result{}, &FormatError{Path: path, Output: string(output), Reason: fmt.Sprintf("%s response has empty blobId", result.Variant)}
	}
	if result.EndEpoch < 0 {
		return Result{}, &FormatError{Path: path, Output: string(output), Reason: fmt.Sprintf("%s response has negative endEpoch %d", result.Variant, result.EndEpoch)}
	}
	return result, nil
}
