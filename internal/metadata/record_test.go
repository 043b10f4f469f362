package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestRecordPreservesFieldOrder(t *testing.T) {
	input := `{"name":"Brain #1","attributes":[{"trait":"iq","value":140}],"description":"first","image":"old"}`

	var record Record
	if err := json.Unmarshal([]byte(input), &record); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := record.Keys(); !reflect.DeepEqual(got, []string{"name", "attributes", "description", "image"}) {
		t.Fatalf("unexpected key order %v", got)
	}

	if err := record.Set("image", "blobX"); err != nil {
		t.Fatalf("Set image: %v", err)
	}
	if err := record.Set("endEpoch", 10); err != nil {
		t.Fatalf("Set endEpoch: %v", err)
	}

	out, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"name":"Brain #1","attributes":[{"trait":"iq","value":140}],"description":"first","image":"blobX","endEpoch":10}`
	if string(out) != want {
		t.Fatalf("unexpected encoding\n got: %s\nwant: %s", out, want)
	}
}

func TestRecordCloneIsIndependent(t *testing.T) {
	original := NewRecord()
	if err := original.Set("name", "A"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	clone := original.Clone()
	if err := clone.Set("image", "blob"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if original.Len() != 1 {
		t.Fatalf("expected original untouched, got keys %v", original.Keys())
	}
	if name, ok := clone.String("name"); !ok || name != "A" {
		t.Fatalf("expected cloned name, got %q %v", name, ok)
	}
}

func TestRecordStringRejectsNonString(t *testing.T) {
	var record Record
	if err := json.Unmarshal([]byte(`{"id":7,"name":"seven"}`), &record); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := record.String("id"); ok {
		t.Fatal("expected numeric field not to read as string")
	}
	if _, ok := record.String("missing"); ok {
		t.Fatal("expected missing field not to read as string")
	}
	if raw, ok := record.Raw("id"); !ok || string(raw) != "7" {
		t.Fatalf("unexpected raw id %q", raw)
	}
}

func TestRecordRejectsNonObject(t *testing.T) {
	var record Record
	if err := json.Unmarshal([]byte(`["not","an","object"]`), &record); err == nil {
		t.Fatal("expected error for array record")
	}
}

func TestLoadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brains_info.json")
	data := `{
  "bronzeNFT": [{"name": "A"}, {"name": "B"}],
  "goldNFT": []
}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write metadata: %v", err)
	}

	src, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if src.Path() != path {
		t.Fatalf("unexpected path %q", src.Path())
	}
	if !reflect.DeepEqual(src.Keys(), []string{"bronzeNFT", "goldNFT"}) {
		t.Fatalf("unexpected keys %v", src.Keys())
	}
	bronze := src.Records("bronzeNFT")
	if len(bronze) != 2 {
		t.Fatalf("expected 2 bronze records, got %d", len(bronze))
	}
	if name, _ := bronze[1].String("name"); name != "B" {
		t.Fatalf("unexpected second record name %q", name)
	}
	if got := src.Records("silverNFT"); len(got) != 0 {
		t.Fatalf("expected no silver records, got %d", len(got))
	}
	if src.Has("silverNFT") {
		t.Fatal("expected silverNFT to be absent")
	}

	// Mutating returned records must not leak into the source.
	if err := bronze[0].Set("image", "blob"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if again := src.Records("bronzeNFT"); again[0].Len() != 1 {
		t.Fatalf("expected source to remain immutable, got keys %v", again[0].Keys())
	}
}

func TestLoadSourceErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"bronzeNFT": {"name": "A"}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatal("expected error for non-list tier value")
	}
}
