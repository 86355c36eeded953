// Package snapshot persists a FileRegistry as a flat JSON record sequence
// and diffs two such sequences for differential re-assessment.
package snapshot

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"io"
	"os"

	"github.com/quay/licenseassess"
)

// Record is one persisted file entry. ContentHash is a plain string rather
// than assess.Digest so an empty/missing hash round-trips faithfully instead
// of failing Digest's "algo:hex" parse.
type Record struct {
	RelativePath string   `json:"relative_path"`
	ContentHash  string   `json:"content_hash"`
	LicenseNames []string `json:"license_names"`
	ContentBlob  string   `json:"content_blob"`
	IsText       bool     `json:"is_text"`
}

// FromRegistry builds the persisted record set for reg. Every FileRecord
// reaches the Reader's UTF-8-with-lossy-fallback decode before snapshot
// time, so Text is always already a string; IsText is carried for format
// fidelity with the persistence schema and is always true in this model.
func FromRegistry(reg *assess.Registry) []Record {
	out := make([]Record, 0, reg.Len())
	reg.Range(func(_ string, rec *assess.FileRecord) bool {
		out = append(out, Record{
			RelativePath: rec.RelativePath,
			ContentHash:  rec.ContentHash.String(),
			LicenseNames: rec.LicenseNames,
			ContentBlob:  compressToB64(rec.Text),
			IsText:       true,
		})
		return true
	})
	return out
}

// Save writes records to path as a JSON array.
func Save(path string, records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &assess.Error{Op: "snapshot.Save", Kind: assess.ErrInvariant, Inner: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &assess.Error{Op: "snapshot.Save", Kind: assess.ErrIO, Inner: err}
	}
	return nil
}

// Load reads records from path. A missing file returns an empty slice and a
// nil error, per spec.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &assess.Error{Op: "snapshot.Load", Kind: assess.ErrIO, Inner: err}
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &assess.Error{Op: "snapshot.Load", Kind: assess.ErrInvariant, Inner: err}
	}
	return records, nil
}

// Diff compares a prior snapshot against the current one.
//
// new_or_changed holds every current record whose content_hash doesn't
// appear in prior; removed holds every prior record whose content_hash
// doesn't appear in current. An empty/missing content_hash is always
// treated as distinct from every other record, including another
// empty-hash record, so such a record always lands in new_or_changed when it
// is in current and in removed when it is in prior.
func Diff(prior, current []Record) (newOrChanged, removed []Record) {
	priorHashes := nonEmptyHashSet(prior)
	currentHashes := nonEmptyHashSet(current)

	for _, r := range current {
		if r.ContentHash == "" || !priorHashes[r.ContentHash] {
			newOrChanged = append(newOrChanged, r)
		}
	}
	for _, r := range prior {
		if r.ContentHash == "" || !currentHashes[r.ContentHash] {
			removed = append(removed, r)
		}
	}
	return newOrChanged, removed
}

func nonEmptyHashSet(records []Record) map[string]bool {
	set := make(map[string]bool, len(records))
	for _, r := range records {
		if r.ContentHash != "" {
			set[r.ContentHash] = true
		}
	}
	return set
}

func compressToB64(text string) string {
	if text == "" {
		return ""
	}
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, _ = io.WriteString(w, text)
	w.Close()
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// DecompressText reverses compressToB64, for callers that need to recover a
// Record's original text (e.g. a report or re-diff tool working from a
// loaded snapshot alone, without the original FileRegistry).
func DecompressText(blob string) (string, error) {
	if blob == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", &assess.Error{Op: "snapshot.DecompressText", Kind: assess.ErrInvariant, Inner: err}
	}
	r, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return "", &assess.Error{Op: "snapshot.DecompressText", Kind: assess.ErrInvariant, Inner: err}
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return "", &assess.Error{Op: "snapshot.DecompressText", Kind: assess.ErrInvariant, Inner: err}
	}
	return string(out), nil
}
