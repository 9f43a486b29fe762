// Package results persists lookup envelopes as pretty-printed JSON.
package results

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/JakeFAU/ecourts-cnr/internal/ecourts"
)

const (
	contentType     = "application/json; charset=utf-8"
	timestampLayout = "20060102_150405"
)

var invalidFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Writer saves envelopes to a BlobStore, one object per lookup.
type Writer struct {
	store ecourts.BlobStore
}

// NewWriter returns a Writer backed by store.
func NewWriter(store ecourts.BlobStore) *Writer {
	return &Writer{store: store}
}

// Save writes env and returns the URI (a file path for the local backend).
// Errors are returned as-is for the caller to treat as fatal.
func (w *Writer) Save(ctx context.Context, env ecourts.QueryEnvelope) (string, error) {
	payload, err := Marshal(env)
	if err != nil {
		return "", err
	}
	name := FileName(env.CNR, env.CheckedOn)
	uri, err := w.store.PutObject(ctx, name, contentType, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return uri, nil
}

// Marshal renders env with two-space indentation. Non-ASCII text and HTML
// characters are written verbatim.
func Marshal(env ecourts.QueryEnvelope) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName encodes the CNR and capture time so repeated lookups of the same
// case never overwrite each other.
func FileName(cnr string, checkedOn time.Time) string {
	safe := invalidFilenameChars.ReplaceAllString(cnr, "_")
	return fmt.Sprintf("result_%s_%s.json", safe, checkedOn.Format(timestampLayout))
}
