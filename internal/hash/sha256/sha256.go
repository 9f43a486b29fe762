// Package sha256 provides SHA-256 hashing utilities.
package sha256

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Hasher implements ecourts.Hasher using SHA-256. Captured pages and probe
// snapshots are logged with their digest so two runs can be compared
// without keeping the HTML.
type Hasher struct{}

// New returns a SHA-256 hasher.
func New() *Hasher {
	return &Hasher{}
}

// Hash hashes the input and returns a hex digest.
func (h *Hasher) Hash(data []byte) (string, error) {
	return h.HashReader(bytes.NewReader(data))
}

// HashReader streams r through SHA-256 and returns the hex digest. A read
// error aborts the digest.
func (h *Hasher) HashReader(r io.Reader) (string, error) {
	sum := sha256.New()
	if _, err := io.Copy(sum, r); err != nil {
		return "", fmt.Errorf("hash content: %w", err)
	}
	return hex.EncodeToString(sum.Sum(nil)), nil
}
