package ecourts

import (
	"regexp"
	"strings"
)

// cnrShape matches the 16-character alphanumeric CNR the portal issues.
var cnrShape = regexp.MustCompile(`^[A-Za-z0-9]{16}$`)

// NormalizeCNR trims user input and rejects an empty CNR.
func NormalizeCNR(raw string) (string, error) {
	cnr := strings.TrimSpace(raw)
	if cnr == "" {
		return "", ErrMissingCNR
	}
	return cnr, nil
}

// LooksLikeCNR reports whether cnr has the usual CNR shape. The portal is the
// authority, so callers only warn on a mismatch.
func LooksLikeCNR(cnr string) bool {
	return cnrShape.MatchString(cnr)
}
