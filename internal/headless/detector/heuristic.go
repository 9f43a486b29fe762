// Package detector decides whether fetched portal HTML is usable as-is or
// needs a JavaScript-capable browser.
package detector

import (
	"strings"
	"unicode/utf8"

	"github.com/JakeFAU/ecourts-cnr/internal/ecourts"
)

// DefaultMinLength is the character count below which a page is treated as
// an unrendered shell.
const DefaultMinLength = 3000

// DefaultPhrases signal that the CNR search form or case content is present.
var DefaultPhrases = []string{
	"cnr",
	"case no",
	"case number",
	"search by cnr",
	"search by cnr number",
}

var enableJSMarkers = []string{
	"enable javascript",
	"please enable",
}

// Reachability implements a handful of rule-based checks over page text.
type Reachability struct {
	MinLength int
	phrases   []string
}

// NewReachability creates a classifier. A non-positive minLength or an empty
// phrase list falls back to the defaults.
func NewReachability(minLength int, phrases []string) *Reachability {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	lowered := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			lowered = append(lowered, p)
		}
	}
	if len(lowered) == 0 {
		lowered = append(lowered, DefaultPhrases...)
	}
	return &Reachability{MinLength: minLength, phrases: lowered}
}

// HasCaseContent reports whether any case/CNR phrase appears in text.
func (r *Reachability) HasCaseContent(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range r.phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// LooksJSShell reports whether text is too short to be a rendered page or
// asks the visitor to turn JavaScript on.
func (r *Reachability) LooksJSShell(text string) bool {
	if utf8.RuneCountInString(text) < r.MinLength {
		return true
	}
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "javascript") {
		return false
	}
	for _, marker := range enableJSMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ShouldPromote decides whether a browser fetch is required after a plain
// HTTP probe.
func (r *Reachability) ShouldPromote(resp ecourts.FetchResponse) bool {
	body := string(resp.Body)
	return r.LooksJSShell(body) || !r.HasCaseContent(body)
}
