package ecourts

import (
	"regexp"
	"strings"
	"time"
)

// listingDateLayout is how the portal prints hearing dates (DD-MM-YYYY).
const listingDateLayout = "02-01-2006"

// Each pattern anchors on a label and captures the run of characters drawn
// from the field's alphabet. Order and alphabets mirror the portal layout;
// changing either changes which fields resolve to nil.
var (
	caseTypePattern           = regexp.MustCompile(`(?i)Case Type\s*([A-Z0-9 \-]+)`)
	filingNumberPattern       = regexp.MustCompile(`(?i)Filing Number\s*([0-9/]+)`)
	filingDatePattern         = regexp.MustCompile(`(?i)Filing Date\s*([0-9\-]+)`)
	registrationNumberPattern = regexp.MustCompile(`(?i)Registration Number\s*([0-9/]+)`)
	registrationDatePattern   = regexp.MustCompile(`(?i)Registration Date[:\s]*([0-9\-]+)`)
	firstHearingDatePattern   = regexp.MustCompile(`(?i)First Hearing Date\s*([A-Za-z0-9\s\-]+)`)
	nextHearingDatePattern    = regexp.MustCompile(`(?i)Next Hearing Date\s*([A-Za-z0-9\s\-]+)`)
	caseStagePattern          = regexp.MustCompile(`(?i)Case Stage\s*([A-Z ]+)`)
	courtNamePattern          = regexp.MustCompile(`(?i)Court Number and Judge\s*([A-Za-z0-9 \-.]+)`)
	// Parties render as "Petitioner (1) NAME"; the closing parenthesis is required.
	petitionerPattern = regexp.MustCompile(`(?i)Petitioner.*?\)\s*([A-Z\s.&]+)`)
	respondentPattern = regexp.MustCompile(`(?i)Respondent.*?\)\s*([A-Z\s.&]+)`)
)

// Extract builds a CaseRecord from the visible text of a case-details page.
// Missing labels yield nil fields; the listing flags compare against now and
// the following day in now's location.
func Extract(text string, now time.Time) CaseRecord {
	return CaseRecord{
		CaseType:           capture(caseTypePattern, text),
		FilingNumber:       capture(filingNumberPattern, text),
		FilingDate:         capture(filingDatePattern, text),
		RegistrationNumber: capture(registrationNumberPattern, text),
		RegistrationDate:   capture(registrationDatePattern, text),
		FirstHearingDate:   capture(firstHearingDatePattern, text),
		NextHearingDate:    capture(nextHearingDatePattern, text),
		CaseStage:          capture(caseStagePattern, text),
		CourtName:          capture(courtNamePattern, text),
		Petitioner:         capture(petitionerPattern, text),
		Respondent:         capture(respondentPattern, text),
		ListedToday:        strings.Contains(text, ListingDate(now)),
		ListedTomorrow:     strings.Contains(text, ListingDate(now.AddDate(0, 0, 1))),
	}
}

// ListingDate formats t the way the portal prints cause-list dates.
func ListingDate(t time.Time) string {
	return t.Format(listingDateLayout)
}

func capture(pattern *regexp.Regexp, text string) *string {
	match := pattern.FindStringSubmatch(text)
	if len(match) < 2 {
		return nil
	}
	value := strings.TrimSpace(match[1])
	if value == "" {
		return nil
	}
	return &value
}
