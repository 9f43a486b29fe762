// Package ecourts defines the case record, its envelope, and the ports shared
// across the lookup and probe flows.
package ecourts

import (
	"net/http"
	"time"
)

// CaseRecord holds the fields scraped from an eCourts case-details page.
// Text fields are nil when the page did not carry them.
type CaseRecord struct {
	CaseType           *string `json:"case_type"`
	FilingNumber       *string `json:"filing_number"`
	FilingDate         *string `json:"filing_date"`
	RegistrationNumber *string `json:"registration_number"`
	RegistrationDate   *string `json:"registration_date"`
	FirstHearingDate   *string `json:"first_hearing_date"`
	NextHearingDate    *string `json:"next_hearing_date"`
	CaseStage          *string `json:"case_stage"`
	CourtName          *string `json:"court_name"`
	Petitioner         *string `json:"petitioner"`
	Respondent         *string `json:"respondent"`
	ListedToday        bool    `json:"listed_today"`
	ListedTomorrow     bool    `json:"listed_tomorrow"`
}

// QueryEnvelope is the document written to disk for one lookup.
type QueryEnvelope struct {
	CNR       string     `json:"CNR"`
	CheckedOn time.Time  `json:"checked_on"`
	Results   CaseRecord `json:"results"`
}

// NewEnvelope wraps a record with the queried CNR and capture time.
func NewEnvelope(cnr string, checkedOn time.Time, record CaseRecord) QueryEnvelope {
	return QueryEnvelope{
		CNR:       cnr,
		CheckedOn: checkedOn,
		Results:   record,
	}
}

// FetchRequest captures everything needed to fetch a URL.
type FetchRequest struct {
	URL     string
	Headers http.Header
}

// FetchResponse is the result returned by a Fetcher implementation.
type FetchResponse struct {
	URL          string
	StatusCode   int
	Headers      http.Header
	Body         []byte
	Duration     time.Duration
	UsedHeadless bool
}
