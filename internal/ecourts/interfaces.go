package ecourts

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrMissingCNR is returned when no CNR was supplied.
	ErrMissingCNR = errors.New("no CNR entered")
	// ErrEmptyCapture is returned when the browser handed back no page content.
	ErrEmptyCapture = errors.New("no HTML captured")
)

// Fetcher fetches a URL and returns the body plus metadata.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}

// HeadlessDetector decides whether a browser fetch is warranted.
type HeadlessDetector interface {
	ShouldPromote(probe FetchResponse) bool
}

// Browser is an open, human-visible browser session on the portal.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	FillCNR(ctx context.Context, selector, cnr string) error
	PageHTML(ctx context.Context) (string, error)
	Close() error
}

// BrowserOpener launches a Browser. Callers own the returned session.
type BrowserOpener func(ctx context.Context) (Browser, error)

// Prompter blocks on a human at the terminal.
type Prompter interface {
	Ask(label string) (string, error)
	WaitForEnter(message string) error
}

// BlobStore writes raw artifacts and returns a URI.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data io.Reader) (string, error)
}

// Hasher computes digests of captured pages.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
