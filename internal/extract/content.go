// internal/extract/content.go
package extract

import "strings"

// FailureReason classifies why a page produced no content.
type FailureReason string

const (
	FailureNoURL       FailureReason = "no_url"
	FailureNetwork     FailureReason = "network"
	FailureTimeout     FailureReason = "timeout"
	FailureStatus      FailureReason = "status"
	FailureContentType FailureReason = "content_type"
	FailureDecode      FailureReason = "decode"
)

type Failure struct {
	Reason FailureReason
	Status int // HTTP status, when one was received
	Err    error
}

// Content is the text extracted from one page: every h1-h3 first, then
// every paragraph, each in document order. A page that failed to load has
// a non-nil Failure and no segments; a page that loaded but had no text has
// neither.
type Content struct {
	URL      string
	Segments []string
	Failure  *Failure
}

func (c *Content) Text() string {
	if c == nil {
		return ""
	}
	return strings.Join(c.Segments, "\n")
}

func (c *Content) Failed() bool {
	return c != nil && c.Failure != nil
}
