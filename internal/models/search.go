// internal/models/search.go
package models

import "strings"

// SearchResult is one descriptor returned by the search provider.
// URL may be empty for synthesized answer-box descriptors.
type SearchResult struct {
	URL     string `json:"url"`
	Heading string `json:"heading"`
	Snippet string `json:"snippet"`
}

// ContextBlock is the "Title: {heading}" block assembled for one descriptor.
type ContextBlock struct {
	Heading string `json:"heading"`
	URL     string `json:"url,omitempty"`
	Body    string `json:"body"`
	// FailureReason is set when the page fetch failed and Body is empty.
	FailureReason string `json:"failureReason,omitempty"`
}

func (b ContextBlock) String() string {
	return "Title: " + b.Heading + "\n" + b.Body
}

// AssembledContext holds one block per selected descriptor, in search order.
type AssembledContext struct {
	Blocks []ContextBlock `json:"blocks"`
}

// Text joins the blocks with a blank line.
func (c *AssembledContext) Text() string {
	if c == nil {
		return ""
	}
	parts := make([]string, len(c.Blocks))
	for i, b := range c.Blocks {
		parts[i] = b.String()
	}
	return strings.Join(parts, "\n\n")
}
