// internal/workers/rag/answer-query/models.go
package answerquery

type Input struct {
	Query     string `json:"query"`
	RequestID string `json:"requestId,omitempty"`
}

type Output struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}
