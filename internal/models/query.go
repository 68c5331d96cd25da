// internal/models/query.go
package models

type AnswerRequest struct {
	Query string `json:"query"`
}

type AnswerResponse struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
