// internal/search/models.go
package search

// Wire types for the Serper search API.

type searchRequest struct {
	Q  string `json:"q"`
	GL string `json:"gl,omitempty"`
}

type searchResponse struct {
	AnswerBox      *answerBox      `json:"answerBox,omitempty"`
	KnowledgeGraph *knowledgeGraph `json:"knowledgeGraph,omitempty"`
	Organic        []organicResult `json:"organic"`
}

type answerBox struct {
	Title              string   `json:"title"`
	Link               string   `json:"link"`
	Answer             string   `json:"answer"`
	Snippet            string   `json:"snippet"`
	SnippetHighlighted []string `json:"snippetHighlighted"`
}

type knowledgeGraph struct {
	Title           string            `json:"title"`
	Type            string            `json:"type"`
	Description     string            `json:"description"`
	DescriptionLink string            `json:"descriptionLink"`
	Attributes      map[string]string `json:"attributes"`
}

type organicResult struct {
	Link       string            `json:"link"`
	Title      string            `json:"title"`
	Snippet    string            `json:"snippet"`
	Attributes map[string]string `json:"attributes"`
	Position   int               `json:"position"`
}
