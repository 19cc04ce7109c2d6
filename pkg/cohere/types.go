package cohere

// RerankRequest is the request body for POST /rerank.
type RerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n,omitempty"`
}

// RerankResponse is the response body of POST /rerank.
type RerankResponse struct {
	ID      string         `json:"id"`
	Results []RerankResult `json:"results"`
}

// RerankResult points back into the submitted documents.
type RerankResult struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}
