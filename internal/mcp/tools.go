package mcp

// SearchDocsInput is the input schema for the search_docs tool.
type SearchDocsInput struct {
	Query   string   `json:"query" jsonschema:"the documentation search query to execute"`
	Method  string   `json:"method,omitempty" jsonschema:"search method: lexical, vector, or hybrid (default hybrid)"`
	TopK    int      `json:"top_k,omitempty" jsonschema:"maximum number of results, default 5"`
	Lexical *float64 `json:"lexical_weight,omitempty" jsonschema:"hybrid weight for the BM25 leg (default 0.5)"`
	Vector  *float64 `json:"vector_weight,omitempty" jsonschema:"hybrid weight for the vector leg (default 0.5)"`
}

// SearchDocsOutput is the output schema for the search_docs tool.
type SearchDocsOutput struct {
	Results []SearchResultOutput `json:"results"`
}

// SearchResultOutput is one ranked hit.
type SearchResultOutput struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Heading    string  `json:"heading,omitempty"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
	Method     string  `json:"method"`
	SourceLink string  `json:"source_link,omitempty"`
}

// IndexStatusInput is the (empty) input schema for index_status.
type IndexStatusInput struct{}

// IndexStatusOutput reports on the current index generation.
type IndexStatusOutput struct {
	Ready      bool   `json:"ready"`
	Documents  int    `json:"documents"`
	Chunks     int    `json:"chunks"`
	Terms      int    `json:"terms"`
	Dimensions int    `json:"dimensions"`
	Model      string `json:"model"`
	BuiltAt    string `json:"built_at,omitempty"`
}
