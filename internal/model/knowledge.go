package model

// Snippet is a short, tagged knowledge unit used as grounding context
// for generated answers.
type Snippet struct {
	ID       string
	Content  string
	Category string
	Topic    string
	Priority string
}

// SearchResult is a retrieved snippet with its similarity score
// (1 - distance under the index's cosine metric).
type SearchResult struct {
	Snippet Snippet
	Score   float64
}
