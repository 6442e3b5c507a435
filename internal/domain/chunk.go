package domain

// NarrativeSection tags chunks derived from long-form narrative passages.
const NarrativeSection = "narrative"

// Chunk is the atomic retrievable unit: one flattened profile entry, one
// nested-object section, or one narrative paragraph. IDs are assigned
// monotonically during a single chunking pass.
type Chunk struct {
	ID      int
	Content string
	Section string
	Source  string
}

// ScoredChunk pairs a chunk with its relevance score for one query.
// Scores are per-request scratch state: the retriever allocates fresh
// ScoredChunks for every query and never writes back to the shared corpus,
// which keeps concurrent requests free of shared mutable state.
type ScoredChunk struct {
	Chunk
	Score float64
}

// Passage is one titled long-form narrative essay, segmented into chunks
// at blank-line paragraph boundaries.
type Passage struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
	Content  string   `json:"content"`
}
