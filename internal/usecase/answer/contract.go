package answer

import (
	"context"

	"github.com/jbritton/cvchat/internal/domain"
	"github.com/jbritton/cvchat/internal/usecase/retrieve"
)

// Sanitizer validates raw queries before any downstream processing.
type Sanitizer interface {
	Sanitize(raw string) domain.Verdict
}

// Retriever selects relevant chunks for a sanitized query.
type Retriever interface {
	Retrieve(query string, chunks []domain.Chunk) retrieve.Result
}

// Completer issues one chat-completion request and returns the extracted
// answer text.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Cache stores finished answers keyed by the sanitized query. Lookups that
// miss or fail return ok=false; Put is best-effort.
type Cache interface {
	Get(ctx context.Context, query string) (domain.Answer, bool)
	Put(ctx context.Context, query string, ans domain.Answer)
}

// CorpusReader is the read-only corpus view the service needs: the chunk
// set for retrieval and section accessors for degraded answers.
type CorpusReader interface {
	Chunks() []domain.Chunk
	IsEmpty() bool
	SectionNames() []string
	EntryCount(name string) int
	FirstEntry(name string) (*domain.Entry, bool)
}
