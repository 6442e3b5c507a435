package health

import "context"

// CachePinger checks answer-cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// CorpusChecker reports whether the CV corpus loaded any content.
type CorpusChecker interface {
	IsEmpty() bool
}
