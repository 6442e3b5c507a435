package domain

import "errors"

var (
	// ErrCompletionProvider signals a completion API failure (network,
	// non-2xx, malformed response). Mapped to the fixed apology message
	// at the answer boundary.
	ErrCompletionProvider = errors.New("completion provider error")
	// ErrCompletionQuota signals an exhausted completion quota or rate
	// limit. Triggers the corpus-derived degraded answer.
	ErrCompletionQuota = errors.New("completion quota exceeded")
	// ErrEmptyCompletion signals a response with no extractable text.
	ErrEmptyCompletion = errors.New("empty completion response")
)
