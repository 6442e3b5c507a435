// Package answer orchestrates the chat pipeline: sanitize the query,
// retrieve relevant corpus chunks, compose the prompt, call the completion
// provider, and shape the reply. Provider failures never surface as HTTP
// errors; the service degrades to corpus-derived or fixed fallback text.
package answer

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/jbritton/cvchat/internal/domain"
	"github.com/jbritton/cvchat/internal/metrics"
)

// Service answers chat queries end to end.
type Service struct {
	sanitizer Sanitizer
	retriever Retriever
	corpus    CorpusReader
	completer Completer
	cache     Cache
	log       *zap.Logger
}

// New creates the answering service. cache may be nil to disable answer
// caching.
func New(sanitizer Sanitizer, retriever Retriever, corpus CorpusReader, completer Completer, cache Cache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		sanitizer: sanitizer,
		retriever: retriever,
		corpus:    corpus,
		completer: completer,
		cache:     cache,
		log:       log,
	}
}

// Answer runs the full pipeline for one raw query. It always returns a
// usable Answer; upstream failures are absorbed into degraded or fallback
// text.
func (s *Service) Answer(ctx context.Context, rawQuery string) domain.Answer {
	verdict := s.sanitizer.Sanitize(rawQuery)
	if !verdict.Safe {
		s.log.Info("query blocked by safety policy", zap.Strings("warnings", verdict.Warnings))
		metrics.ChatAnswersTotal.WithLabelValues("policy_blocked").Inc()
		return domain.Answer{Text: verdict.Warning("I can't help with that request.")}
	}
	query := verdict.Sanitized

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, query); ok {
			metrics.ChatAnswersTotal.WithLabelValues("cache_hit").Inc()
			return cached
		}
	}

	res := s.retriever.Retrieve(query, s.corpus.Chunks())
	metrics.RetrievalChunks.Observe(float64(len(res.Chunks)))
	s.log.Debug("retrieval finished",
		zap.Int("chunks", len(res.Chunks)),
		zap.String("context", res.Context),
		zap.Float64("confidence", res.Confidence))

	prompt := composePrompt(res.ContextText(), query)
	text, err := s.completer.Complete(ctx, SystemPrompt, prompt)
	if err != nil {
		return s.degrade(query, err)
	}

	ans := domain.Answer{
		Text:    FormatResponse(text),
		Sources: res.Sources(),
	}
	metrics.ChatAnswersTotal.WithLabelValues("ok").Inc()

	if s.cache != nil {
		s.cache.Put(ctx, query, ans)
	}
	return ans
}

// degrade maps completion failures to reply text. Quota exhaustion gets a
// corpus-synthesized answer; everything else gets the fixed fallback.
func (s *Service) degrade(query string, err error) domain.Answer {
	if errors.Is(err, domain.ErrCompletionQuota) {
		s.log.Warn("completion quota exhausted, serving degraded answer", zap.Error(err))
		metrics.ChatAnswersTotal.WithLabelValues("degraded").Inc()
		return domain.Answer{Text: degradedAnswer(query, s.corpus)}
	}
	s.log.Error("completion failed", zap.Error(err))
	metrics.ChatAnswersTotal.WithLabelValues("fallback").Inc()
	return domain.Answer{Text: FallbackMessage}
}
