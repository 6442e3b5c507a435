package answer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/jbritton/cvchat/internal/domain"
)

func TestCircuitCompleterPassesThrough(t *testing.T) {
	inner := &stubCompleter{text: "ok"}
	c := NewCircuitCompleter(inner, zap.NewNop())

	text, err := c.Complete(context.Background(), "sys", "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "ok" {
		t.Errorf("text = %q", text)
	}
	if inner.lastSystem != "sys" || inner.lastPrompt != "prompt" {
		t.Errorf("arguments not forwarded: %q %q", inner.lastSystem, inner.lastPrompt)
	}
}

func TestCircuitCompleterOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &stubCompleter{err: errors.New("connection refused")}
	c := NewCircuitCompleter(inner, zap.NewNop())

	for i := 0; i < 3; i++ {
		if _, err := c.Complete(context.Background(), "sys", "prompt"); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	callsBefore := inner.calls

	// Circuit is open: the inner completer must not be reached, and the
	// error must classify as a provider failure for the fallback path.
	_, err := c.Complete(context.Background(), "sys", "prompt")
	if !errors.Is(err, domain.ErrCompletionProvider) {
		t.Fatalf("expected ErrCompletionProvider from open circuit, got %v", err)
	}
	if inner.calls != callsBefore {
		t.Errorf("open circuit still reached the provider (%d calls)", inner.calls-callsBefore)
	}
}

func TestCircuitCompleterQuotaDoesNotTrip(t *testing.T) {
	inner := &stubCompleter{err: fmt.Errorf("%w: insufficient_quota", domain.ErrCompletionQuota)}
	c := NewCircuitCompleter(inner, zap.NewNop())

	// Many quota errors in a row must keep the circuit closed: the quota
	// path has its own degraded answer.
	for i := 0; i < 10; i++ {
		_, err := c.Complete(context.Background(), "sys", "prompt")
		if !errors.Is(err, domain.ErrCompletionQuota) {
			t.Fatalf("call %d: expected quota error, got %v", i, err)
		}
	}
	if inner.calls != 10 {
		t.Errorf("expected all calls to reach the provider, got %d", inner.calls)
	}
}
