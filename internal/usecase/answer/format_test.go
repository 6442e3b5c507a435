package answer

import (
	"strings"
	"testing"
)

func TestFormatResponsePairsSentences(t *testing.T) {
	text := "One. Two. Three. Four. Five."

	got := FormatResponse(text)
	paragraphs := strings.Split(got, "\n\n")

	if len(paragraphs) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d: %q", len(paragraphs), got)
	}
	if paragraphs[0] != "One. Two." {
		t.Errorf("paragraph 1 = %q", paragraphs[0])
	}
	if paragraphs[1] != "Three. Four." {
		t.Errorf("paragraph 2 = %q", paragraphs[1])
	}
	if paragraphs[2] != "Five." {
		t.Errorf("paragraph 3 = %q", paragraphs[2])
	}
}

func TestFormatResponseSingleSentence(t *testing.T) {
	got := FormatResponse("Just one sentence.")
	if got != "Just one sentence." {
		t.Errorf("got %q", got)
	}
}

func TestFormatResponseMixedTerminators(t *testing.T) {
	got := FormatResponse("Really? Yes! Good.")
	want := "Really? Yes!\n\nGood."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatResponseEmpty(t *testing.T) {
	if got := FormatResponse(""); got != "" {
		t.Errorf("empty input produced %q", got)
	}
	if got := FormatResponse("   \n  "); got != "" {
		t.Errorf("whitespace input produced %q", got)
	}
}

func TestFormatResponseKeepsAbbreviationFreeText(t *testing.T) {
	// Terminators not followed by whitespace do not split.
	got := FormatResponse("Version 1.5 shipped. It works.")
	if got != "Version 1.5 shipped. It works." {
		t.Errorf("got %q", got)
	}
}

func TestFormatResponseCollapsesWhitespaceRuns(t *testing.T) {
	got := FormatResponse("First.   Second.\n\nThird.")
	want := "First. Second.\n\nThird."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
