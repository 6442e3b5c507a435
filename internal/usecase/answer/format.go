package answer

import "strings"

// FormatResponse regroups model output into short paragraphs: the text is
// split at sentence boundaries (., !, or ? followed by whitespace) and
// every two consecutive sentences form one paragraph, joined by blank
// lines. A trailing odd sentence forms its own paragraph.
func FormatResponse(text string) string {
	sentences := splitSentences(strings.TrimSpace(text))

	var paragraphs []string
	var current []string
	for _, sentence := range sentences {
		current = append(current, sentence)
		if len(current) >= 2 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}

	return strings.Join(paragraphs, "\n\n")
}

// splitSentences cuts text after ./!/? when followed by whitespace. The
// terminator stays with its sentence; the separating whitespace is dropped.
func splitSentences(text string) []string {
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		if !isTerminator(text[i]) || !isSpace(text[i+1]) {
			continue
		}
		sentences = append(sentences, text[start:i+1])
		// Skip the whitespace run.
		j := i + 1
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

func isTerminator(b byte) bool { return b == '.' || b == '!' || b == '?' }

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
