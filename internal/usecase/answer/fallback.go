package answer

import (
	"fmt"
	"strings"

	"github.com/jbritton/cvchat/internal/corpus"
)

// FallbackMessage is the fixed apology returned when the completion
// provider fails for any reason other than quota exhaustion.
const FallbackMessage = "The assistant is temporarily unavailable. Please try again later."

// degradedPrefix marks corpus-synthesized answers so quota-mode replies
// stay distinguishable from genuine model answers.
const degradedPrefix = "I understand you asked: "

// degradedAnswer builds a best-effort reply directly from the corpus when
// the completion quota is exhausted: entry counts and headline facts for
// the topic the question seems to be about.
func degradedAnswer(question string, c CorpusReader) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%q.", degradedPrefix, question)

	if c == nil || c.IsEmpty() {
		b.WriteString(" The assistant is running without its usual sources right now, so only a limited reply is available.")
		return b.String()
	}

	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "education") || strings.Contains(q, "degree"):
		fmt.Fprintf(&b, " John has %d degrees", c.EntryCount("education"))
		if entry, ok := c.FirstEntry("education"); ok {
			degree, _ := entry.Lookup("degree")
			institution, _ := entry.Lookup("institution")
			date, _ := entry.Lookup("date")
			fmt.Fprintf(&b, " including a %s from %s (expected %s)", degree.Str, institution.Str, date.Str)
		}
		b.WriteString(".")
	case strings.Contains(q, "teach"):
		fmt.Fprintf(&b, " John has held %d teaching positions at Indiana State University.",
			c.EntryCount("teachingExperience"))
	case strings.Contains(q, "research") || strings.Contains(q, "dissertation"):
		fmt.Fprintf(&b, " John has %d research experiences, including his dissertation on music performance anxiety.",
			c.EntryCount("researchExperience"))
	case strings.Contains(q, "award") || strings.Contains(q, "honor"):
		fmt.Fprintf(&b, " John has received %d honors and awards.", c.EntryCount("honorsAndAwards"))
	case strings.Contains(q, "presentation"):
		fmt.Fprintf(&b, " John has %d professional presentations.", c.EntryCount("presentations"))
	case strings.Contains(q, "clinical") || strings.Contains(q, "experience"):
		fmt.Fprintf(&b, " John has held %d supervised clinical positions across multiple settings.",
			c.EntryCount("supervisedClinicalExperience"))
	case strings.Contains(q, "john") || strings.Contains(q, "who"):
		fmt.Fprintf(&b, " John Britton is a doctoral psychology student with documented experience across %d professional areas including clinical work, research, and teaching.",
			len(c.SectionNames()))
	default:
		total := 0
		names := c.SectionNames()
		for _, name := range names {
			total += c.EntryCount(name)
		}
		fmt.Fprintf(&b, " John's professional profile includes %d documented experiences across %d categories such as %s.",
			total, len(names), firstSectionTitles(names, 3))
	}

	return b.String()
}

func firstSectionTitles(names []string, n int) string {
	if len(names) < n {
		n = len(names)
	}
	titles := make([]string, n)
	for i := 0; i < n; i++ {
		titles[i] = corpus.SectionTitle(names[i])
	}
	return strings.Join(titles, ", ")
}

// compile-time check so the concrete corpus keeps satisfying the reader.
var _ CorpusReader = (*corpus.Corpus)(nil)
