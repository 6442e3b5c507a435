// Package sanitize enforces input-safety policy on raw user queries before
// they reach retrieval or the completion gateway.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jbritton/cvchat/internal/domain"
)

// Policy selects how strictly queries are gated.
type Policy string

const (
	// PolicyForbiddenOnly rejects only dangerous/sensitive topics and
	// allows everything else.
	PolicyForbiddenOnly Policy = "forbidden-only"
	// PolicyTopicGated additionally requires the query to match the
	// subject allow-list or a conversational-greeting pattern.
	PolicyTopicGated Policy = "topic-gated"
)

// DefaultMaxQueryLen caps query length. Longer queries are truncated with
// an advisory warning, not rejected.
const DefaultMaxQueryLen = 500

// User-facing verdict messages.
const (
	EmptyQueryWarning = "Please provide a valid question about John's background and experience."
	RefusalMessage    = "I'm sorry, I can't discuss that topic. Please ask about John's professional background, education, or experience."
	TruncatedWarning  = "Query is quite long and has been shortened for processing."
	OffTopicWarning   = "I can only answer questions about John's professional background, education, clinical experience, research, and qualifications. Please ask about his CV, training, or clinical work."
)

// forbiddenPatterns cover crisis/self-harm, violence, and financial topics.
// Any hit yields a fixed refusal with no downstream processing. Go's RE2
// engine guarantees linear-time matching, so adversarial input cannot
// trigger backtracking blowups.
var forbiddenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)suicide|self[- ]?harm|kill myself|hurt myself|ending my life|overdose|cutting|risk of harm|homicide|violence|abuse|assault|danger to self|danger to others|crisis|emergency|911|hotline`),
	regexp.MustCompile(`(?i)money|payment|cost|fee|price|insurance|billing|financial|charge|salary|wage|income|reimbursement|claim`),
}

// acceptableTopics is the topic-gated allow-list: professional subjects a
// CV question can plausibly be about.
var acceptableTopics = regexp.MustCompile(`(?i)` + strings.Join([]string{
	`john\s+britton`, `education`, `degree`, `psycholog`, `psych`, `clinical`,
	`therapy`, `music.therapy`, `research`, `experience`, `training`,
	`internship`, `appic`, `supervis`, `assessment`, `evaluation`, `treatment`,
	`evidence.based`, `cv`, `resume`, `background`, `qualifications`, `skills`,
	`competenc`, `strength`, `weakness`, `challenge`, `growth`, `development`,
	`professional`, `career`, `goals`, `interests`, `approach`, `philosophy`,
	`values`, `dissertation`, `thesis`, `publication`, `presentation`,
	`conference`, `client`, `patient`, `population`, `intervention`,
	`cognitive`, `behavioral`, `trauma`, `anxiety`, `depression`,
	`psychotherapy`, `site`, `program`, `mentor`, `placement`, `rotation`,
	`practicum`, `hours`, `licensing`, `certification`, `hospital`,
	`medical.center`, `healthcare`, `outpatient`, `inpatient`, `setting`,
	`clinic`, `practice`, `fit`, `contact`, `phone`, `email`, `address`,
	`reference`, `recommendation`,
}, "|"))

// conversationalStarters allow greetings and polite openers through the
// topic gate.
var conversationalStarters = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(hi|hello|hey|good morning|good afternoon|good evening)`),
	regexp.MustCompile(`(?i)^(can you|could you|would you|will you)`),
	regexp.MustCompile(`(?i)^(i would like|i want to|i need to)`),
	regexp.MustCompile(`(?i)^(please|thank you|thanks)`),
}

// unrelatedTopic rejects a clearly off-topic subject unless the exception
// pattern also matches. RE2 has no negative lookahead, so exceptions like
// "music therapy is fine, general music is not" are expressed explicitly.
type unrelatedTopic struct {
	pattern   *regexp.Regexp
	exception *regexp.Regexp
}

var unrelatedTopics = []unrelatedTopic{
	{pattern: regexp.MustCompile(`(?i)weather`)},
	{pattern: regexp.MustCompile(`(?i)sports`)},
	{pattern: regexp.MustCompile(`(?i)politics`)},
	{pattern: regexp.MustCompile(`(?i)cooking`)},
	{pattern: regexp.MustCompile(`(?i)travel`)},
	{pattern: regexp.MustCompile(`(?i)movies`)},
	{pattern: regexp.MustCompile(`(?i)music`), exception: regexp.MustCompile(`(?i)music.therapy|therapy|performance`)},
	{pattern: regexp.MustCompile(`(?i)technology`), exception: regexp.MustCompile(`(?i)clinical`)},
	{pattern: regexp.MustCompile(`(?i)shopping`)},
	{pattern: regexp.MustCompile(`(?i)fashion`)},
	{pattern: regexp.MustCompile(`(?i)celebrity`)},
	{pattern: regexp.MustCompile(`(?i)gossip`)},
	{pattern: regexp.MustCompile(`(?i)news`), exception: regexp.MustCompile(`(?i)psycholog`)},
}

// Service validates and trims raw queries. It never errors: every input,
// including empty, non-ASCII, or adversarial strings, yields a verdict.
type Service struct {
	policy Policy
	maxLen int
}

// New creates a sanitizer. An unknown policy falls back to forbidden-only;
// maxLen <= 0 falls back to DefaultMaxQueryLen.
func New(policy Policy, maxLen int) *Service {
	if policy != PolicyTopicGated {
		policy = PolicyForbiddenOnly
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxQueryLen
	}
	return &Service{policy: policy, maxLen: maxLen}
}

// Sanitize produces the safety verdict for one raw query.
func (s *Service) Sanitize(raw string) domain.Verdict {
	query := strings.TrimSpace(raw)

	if query == "" {
		return domain.Verdict{Safe: false, Sanitized: "", Warnings: []string{EmptyQueryWarning}}
	}

	for _, p := range forbiddenPatterns {
		if p.MatchString(query) {
			// The query passes through unmodified; callers must not
			// process it further.
			return domain.Verdict{Safe: false, Sanitized: query, Warnings: []string{RefusalMessage}}
		}
	}

	var warnings []string
	if len(query) > s.maxLen {
		// Back off to a rune boundary so non-ASCII input is not split
		// mid-character.
		cut := s.maxLen
		for cut > 0 && !utf8.RuneStart(query[cut]) {
			cut--
		}
		query = query[:cut]
		warnings = append(warnings, TruncatedWarning)
	}

	if s.policy == PolicyTopicGated && !s.isRelevant(query) {
		return domain.Verdict{Safe: false, Sanitized: query, Warnings: []string{OffTopicWarning}}
	}

	return domain.Verdict{Safe: true, Sanitized: query, Warnings: warnings}
}

// isRelevant implements the topic gate: the query must match the subject
// allow-list or a conversational starter, and must not hit an unrelated
// topic without its exception.
func (s *Service) isRelevant(query string) bool {
	onTopic := acceptableTopics.MatchString(query)

	if !onTopic {
		for _, p := range conversationalStarters {
			if p.MatchString(query) {
				onTopic = true
				break
			}
		}
	}
	if !onTopic {
		return false
	}

	for _, u := range unrelatedTopics {
		if u.pattern.MatchString(query) {
			if u.exception == nil || !u.exception.MatchString(query) {
				return false
			}
		}
	}
	return true
}
