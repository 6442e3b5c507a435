// Package retrieve scores corpus chunks against a query by keyword overlap
// with context-, keyword-, and section-specific boosts, and returns the
// top candidates.
package retrieve

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jbritton/cvchat/internal/domain"
)

// Result is the outcome of one retrieval pass.
type Result struct {
	Chunks []domain.ScoredChunk
	// Context is the query classification that drove the boost selection,
	// exposed for diagnostics.
	Context string
	// Confidence is min(top score / 5, 1), or 0 when nothing qualified.
	// Informational only; nothing gates on it.
	Confidence float64
}

// Sources returns the de-duplicated, order-preserving source labels of the
// retrieved chunks.
func (r Result) Sources() []string {
	seen := make(map[string]struct{}, len(r.Chunks))
	var sources []string
	for _, c := range r.Chunks {
		if _, ok := seen[c.Source]; ok {
			continue
		}
		seen[c.Source] = struct{}{}
		sources = append(sources, c.Source)
	}
	return sources
}

// ContextText joins the retrieved chunk contents into the prompt context
// block.
func (r Result) ContextText() string {
	parts := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		parts[i] = c.Content
	}
	return strings.Join(parts, "\n")
}

// queryContext classifies query intent. The first matching pattern wins;
// an unmatched query is "general" with no context boost.
type queryContext struct {
	name     string
	pattern  *regexp.Regexp
	sections []string
}

// Config holds the scoring tables and limits. The thresholds and boost
// factors are tuning knobs, not algorithmic truths; defaults reproduce the
// behavior the site shipped with.
type Config struct {
	// MaxCandidates caps the scored list before the threshold filter.
	MaxCandidates int
	// TopK caps the final result.
	TopK int
	// MinScore filters candidates after boosting.
	MinScore float64
	// ContextBoost multiplies the score when a chunk matches the query's
	// context sections.
	ContextBoost float64
	// KeywordBoosts multiply the score per contained keyword; multiple
	// hits compound.
	KeywordBoosts map[string]float64
	// SectionBoosts multiply the score per originating section
	// (default 1.0 when unlisted).
	SectionBoosts map[string]float64
}

// DefaultConfig returns the shipped scoring configuration.
func DefaultConfig() Config {
	return Config{
		MaxCandidates: 8,
		TopK:          6,
		MinScore:      0.5,
		ContextBoost:  1.5,
		KeywordBoosts: map[string]float64{
			"john":        1.2,
			"britton":     1.2,
			"psychology":  1.3,
			"clinical":    1.3,
			"therapy":     1.3,
			"research":    1.2,
			"education":   1.2,
			"experience":  1.2,
			"supervision": 1.3,
			"training":    1.3,
			"internship":  1.4,
			"appic":       1.4,
		},
		SectionBoosts: map[string]float64{
			"personalInfo":                 1.1,
			"education":                    1.2,
			"supervisedClinicalExperience": 1.3,
			"evidenceBasedProtocols":       1.2,
			"supervisoryExperience":        1.1,
			"researchExperience":           1.3,
			"teachingExperience":           1.2,
			"references":                   1.1,
			domain.NarrativeSection:        1.1,
		},
	}
}

// queryContexts is the ordered classifier: first match wins.
var queryContexts = []queryContext{
	{
		name:     "strengths",
		pattern:  regexp.MustCompile(`strength|good|excel|positive|skilled|competent`),
		sections: []string{"education", "work", "skills", "achievements"},
	},
	{
		name:     "weaknesses",
		pattern:  regexp.MustCompile(`weakness|challenge|improve|develop|growth|area.*development`),
		sections: []string{"work", "education", "development"},
	},
	{
		name:     "clinical",
		pattern:  regexp.MustCompile(`clinical|therapy|treatment|patient|client`),
		sections: []string{"work", "clinical", "therapy", "treatment"},
	},
	{
		name:     "research",
		pattern:  regexp.MustCompile(`research|dissertation|study|methodology`),
		sections: []string{"work", "research", "dissertation", "publication"},
	},
	{
		name:     "academic",
		pattern:  regexp.MustCompile(`education|degree|school|university|academic`),
		sections: []string{"education", "academic", "research"},
	},
	{
		name:     "personal",
		pattern:  regexp.MustCompile(`contact|phone|email|address|personal`),
		sections: []string{"basics", "contact", "background", "personalinfo"},
	},
	{
		name:     "experience",
		pattern:  regexp.MustCompile(`experience|background|work|position`),
		sections: []string{"work", "clinical", "research", "teaching"},
	},
}

// Service scores chunks against queries. It is a pure function of
// (query, chunk set): no I/O, no hidden state, deterministic.
type Service struct {
	cfg Config
	// keywords is the boost table in sorted order. Map iteration order is
	// random and float multiplication is not associative, so a fixed
	// application order keeps scores bit-identical across runs.
	keywords []keywordBoost
}

type keywordBoost struct {
	keyword string
	factor  float64
}

// New creates a retriever with the given scoring configuration.
func New(cfg Config) *Service {
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = 8
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 6
	}
	keywords := make([]keywordBoost, 0, len(cfg.KeywordBoosts))
	for kw, factor := range cfg.KeywordBoosts {
		keywords = append(keywords, keywordBoost{keyword: kw, factor: factor})
	}
	sort.Slice(keywords, func(i, j int) bool { return keywords[i].keyword < keywords[j].keyword })
	return &Service{cfg: cfg, keywords: keywords}
}

// Retrieve scores every chunk against the query and returns the top-K above
// the minimum score, ordered by descending score with ties broken by
// original chunk order. Scores live on fresh copies; the shared chunk slice
// is never written to, so concurrent calls are safe.
func (s *Service) Retrieve(query string, chunks []domain.Chunk) Result {
	lowerQuery := strings.ToLower(query)
	tokens := queryTokens(lowerQuery)
	contextName, contextSections := classify(lowerQuery)

	scored := make([]domain.ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		score := s.score(tokens, contextSections, chunk)
		if score > 0 {
			scored = append(scored, domain.ScoredChunk{Chunk: chunk, Score: score})
		}
	}

	// Stable: equal scores keep original chunk order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > s.cfg.MaxCandidates {
		scored = scored[:s.cfg.MaxCandidates]
	}

	confidence := 0.0
	if len(scored) > 0 {
		confidence = scored[0].Score / 5
		if confidence > 1 {
			confidence = 1
		}
	}

	kept := scored[:0]
	for _, c := range scored {
		if c.Score >= s.cfg.MinScore {
			kept = append(kept, c)
		}
	}
	if len(kept) > s.cfg.TopK {
		kept = kept[:s.cfg.TopK]
	}

	return Result{Chunks: kept, Context: contextName, Confidence: confidence}
}

// score computes the boosted relevance of one chunk.
func (s *Service) score(tokens []string, contextSections []string, chunk domain.Chunk) float64 {
	content := strings.ToLower(chunk.Content)
	section := strings.ToLower(chunk.Section)

	// Base: one point per distinct query token contained in the content.
	score := 0.0
	for _, tok := range tokens {
		if strings.Contains(content, tok) {
			score++
		}
	}
	if score == 0 {
		return 0
	}

	for _, ctx := range contextSections {
		if strings.Contains(section, ctx) || strings.Contains(content, ctx) {
			score *= s.cfg.ContextBoost
			break
		}
	}

	// Keyword hits compound multiplicatively.
	for _, kb := range s.keywords {
		if strings.Contains(content, kb.keyword) {
			score *= kb.factor
		}
	}

	if boost, ok := s.cfg.SectionBoosts[chunk.Section]; ok {
		score *= boost
	}

	return score
}

// queryTokens splits the lower-cased query on whitespace, discarding tokens
// of length <= 2 and duplicates.
func queryTokens(lowerQuery string) []string {
	fields := strings.Fields(lowerQuery)
	seen := make(map[string]struct{}, len(fields))
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) <= 2 {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

// classify returns the query's context name and associated section
// keywords; unmatched queries are "general" with no boost sections.
func classify(lowerQuery string) (string, []string) {
	for _, ctx := range queryContexts {
		if ctx.pattern.MatchString(lowerQuery) {
			return ctx.name, ctx.sections
		}
	}
	return "general", nil
}
