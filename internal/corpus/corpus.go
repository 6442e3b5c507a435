// Package corpus loads the static profile and narrative data and derives
// the immutable chunk set the retriever searches over.
package corpus

import "github.com/jbritton/cvchat/internal/domain"

// Corpus owns the profile record, narrative passages, and the chunk set
// derived from them. It is built once at startup and read-only afterwards,
// so it is safe to share across concurrent requests without locking.
type Corpus struct {
	profile  domain.Profile
	passages []domain.Passage
	chunks   []domain.Chunk
}

// New derives a corpus from an already-loaded profile and passages.
func New(profile domain.Profile, passages []domain.Passage) *Corpus {
	return &Corpus{
		profile:  profile,
		passages: passages,
		chunks:   BuildChunks(profile, passages),
	}
}

// Empty creates a corpus with no content. Retrieval over it yields nothing;
// every query gets a no-context or fallback answer.
func Empty() *Corpus {
	return &Corpus{}
}

// Chunks returns the full chunk set. Callers must treat it as read-only;
// per-query scores live on fresh ScoredChunk copies.
func (c *Corpus) Chunks() []domain.Chunk { return c.chunks }

// IsEmpty reports whether the corpus has no chunks.
func (c *Corpus) IsEmpty() bool { return len(c.chunks) == 0 }

// SectionNames returns the profile's top-level section names in document
// order.
func (c *Corpus) SectionNames() []string {
	names := make([]string, 0, len(c.profile.Sections))
	for _, s := range c.profile.Sections {
		names = append(names, s.Name)
	}
	return names
}

// EntryCount returns the number of entries in the named section (1 for an
// object section, 0 when absent).
func (c *Corpus) EntryCount(name string) int {
	s, ok := c.profile.Section(name)
	if !ok {
		return 0
	}
	if s.IsObject() {
		return 1
	}
	return len(s.Entries)
}

// FirstEntry returns the first entry of the named section, if any.
func (c *Corpus) FirstEntry(name string) (*domain.Entry, bool) {
	s, ok := c.profile.Section(name)
	if !ok {
		return nil, false
	}
	if s.IsObject() {
		return s.Object, true
	}
	if len(s.Entries) == 0 {
		return nil, false
	}
	return &s.Entries[0], true
}
