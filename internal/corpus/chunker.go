package corpus

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jbritton/cvchat/internal/domain"
)

// sourceFields are probed in order to pick a human-readable source label
// for an entry: organization-like first, then title-like, then name-like.
var sourceFields = []string{
	"organization", "institution",
	"title", "degree", "course", "position",
	"name", "award",
}

// BuildChunks flattens the profile record and narrative passages into the
// retrievable chunk set. For a fixed input the output is byte-identical
// across runs: section and field order follow the source documents and IDs
// are assigned monotonically.
func BuildChunks(profile domain.Profile, passages []domain.Passage) []domain.Chunk {
	var chunks []domain.Chunk
	nextID := 0

	add := func(content, section, source string) {
		if content == "" {
			return
		}
		chunks = append(chunks, domain.Chunk{
			ID:      nextID,
			Content: content,
			Section: section,
			Source:  source,
		})
		nextID++
	}

	for _, section := range profile.Sections {
		if section.IsObject() {
			add(flattenEntry(section.Object), section.Name, sourceLabel(section.Object, section.Name))
			continue
		}
		for i := range section.Entries {
			entry := &section.Entries[i]
			add(flattenEntry(entry), section.Name, sourceLabel(entry, section.Name))
		}
	}

	for _, passage := range passages {
		paragraphs := splitParagraphs(passage.Content)
		for i, para := range paragraphs {
			source := passage.Title
			if len(paragraphs) > 1 {
				source = fmt.Sprintf("%s (part %d)", passage.Title, i+1)
			}
			add(para, domain.NarrativeSection, source)
		}
	}

	return chunks
}

// sourceLabel picks the entry's source label: the first present of the
// organization-, title-, and name-like fields, falling back to the section
// name.
func sourceLabel(entry *domain.Entry, section string) string {
	for _, name := range sourceFields {
		if v, ok := entry.Lookup(name); ok && v.Kind == domain.ValueString && v.Str != "" {
			return v.Str
		}
	}
	return section
}

// flattenEntry joins all fields of an entry into one content string of
// "field: value" pairs. List values are comma-joined; nested objects are
// flattened with a dotted prefix. No present field is dropped.
func flattenEntry(entry *domain.Entry) string {
	pairs := flattenFields("", entry)
	return strings.Join(pairs, "; ")
}

func flattenFields(prefix string, entry *domain.Entry) []string {
	var pairs []string
	for _, f := range entry.Fields {
		name := f.Name
		if prefix != "" {
			name = prefix + "." + f.Name
		}
		switch f.Value.Kind {
		case domain.ValueString:
			if f.Value.Str != "" {
				pairs = append(pairs, name+": "+f.Value.Str)
			}
		case domain.ValueList:
			if len(f.Value.List) > 0 {
				pairs = append(pairs, name+": "+strings.Join(f.Value.List, ", "))
			}
		case domain.ValueObject:
			pairs = append(pairs, flattenFields(name, f.Value.Obj)...)
		}
	}
	return pairs
}

var blankLine = regexp.MustCompile(`\n\s*\n`)

// splitParagraphs segments a passage at blank-line boundaries, dropping
// empty paragraphs.
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range blankLine.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// SectionTitle renders a camelCase section name as a readable title,
// e.g. "supervisedClinicalExperience" -> "Supervised Clinical Experience".
func SectionTitle(name string) string {
	spaced := camelBoundary.ReplaceAllString(name, "$1 $2")
	if spaced == "" {
		return spaced
	}
	return strings.ToUpper(spaced[:1]) + spaced[1:]
}
