package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ValueKind discriminates the field shapes a profile entry can carry.
type ValueKind int

const (
	// ValueString is a plain string field.
	ValueString ValueKind = iota
	// ValueList is a list of strings.
	ValueList
	// ValueObject is a nested entry.
	ValueObject
)

// Value is a tagged union over the loosely typed field values of a profile
// entry: a string, a list of strings, or a nested object. No reflection is
// involved; the chunker flattens generically over the three kinds.
type Value struct {
	Kind ValueKind
	Str  string
	List []string
	Obj  *Entry
}

// StringValue wraps a plain string.
func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }

// ListValue wraps a list of strings.
func ListValue(items ...string) Value { return Value{Kind: ValueList, List: items} }

// ObjectValue wraps a nested entry.
func ObjectValue(e *Entry) Value { return Value{Kind: ValueObject, Obj: e} }

// Field is a single named value within an entry. Field order follows the
// source document.
type Field struct {
	Name  string
	Value Value
}

// Entry is an ordered set of fields with no fixed schema.
type Entry struct {
	Fields []Field
}

// Lookup returns the value of the named field, if present.
func (e *Entry) Lookup(name string) (Value, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Section is a named top-level profile section: either an ordered sequence
// of entries, or a single object of fields. Exactly one of Entries/Object
// is set.
type Section struct {
	Name    string
	Entries []Entry
	Object  *Entry
}

// IsObject reports whether the section holds a single nested object.
func (s Section) IsObject() bool { return s.Object != nil }

// Profile is the structured CV record: top-level sections in document order.
// Loaded once at startup and immutable afterwards.
type Profile struct {
	Sections []Section
}

// Section returns the named section, if present.
func (p *Profile) Section(name string) (Section, bool) {
	for _, s := range p.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// UnmarshalJSON decodes a profile from a JSON object while preserving key
// order. encoding/json map decoding would randomize section and field order
// and break chunk-output determinism, so this walks the token stream.
func (p *Profile) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("profile: %w", err)
	}

	p.Sections = nil
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		section, ok, err := parseSection(dec, name)
		if err != nil {
			return fmt.Errorf("profile section %q: %w", name, err)
		}
		if ok {
			p.Sections = append(p.Sections, section)
		}
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	return nil
}

// parseSection reads one top-level section value. Null and unrepresentable
// values are skipped (ok=false) rather than failing the whole profile.
func parseSection(dec *json.Decoder, name string) (Section, bool, error) {
	tok, err := dec.Token()
	if err != nil {
		return Section{}, false, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			entries, err := parseEntryList(dec)
			if err != nil {
				return Section{}, false, err
			}
			return Section{Name: name, Entries: entries}, true, nil
		case '{':
			entry, err := parseEntryBody(dec)
			if err != nil {
				return Section{}, false, err
			}
			return Section{Name: name, Object: entry}, true, nil
		}
		return Section{}, false, fmt.Errorf("unexpected delimiter %v", t)
	case nil:
		return Section{}, false, nil
	default:
		// Scalar top-level value: represent as a one-field object section.
		entry := &Entry{Fields: []Field{{Name: name, Value: StringValue(scalarToString(tok))}}}
		return Section{Name: name, Object: entry}, true, nil
	}
}

// parseEntryList reads the elements of a section array. Non-object elements
// are skipped; the original data only carries objects at this level.
func parseEntryList(dec *json.Decoder) ([]Entry, error) {
	var entries []Entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == '{' {
			entry, err := parseEntryBody(dec)
			if err != nil {
				return nil, err
			}
			entries = append(entries, *entry)
			continue
		}
		if d, ok := tok.(json.Delim); ok && d == '[' {
			if err := skipArray(dec); err != nil {
				return nil, err
			}
		}
	}
	if _, err := dec.Token(); err != nil { // closing ]
		return nil, err
	}
	return entries, nil
}

// parseEntryBody reads entry fields after the opening brace was consumed.
func parseEntryBody(dec *json.Decoder) (*Entry, error) {
	entry := &Entry{}
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		val, ok, err := parseValue(dec)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		if ok {
			entry.Fields = append(entry.Fields, Field{Name: name, Value: val})
		}
	}
	if _, err := dec.Token(); err != nil { // closing }
		return nil, err
	}
	return entry, nil
}

// parseValue reads one field value into the tagged union. Null fields are
// dropped (ok=false). Scalars inside lists are coerced to strings; objects
// inside lists are flattened to "k: v" strings so no data is lost silently.
func parseValue(dec *json.Decoder) (Value, bool, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, false, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			var items []string
			for dec.More() {
				inner, ok, err := parseValue(dec)
				if err != nil {
					return Value{}, false, err
				}
				if !ok {
					continue
				}
				items = append(items, valueToString(inner))
			}
			if _, err := dec.Token(); err != nil { // closing ]
				return Value{}, false, err
			}
			return Value{Kind: ValueList, List: items}, true, nil
		case '{':
			entry, err := parseEntryBody(dec)
			if err != nil {
				return Value{}, false, err
			}
			return ObjectValue(entry), true, nil
		}
		return Value{}, false, fmt.Errorf("unexpected delimiter %v", t)
	case nil:
		return Value{}, false, nil
	default:
		return StringValue(scalarToString(t)), true, nil
	}
}

// valueToString renders any union value as a single string, used when a
// composite value appears inside a list.
func valueToString(v Value) string {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueList:
		return strings.Join(v.List, ", ")
	case ValueObject:
		pairs := make([]string, 0, len(v.Obj.Fields))
		for _, f := range v.Obj.Fields {
			pairs = append(pairs, f.Name+": "+valueToString(f.Value))
		}
		return strings.Join(pairs, ", ")
	}
	return ""
}

func scalarToString(tok json.Token) string {
	switch v := tok.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	}
	return fmt.Sprintf("%v", tok)
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func skipArray(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '[', '{':
				depth++
			case ']', '}':
				depth--
			}
		}
	}
	return nil
}
