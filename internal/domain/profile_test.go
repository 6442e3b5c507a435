package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

const sampleProfile = `{
	"personalInfo": {"name": "John Britton", "email": "jb@example.edu"},
	"education": [
		{"degree": "Psy.D.", "institution": "Indiana State University", "date": "May 2027"},
		{"degree": "M.S. in Psychology", "institution": "Indiana State University", "date": "May 2024"}
	],
	"honorsAndAwards": [
		{"title": "X Award", "year": "2020"}
	],
	"emptySection": null
}`

func TestProfile_PreservesSectionOrder(t *testing.T) {
	var p Profile
	if err := json.Unmarshal([]byte(sampleProfile), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := make([]string, len(p.Sections))
	for i, s := range p.Sections {
		got[i] = s.Name
	}
	want := []string{"personalInfo", "education", "honorsAndAwards"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("section order = %v, want %v", got, want)
	}
}

func TestProfile_ObjectAndListSections(t *testing.T) {
	var p Profile
	if err := json.Unmarshal([]byte(sampleProfile), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	personal, ok := p.Section("personalInfo")
	if !ok || !personal.IsObject() {
		t.Fatalf("expected personalInfo to be an object section")
	}
	if name, ok := personal.Object.Lookup("name"); !ok || name.Str != "John Britton" {
		t.Errorf("personalInfo.name = %+v, ok=%v", name, ok)
	}

	edu, ok := p.Section("education")
	if !ok || edu.IsObject() {
		t.Fatalf("expected education to be a list section")
	}
	if len(edu.Entries) != 2 {
		t.Fatalf("expected 2 education entries, got %d", len(edu.Entries))
	}
	if got := edu.Entries[0].Fields[0].Name; got != "degree" {
		t.Errorf("first education field = %q, want degree", got)
	}
}

func TestProfile_SkipsNullSections(t *testing.T) {
	var p Profile
	if err := json.Unmarshal([]byte(sampleProfile), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := p.Section("emptySection"); ok {
		t.Error("null section should be skipped")
	}
}

func TestProfile_CoercesScalarsAndNestedValues(t *testing.T) {
	raw := `{
		"misc": [
			{"year": 2020, "active": true, "tags": ["a", "b"], "extra": {"inner": "v"}}
		]
	}`
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	entry := p.Sections[0].Entries[0]
	if v, _ := entry.Lookup("year"); v.Str != "2020" {
		t.Errorf("year = %q, want 2020", v.Str)
	}
	if v, _ := entry.Lookup("active"); v.Str != "true" {
		t.Errorf("active = %q, want true", v.Str)
	}
	if v, _ := entry.Lookup("tags"); v.Kind != ValueList || len(v.List) != 2 {
		t.Errorf("tags = %+v, want 2-item list", v)
	}
	v, _ := entry.Lookup("extra")
	if v.Kind != ValueObject {
		t.Fatalf("extra kind = %v, want object", v.Kind)
	}
	if inner, ok := v.Obj.Lookup("inner"); !ok || inner.Str != "v" {
		t.Errorf("extra.inner = %+v, ok=%v", inner, ok)
	}
}

func TestProfile_Deterministic(t *testing.T) {
	var a, b Profile
	if err := json.Unmarshal([]byte(sampleProfile), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := json.Unmarshal([]byte(sampleProfile), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("repeated decodes of the same document differ")
	}
}
