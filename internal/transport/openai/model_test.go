package openai

import "testing"

func lookupFrom(env map[string]string) func(string) string {
	return func(name string) string { return env[name] }
}

func TestResolveModel_Default(t *testing.T) {
	d := ResolveModel(lookupFrom(nil))

	if d.Model != DefaultModel {
		t.Errorf("model = %q, want %q", d.Model, DefaultModel)
	}
	if d.EnforcedDefault {
		t.Error("no candidate means the default is not enforced, just used")
	}
	if d.RawCandidate != "" {
		t.Errorf("RawCandidate = %q, want empty", d.RawCandidate)
	}
	if len(d.Candidates) != 3 {
		t.Errorf("expected 3 candidate records, got %d", len(d.Candidates))
	}
}

func TestResolveModel_AllowedCandidate(t *testing.T) {
	d := ResolveModel(lookupFrom(map[string]string{
		"OPENAI_MODEL": "gpt-4o-mini-2024-07-18",
	}))

	if d.Model != "gpt-4o-mini-2024-07-18" {
		t.Errorf("model = %q", d.Model)
	}
	if d.EnforcedDefault {
		t.Error("allowed candidate must not enforce the default")
	}
	if d.CandidateSource != "OPENAI_MODEL" {
		t.Errorf("CandidateSource = %q", d.CandidateSource)
	}
}

func TestResolveModel_Precedence(t *testing.T) {
	d := ResolveModel(lookupFrom(map[string]string{
		"CVCHAT_OPENAI_MODEL":    "gpt-4o-mini",
		"OPENAI_RESPONSES_MODEL": "gpt-4o-mini-other",
		"OPENAI_MODEL":           "gpt-4o-mini-third",
	}))

	if d.CandidateSource != "CVCHAT_OPENAI_MODEL" {
		t.Errorf("CandidateSource = %q", d.CandidateSource)
	}
	if d.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", d.Model)
	}
}

func TestResolveModel_DisallowedEnforcesDefault(t *testing.T) {
	d := ResolveModel(lookupFrom(map[string]string{
		"CVCHAT_OPENAI_MODEL": "gpt-4.1",
	}))

	if d.Model != DefaultModel {
		t.Errorf("model = %q, want enforced default", d.Model)
	}
	if !d.EnforcedDefault {
		t.Error("disallowed candidate must enforce the default")
	}
	if d.RawCandidate != "gpt-4.1" {
		t.Errorf("RawCandidate = %q", d.RawCandidate)
	}
}

func TestResolveModel_DisallowedFirstDoesNotFallThrough(t *testing.T) {
	// The first set variable is the candidate even when disallowed; later
	// variables do not get a second chance.
	d := ResolveModel(lookupFrom(map[string]string{
		"CVCHAT_OPENAI_MODEL": "o3",
		"OPENAI_MODEL":        "gpt-4o-mini",
	}))

	if d.Model != DefaultModel {
		t.Errorf("model = %q, want enforced default", d.Model)
	}
	if d.CandidateSource != "CVCHAT_OPENAI_MODEL" {
		t.Errorf("CandidateSource = %q", d.CandidateSource)
	}
}

func TestResolveModel_WhitespaceTrimmed(t *testing.T) {
	d := ResolveModel(lookupFrom(map[string]string{
		"OPENAI_MODEL": "  gpt-4o-mini  ",
	}))

	if d.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", d.Model)
	}
}
