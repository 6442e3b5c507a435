package openai

import "strings"

// DefaultModel is the model used when no environment candidate survives the
// allow-list.
const DefaultModel = "gpt-4o-mini"

// modelEnvVars are the environment candidates in precedence order.
var modelEnvVars = []string{
	"CVCHAT_OPENAI_MODEL",
	"OPENAI_RESPONSES_MODEL",
	"OPENAI_MODEL",
}

// allowedModelPrefixes lists the model families the service is tuned and
// budgeted for. A candidate outside the list is ignored, not an error.
var allowedModelPrefixes = []string{
	"gpt-4o-mini",
}

// Diagnostics describes how the active model was chosen, for the model
// inspection endpoint.
type Diagnostics struct {
	Model           string          `json:"model"`
	EnforcedDefault bool            `json:"enforcedDefault"`
	RawCandidate    string          `json:"rawCandidate,omitempty"`
	CandidateSource string          `json:"candidateSource,omitempty"`
	Candidates      []CandidateInfo `json:"candidates"`
}

// CandidateInfo is the per-variable resolution record.
type CandidateInfo struct {
	Source  string `json:"source"`
	Value   string `json:"value,omitempty"`
	Allowed bool   `json:"allowed"`
}

// ResolveModel picks the completion model from the environment. lookup is
// os.Getenv in production; injected for tests. The first set variable is
// the candidate; if it fails the prefix allow-list the default is enforced
// and the diagnostics record why.
func ResolveModel(lookup func(string) string) Diagnostics {
	d := Diagnostics{Model: DefaultModel}

	for _, name := range modelEnvVars {
		value := strings.TrimSpace(lookup(name))
		info := CandidateInfo{Source: name, Value: value}
		if value != "" {
			info.Allowed = modelAllowed(value)
		}
		d.Candidates = append(d.Candidates, info)

		if value == "" || d.RawCandidate != "" {
			continue
		}
		d.RawCandidate = value
		d.CandidateSource = name
		if info.Allowed {
			d.Model = value
		} else {
			d.EnforcedDefault = true
		}
	}

	return d
}

func modelAllowed(model string) bool {
	for _, prefix := range allowedModelPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
