package domain

// Verdict is the sanitizer's decision for one raw query. It is produced per
// request, consumed immediately, and never persisted.
type Verdict struct {
	Safe      bool
	Sanitized string
	Warnings  []string
}

// Warning returns the first warning, or fallback when there is none.
func (v Verdict) Warning(fallback string) string {
	if len(v.Warnings) > 0 {
		return v.Warnings[0]
	}
	return fallback
}

// Answer is the final chat reply: formatted text plus the ordered,
// de-duplicated list of chunk sources it was grounded on.
type Answer struct {
	Text    string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}
