package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_ValidFiles(t *testing.T) {
	dir := t.TempDir()
	profilePath := writeFile(t, dir, "profile.json",
		`{"education": [{"degree": "Psy.D.", "institution": "ISU"}]}`)
	narrativePath := writeFile(t, dir, "narrative.json",
		`[{"id": "a", "title": "Essay", "content": "One paragraph."}]`)

	c := Load(profilePath, narrativePath, zap.NewNop())
	if c.IsEmpty() {
		t.Fatal("expected non-empty corpus")
	}
	if len(c.Chunks()) != 2 {
		t.Errorf("expected 2 chunks, got %d", len(c.Chunks()))
	}
	if c.EntryCount("education") != 1 {
		t.Errorf("EntryCount(education) = %d, want 1", c.EntryCount("education"))
	}
}

func TestLoad_MissingFilesDegradeToEmpty(t *testing.T) {
	dir := t.TempDir()
	c := Load(filepath.Join(dir, "nope.json"), filepath.Join(dir, "also-nope.json"), zap.NewNop())
	if !c.IsEmpty() {
		t.Error("expected empty corpus for missing files")
	}
}

func TestLoad_MalformedProfileDegrades(t *testing.T) {
	dir := t.TempDir()
	profilePath := writeFile(t, dir, "profile.json", `{"education": [`)
	narrativePath := writeFile(t, dir, "narrative.json",
		`[{"id": "a", "title": "Essay", "content": "Still loads."}]`)

	c := Load(profilePath, narrativePath, zap.NewNop())
	// Narrative side still contributes.
	if len(c.Chunks()) != 1 {
		t.Errorf("expected 1 chunk from narrative, got %d", len(c.Chunks()))
	}
}
