package corpus

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jbritton/cvchat/internal/domain"
)

// Load reads the profile and narrative files and builds the corpus. Missing
// or malformed files are logged and degrade to the empty collection for
// that source; the process never fails to start on corpus errors.
func Load(profilePath, narrativePath string, logger *zap.Logger) *Corpus {
	var profile domain.Profile
	if data, err := os.ReadFile(filepath.Clean(profilePath)); err != nil {
		logger.Warn("Profile data unavailable, serving without CV context",
			zap.String("path", profilePath), zap.Error(err))
	} else if err := json.Unmarshal(data, &profile); err != nil {
		logger.Warn("Profile data malformed, serving without CV context",
			zap.String("path", profilePath), zap.Error(err))
		profile = domain.Profile{}
	}

	var passages []domain.Passage
	if data, err := os.ReadFile(filepath.Clean(narrativePath)); err != nil {
		logger.Warn("Narrative data unavailable",
			zap.String("path", narrativePath), zap.Error(err))
	} else if err := json.Unmarshal(data, &passages); err != nil {
		logger.Warn("Narrative data malformed",
			zap.String("path", narrativePath), zap.Error(err))
		passages = nil
	}

	c := New(profile, passages)
	logger.Info("Corpus loaded",
		zap.Int("sections", len(profile.Sections)),
		zap.Int("passages", len(passages)),
		zap.Int("chunks", len(c.chunks)),
	)
	return c
}
