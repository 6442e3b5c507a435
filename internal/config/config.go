// Package config loads the cvchat service configuration from YAML files
// selected by the ENV variable, with ${VAR:-default} expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the cvchat API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Safety     SafetyConfig     `yaml:"safety"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Cache      CacheConfig      `yaml:"cache"`
	Auth       AuthConfig       `yaml:"auth"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CorpusConfig points at the static profile and narrative data files.
type CorpusConfig struct {
	ProfilePath   string `yaml:"profile_path"`
	NarrativePath string `yaml:"narrative_path"`
}

// OpenAIConfig holds completion provider settings. Model is an optional
// override; when empty the model is resolved from the environment (see
// transport/openai.ResolveModel).
type OpenAIConfig struct {
	APIKey          string  `yaml:"api_key"`
	BaseURL         string  `yaml:"base_url"`
	Model           string  `yaml:"model"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
	Temperature     float32 `yaml:"temperature"`
}

// SafetyConfig holds sanitizer policy settings.
// Policy is "forbidden-only" (reject only dangerous/sensitive topics) or
// "topic-gated" (additionally require an on-topic or conversational query).
type SafetyConfig struct {
	Policy      string `yaml:"policy"`
	MaxQueryLen int    `yaml:"max_query_len"`
}

// RetrievalConfig holds scoring pipeline limits.
type RetrievalConfig struct {
	MaxCandidates int     `yaml:"max_candidates"`
	TopK          int     `yaml:"top_k"`
	MinScore      float64 `yaml:"min_score"`
}

// CacheConfig holds the optional Redis answer cache settings. Empty Addrs
// disables caching entirely.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// AuthConfig holds bearer keys guarding the diagnostics endpoints.
// Empty disables authentication.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// RateLimitConfig holds per-client-IP token bucket settings. RPS <= 0
// disables rate limiting.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: by env)
}

// Load reads configuration from a YAML file by environment name (local,
// dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting
// to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// The completion call dominates request latency; leave headroom.
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Corpus.ProfilePath == "" {
		c.Corpus.ProfilePath = filepath.Join("data", "profile.json")
	}
	if c.Corpus.NarrativePath == "" {
		c.Corpus.NarrativePath = filepath.Join("data", "narrative.json")
	}
	if c.OpenAI.MaxOutputTokens <= 0 {
		c.OpenAI.MaxOutputTokens = 300
	}
	if c.OpenAI.Temperature <= 0 {
		c.OpenAI.Temperature = 0.4
	}
	if c.Safety.Policy == "" {
		c.Safety.Policy = "forbidden-only"
	}
	if c.Safety.MaxQueryLen <= 0 {
		c.Safety.MaxQueryLen = 500
	}
	if c.Retrieval.MaxCandidates <= 0 {
		c.Retrieval.MaxCandidates = 8
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = 6
	}
	if c.Retrieval.MinScore <= 0 {
		c.Retrieval.MinScore = 0.5
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Safety.Policy {
	case "forbidden-only", "topic-gated":
	default:
		return fmt.Errorf(
			"safety.policy must be \"forbidden-only\" or \"topic-gated\", got %q",
			c.Safety.Policy,
		)
	}
	if c.OpenAI.Temperature > 0.5 {
		return fmt.Errorf("openai.temperature must be <= 0.5, got %v", c.OpenAI.Temperature)
	}
	if c.Retrieval.TopK > c.Retrieval.MaxCandidates {
		return fmt.Errorf(
			"retrieval.top_k (%d) must not exceed retrieval.max_candidates (%d)",
			c.Retrieval.TopK, c.Retrieval.MaxCandidates,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
