package config

import "testing"

func validConfig() Config {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := validConfig()
		cfg.HTTP.Port = port
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for port %d", port)
		}
	}
}

func TestValidate_InvalidSafetyPolicy(t *testing.T) {
	cfg := validConfig()
	cfg.Safety.Policy = "allow-all"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid safety policy")
	}

	expected := `safety.policy must be "forbidden-only" or "topic-gated", got "allow-all"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidSafetyPolicies(t *testing.T) {
	for _, policy := range []string{"forbidden-only", "topic-gated"} {
		t.Run("policy="+policy, func(t *testing.T) {
			cfg := validConfig()
			cfg.Safety.Policy = policy
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for policy %q: %v", policy, err)
			}
		})
	}
}

func TestValidate_TemperatureCap(t *testing.T) {
	cfg := validConfig()
	cfg.OpenAI.Temperature = 0.9
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for temperature above 0.5")
	}
}

func TestValidate_TopKExceedsCandidates(t *testing.T) {
	cfg := validConfig()
	cfg.Retrieval.TopK = 10
	cfg.Retrieval.MaxCandidates = 8
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for top_k > max_candidates")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()

	if cfg.Safety.MaxQueryLen != 500 {
		t.Errorf("MaxQueryLen = %d, want 500", cfg.Safety.MaxQueryLen)
	}
	if cfg.Safety.Policy != "forbidden-only" {
		t.Errorf("Policy = %q, want forbidden-only", cfg.Safety.Policy)
	}
	if cfg.Retrieval.MaxCandidates != 8 || cfg.Retrieval.TopK != 6 {
		t.Errorf("candidates/topK = %d/%d, want 8/6", cfg.Retrieval.MaxCandidates, cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.MinScore != 0.5 {
		t.Errorf("MinScore = %v, want 0.5", cfg.Retrieval.MinScore)
	}
	if cfg.OpenAI.MaxOutputTokens != 300 {
		t.Errorf("MaxOutputTokens = %d, want 300", cfg.OpenAI.MaxOutputTokens)
	}
	if cfg.OpenAI.Temperature != 0.4 {
		t.Errorf("Temperature = %v, want 0.4", cfg.OpenAI.Temperature)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CVCHAT_TEST_KEY", "sk-test")

	in := []byte("api_key: ${CVCHAT_TEST_KEY}\nbase_url: ${CVCHAT_TEST_URL:-https://api.openai.com/v1}\n")
	out := string(expandEnvVars(in))

	if want := "api_key: sk-test\nbase_url: https://api.openai.com/v1\n"; out != want {
		t.Errorf("expanded config:\ngot:  %q\nwant: %q", out, want)
	}
}
