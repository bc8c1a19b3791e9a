package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPoliciesDefaults(t *testing.T) {
	table, err := LoadPolicies("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cases := []struct {
		contentType string
		strategy    Strategy
		chunkSize   int
		overlap     int
	}{
		{"api_reference", StrategyPreserveStructure, 1000, 150},
		{"tutorial", StrategySequentialSteps, 1200, 200},
		{"code_example", StrategyPreserveCodeBlocks, 1500, 150},
		{"guide", StrategyTopicBased, 1000, 150},
	}
	for _, tc := range cases {
		t.Run(tc.contentType, func(t *testing.T) {
			p := table.For(tc.contentType)
			if p.Strategy != tc.strategy || p.ChunkSize != tc.chunkSize || p.Overlap != tc.overlap {
				t.Errorf("Got %+v", p)
			}
		})
	}

	t.Run("unknown type falls back to default", func(t *testing.T) {
		p := table.For("release_notes")
		if p != DefaultPolicy {
			t.Errorf("Expected default policy, got %+v", p)
		}
	})
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunking.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadPoliciesFile(t *testing.T) {
	t.Run("overrides and additions merged", func(t *testing.T) {
		path := writeConfig(t, `{
			"content_classification": {
				"guide": {"chunk_strategy": "sequential_steps", "chunk_size": 800, "overlap": 100},
				"changelog": {"chunk_strategy": "topic_based", "chunk_size": 600, "overlap": 90}
			}
		}`)

		table, err := LoadPolicies(path)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		guide := table.For("guide")
		if guide.Strategy != StrategySequentialSteps || guide.ChunkSize != 800 {
			t.Errorf("Override not applied: %+v", guide)
		}
		changelog := table.For("changelog")
		if changelog.ChunkSize != 600 || changelog.Overlap != 90 {
			t.Errorf("Addition not applied: %+v", changelog)
		}
		// Untouched types keep their defaults.
		if table.For("tutorial").ChunkSize != 1200 {
			t.Error("Unrelated policy modified")
		}
	})

	t.Run("partial entries filled from defaults", func(t *testing.T) {
		path := writeConfig(t, `{"content_classification": {"faq": {"chunk_strategy": "topic_based"}}}`)
		table, err := LoadPolicies(path)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		faq := table.For("faq")
		if faq.ChunkSize != DefaultPolicy.ChunkSize || faq.Overlap != DefaultPolicy.Overlap {
			t.Errorf("Defaults not filled: %+v", faq)
		}
	})

	t.Run("unknown strategy rejected at load", func(t *testing.T) {
		path := writeConfig(t, `{"content_classification": {"faq": {"chunk_strategy": "semantic_magic"}}}`)
		if _, err := LoadPolicies(path); err == nil {
			t.Error("Expected error for unknown strategy")
		}
	})

	t.Run("overlap must be below chunk size", func(t *testing.T) {
		path := writeConfig(t, `{"content_classification": {"faq": {"chunk_strategy": "topic_based", "chunk_size": 100, "overlap": 100}}}`)
		if _, err := LoadPolicies(path); err == nil {
			t.Error("Expected error for overlap >= chunk size")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadPolicies("/does/not/exist.json"); err == nil {
			t.Error("Expected error for missing file")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeConfig(t, `{broken`)
		if _, err := LoadPolicies(path); err == nil {
			t.Error("Expected error for malformed json")
		}
	})
}
