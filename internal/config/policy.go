package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Strategy names a chunking algorithm.
type Strategy string

const (
	StrategyPreserveStructure  Strategy = "preserve_structure"
	StrategySequentialSteps    Strategy = "sequential_steps"
	StrategyPreserveCodeBlocks Strategy = "preserve_code_blocks"
	StrategyTopicBased         Strategy = "topic_based"
)

// ChunkPolicy selects a chunking strategy and its sizes for one content type.
// Sizes are measured in characters.
type ChunkPolicy struct {
	Strategy  Strategy `json:"chunk_strategy"`
	ChunkSize int      `json:"chunk_size"`
	Overlap   int      `json:"overlap"`
}

// PolicyTable maps a content type classification to its chunking policy.
// Unknown content types fall back to the default policy rather than failing.
type PolicyTable struct {
	policies map[string]ChunkPolicy
}

// DefaultPolicy is used for unknown or unmapped content types.
var DefaultPolicy = ChunkPolicy{
	Strategy:  StrategyTopicBased,
	ChunkSize: 1000,
	Overlap:   150,
}

func defaultPolicies() map[string]ChunkPolicy {
	return map[string]ChunkPolicy{
		"api_reference": {Strategy: StrategyPreserveStructure, ChunkSize: 1000, Overlap: 150},
		"tutorial":      {Strategy: StrategySequentialSteps, ChunkSize: 1200, Overlap: 200},
		"code_example":  {Strategy: StrategyPreserveCodeBlocks, ChunkSize: 1500, Overlap: 150},
		"guide":         {Strategy: StrategyTopicBased, ChunkSize: 1000, Overlap: 150},
		"general":       DefaultPolicy,
	}
}

// LoadPolicies builds the policy table, optionally merging a JSON file of
// the form {"content_classification": {"<type>": {"chunk_strategy": ...}}}.
// Every policy is validated at load time, not at first use.
func LoadPolicies(path string) (PolicyTable, error) {
	policies := defaultPolicies()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return PolicyTable{}, fmt.Errorf("failed to read chunking config %s: %w", path, err)
		}

		var file struct {
			ContentClassification map[string]ChunkPolicy `json:"content_classification"`
		}
		if err := json.Unmarshal(data, &file); err != nil {
			return PolicyTable{}, fmt.Errorf("invalid chunking config %s: %w", path, err)
		}

		for contentType, policy := range file.ContentClassification {
			if policy.ChunkSize == 0 {
				policy.ChunkSize = DefaultPolicy.ChunkSize
			}
			if policy.Overlap == 0 {
				policy.Overlap = DefaultPolicy.Overlap
			}
			if policy.Strategy == "" {
				policy.Strategy = DefaultPolicy.Strategy
			}
			policies[contentType] = policy
		}
	}

	table := PolicyTable{policies: policies}
	if err := table.validate(); err != nil {
		return PolicyTable{}, err
	}
	return table, nil
}

func (t PolicyTable) validate() error {
	for contentType, p := range t.policies {
		switch p.Strategy {
		case StrategyPreserveStructure, StrategySequentialSteps, StrategyPreserveCodeBlocks, StrategyTopicBased:
		default:
			return fmt.Errorf("content type %q: unknown chunk strategy %q", contentType, p.Strategy)
		}
		if p.ChunkSize <= 0 {
			return fmt.Errorf("content type %q: chunk size must be positive, got %d", contentType, p.ChunkSize)
		}
		if p.Overlap <= 0 || p.Overlap >= p.ChunkSize {
			return fmt.Errorf("content type %q: overlap must be in (0, chunk_size), got %d", contentType, p.Overlap)
		}
	}
	return nil
}

// For returns the policy for a content type, falling back to the default.
func (t PolicyTable) For(contentType string) ChunkPolicy {
	if p, ok := t.policies[contentType]; ok {
		return p
	}
	return DefaultPolicy
}
