package embeddings

import (
	"context"
	"math"
	"math/rand"
)

// RandomProvider is the last-resort fallback: independent standard-normal
// samples per component, L2-normalized. Useless for semantic similarity but
// dimensionally valid, so the pipeline never stalls on embedding failures.
type RandomProvider struct {
	dim int
}

// NewRandomProvider creates a random fallback provider targeting dim.
func NewRandomProvider(dim int) *RandomProvider {
	return &RandomProvider{dim: dim}
}

// Name implements Provider.
func (p *RandomProvider) Name() string { return "random" }

// EmbedBatch returns one unit-norm random vector per text.
func (p *RandomProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = p.Vector()
	}
	return vectors, nil
}

// Vector samples a single unit-norm vector. A zero-norm sample (probability
// effectively zero, but possible) substitutes the uniform unit vector.
func (p *RandomProvider) Vector() []float32 {
	vec := make([]float32, p.dim)
	var sum float64
	for i := range vec {
		v := rand.NormFloat64()
		vec[i] = float32(v)
		sum += v * v
	}

	if sum == 0 {
		uniform := float32(1 / math.Sqrt(float64(p.dim)))
		for i := range vec {
			vec[i] = uniform
		}
		return vec
	}

	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
