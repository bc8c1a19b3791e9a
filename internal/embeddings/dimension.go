package embeddings

// EnsureDimension forces a vector to exactly dim components: short vectors
// are zero-padded, long ones truncated. The input is returned untouched when
// it already conforms. No renormalization is applied.
func EnsureDimension(vec []float32, dim int) []float32 {
	switch {
	case len(vec) == dim:
		return vec
	case len(vec) > dim:
		return vec[:dim]
	default:
		padded := make([]float32, dim)
		copy(padded, vec)
		return padded
	}
}
