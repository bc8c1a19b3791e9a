package embeddings

import (
	"context"
	stderrors "errors"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Typed degradation reasons for the statistical path. The chain inspects
// these to decide when to fall through to random embeddings.
var (
	ErrTooFewDocuments = stderrors.New("statistical embedding requires at least two documents")
	ErrNoVocabulary    = stderrors.New("statistical embedding found no usable vocabulary")
	ErrNotFitted       = stderrors.New("statistical model has not been fitted")
)

// TFIDFProvider builds term-weighted vectors over a batch of texts and
// reduces them to the target dimensionality with a truncated SVD. The fitted
// model is retained so single queries can be projected into the same space.
type TFIDFProvider struct {
	dim         int
	maxFeatures int

	mu    sync.RWMutex
	model *tfidfModel
}

type tfidfModel struct {
	vocab      map[string]int
	idf        []float64
	projection *mat.Dense // features x k
	k          int
}

// NewTFIDFProvider creates a statistical embedding provider targeting dim.
func NewTFIDFProvider(dim int) *TFIDFProvider {
	return &TFIDFProvider{dim: dim, maxFeatures: 10000}
}

// Name implements Provider.
func (p *TFIDFProvider) Name() string { return "tfidf" }

var termRe = regexp.MustCompile(`[a-z0-9]+`)

func tokenize(text string) []string {
	raw := termRe.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if len(tok) > 1 && !tfidfStopWords[tok] {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// EmbedBatch fits the model on the batch and returns one vector per text,
// each exactly dim long and L2-normalized. Requires at least two documents
// and a non-empty vocabulary; otherwise a typed failure is returned.
func (p *TFIDFProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	n := len(texts)
	if n < 2 {
		return nil, ErrTooFewDocuments
	}

	// Term frequencies per document and document frequencies.
	termCounts := make([]map[string]int, n)
	df := make(map[string]int)
	for i, text := range texts {
		counts := make(map[string]int)
		for _, tok := range tokenize(text) {
			counts[tok]++
		}
		termCounts[i] = counts
		for tok := range counts {
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, ErrNoVocabulary
	}

	vocab := buildVocabulary(df, p.maxFeatures)
	features := len(vocab)

	idf := make([]float64, features)
	for term, j := range vocab {
		idf[j] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	// Row-normalized tf-idf matrix, documents by features.
	tfidf := mat.NewDense(n, features, nil)
	for i, counts := range termCounts {
		for term, count := range counts {
			if j, ok := vocab[term]; ok {
				tfidf.Set(i, j, float64(count)*idf[j])
			}
		}
		normalizeRow(tfidf, i)
	}

	k := min(p.dim, n, features)

	var svd mat.SVD
	if ok := svd.Factorize(tfidf, mat.SVDThin); !ok {
		return nil, stderrors.New("tfidf: svd factorization failed")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sigma := svd.Values(nil)

	// Keep the first k right-singular vectors for query projection.
	projection := mat.NewDense(features, k, nil)
	projection.Copy(v.Slice(0, features, 0, k))

	vectors := make([][]float32, n)
	for i := 0; i < n; i++ {
		vec := make([]float32, p.dim)
		for j := 0; j < k; j++ {
			vec[j] = float32(u.At(i, j) * sigma[j])
		}
		normalizeVector(vec)
		vectors[i] = vec
	}

	p.mu.Lock()
	p.model = &tfidfModel{vocab: vocab, idf: idf, projection: projection, k: k}
	p.mu.Unlock()

	return vectors, nil
}

// Transform projects a single query into the fitted space. Fails with
// ErrNotFitted before any successful EmbedBatch call.
func (p *TFIDFProvider) Transform(ctx context.Context, text string) ([]float32, error) {
	p.mu.RLock()
	model := p.model
	p.mu.RUnlock()
	if model == nil {
		return nil, ErrNotFitted
	}

	features := len(model.idf)
	query := mat.NewVecDense(features, nil)
	for _, tok := range tokenize(text) {
		if j, ok := model.vocab[tok]; ok {
			query.SetVec(j, query.AtVec(j)+model.idf[j])
		}
	}
	if norm := mat.Norm(query, 2); norm > 0 {
		query.ScaleVec(1/norm, query)
	}

	projected := mat.NewVecDense(model.k, nil)
	projected.MulVec(model.projection.T(), query)

	vec := make([]float32, p.dim)
	for j := 0; j < model.k; j++ {
		vec[j] = float32(projected.AtVec(j))
	}
	normalizeVector(vec)
	return vec, nil
}

// Fitted reports whether a model is available for query transformation.
func (p *TFIDFProvider) Fitted() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model != nil
}

// buildVocabulary assigns stable feature indices, keeping the most frequent
// terms when the vocabulary exceeds the cap.
func buildVocabulary(df map[string]int, maxFeatures int) map[string]int {
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if df[terms[i]] != df[terms[j]] {
			return df[terms[i]] > df[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	// Stable index order for deterministic output.
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	for j, term := range terms {
		vocab[term] = j
	}
	return vocab
}

func normalizeRow(m *mat.Dense, i int) {
	row := m.RawRowView(i)
	var sum float64
	for _, v := range row {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for j := range row {
		row[j] /= norm
	}
}

func normalizeVector(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}

var tfidfStopWords = func() map[string]bool {
	words := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for",
		"from", "has", "he", "in", "is", "it", "its", "of", "on",
		"that", "the", "to", "was", "will", "with", "this", "have",
		"you", "we", "they", "what", "where", "when", "why",
		"how", "which", "who", "can", "could", "would", "should",
		"do", "does", "did", "not", "or", "but", "if", "then",
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}()
