package keyword

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/bryanwahyu/automaton-pricing/internal/textproc"
)

// DefaultDimension matches the vector size of the sentence embedders the
// record index was built with.
const DefaultDimension = 384

// HashingEmbedder maps tokens and token bigrams into a fixed-size signed
// feature vector and L2-normalizes it.
type HashingEmbedder struct {
	dim int
}

func NewHashingEmbedder(dim int) *HashingEmbedder {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &HashingEmbedder{dim: dim}
}

func (e *HashingEmbedder) Name() string   { return "hashing-embedder" }
func (e *HashingEmbedder) Dimension() int { return e.dim }

func (e *HashingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dim)
	tokens := strings.FieldsFunc(textproc.Fold(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, tok := range tokens {
		e.add(vec, tok)
		if i > 0 {
			e.add(vec, tokens[i-1]+" "+tok)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec, nil
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec, nil
}

func (e *HashingEmbedder) add(vec []float32, feature string) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(e.dim))
	if sum>>63 == 1 {
		vec[idx]--
	} else {
		vec[idx]++
	}
}
