// Package embedding provides the deterministic fallback embedder used when
// no trained embedding model is configured.
package embedding

import (
	"context"
	"crypto/md5"
	"sort"
	"strconv"
	"strings"
)

// DefaultDimensions matches the dimensionality of common sentence
// transformer models, so a real provider is a drop-in replacement.
const DefaultDimensions = 384

// HashEmbedder derives a vector from MD5 digests of deterministic
// transformations of the text. It is a pure function of the text content:
// the same input always yields the same vector. Not a semantic embedding;
// it exists to keep the system runnable without a model behind it.
type HashEmbedder struct {
	dims int
}

// NewHash creates a hash embedder. Non-positive dims falls back to
// DefaultDimensions.
func NewHash(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &HashEmbedder{dims: dims}
}

// Dimensions returns the vector dimensionality.
func (e *HashEmbedder) Dimensions() int { return e.dims }

// Embed converts text into a vector with every element in [-1, 1).
// Case and surrounding whitespace do not affect the result. Never fails.
func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	text = strings.ToLower(strings.TrimSpace(text))

	reversed := reverseRunes(text)
	sorted := sortRunes(text)

	vec := make([]float32, 0, e.dims)
	for i := 0; len(vec) < e.dims; i++ {
		seed := strconv.Itoa(i)
		for _, variation := range []string{
			text,
			text + seed,
			reversed + seed,
			sorted + seed,
		} {
			vec = append(vec, hashValue(variation+seed))
			if len(vec) >= e.dims {
				break
			}
		}
	}
	return vec, nil
}

// hashValue maps an MD5 digest, read as a big-endian integer, into [-1, 1)
// by reducing modulo 2e6 and rescaling.
func hashValue(s string) float32 {
	digest := md5.Sum([]byte(s))

	const modulus = 2000000
	rem := 0
	for _, b := range digest {
		rem = (rem*256 + int(b)) % modulus
	}
	return float32(rem)/1000000 - 1
}

func reverseRunes(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

func sortRunes(s string) string {
	runes := []rune(s)
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return string(runes)
}
