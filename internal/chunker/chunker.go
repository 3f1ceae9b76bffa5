// Package chunker splits extracted document text into overlapping,
// sentence-aware segments of bounded size.
package chunker

import "strings"

// Defaults used when the configured values are unusable.
const (
	DefaultSize    = 1000
	DefaultOverlap = 200
)

// Chunker slides a fixed-size window over text, preferring to cut at the
// last sentence-terminating period inside the window.
type Chunker struct {
	size    int
	overlap int
}

// New creates a chunker. A non-positive size falls back to DefaultSize; an
// overlap that is negative or not smaller than size is clamped to size/5,
// which keeps every window strictly advancing.
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split returns the non-empty segments of text. Text at most one window
// long is returned whole. Sizes are measured in runes so multi-byte
// scripts are never cut mid-character.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}
	if n <= c.size {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < n {
		end := start + c.size
		if end < n {
			if cut := lastPeriod(runes, start, end); cut > start {
				end = cut + 1
			}
		}

		sliceEnd := end
		if sliceEnd > n {
			sliceEnd = n
		}
		if chunk := strings.TrimSpace(string(runes[start:sliceEnd])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= n {
			// This window consumed the remainder; stepping back by the
			// overlap would re-emit a tail already covered.
			break
		}

		next := end - c.overlap
		if next <= start {
			// A period right after the window start would otherwise
			// move the window backwards.
			next = end
		}
		start = next
	}
	return chunks
}

// lastPeriod returns the index of the last '.' in runes[start:end], or -1.
func lastPeriod(runes []rune, start, end int) int {
	for i := end - 1; i > start; i-- {
		if runes[i] == '.' {
			return i
		}
	}
	return -1
}
