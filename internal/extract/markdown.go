package extract

import (
	"bytes"
	"fmt"
	"os"

	"github.com/yuin/goldmark"
)

// markdownText renders Markdown to HTML and strips the markup, so headers,
// emphasis and link syntax do not leak into the indexed text.
func markdownText(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read markdown: %w", err)
	}

	var html bytes.Buffer
	if err := goldmark.Convert(src, &html); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	return stripHTML(&html)
}
