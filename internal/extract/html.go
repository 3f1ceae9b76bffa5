package extract

import (
	"fmt"
	"io"
	"os"

	"github.com/PuerkitoBio/goquery"
)

// htmlText extracts the visible text of an HTML document.
func htmlText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open html: %w", err)
	}
	defer f.Close()

	return stripHTML(f)
}

func stripHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style").Remove()
	return doc.Text(), nil
}
