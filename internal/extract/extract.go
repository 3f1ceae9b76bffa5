// Package extract converts support documents of the supported formats
// into plain text ready for chunking.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ragdesk-cloud/ragdesk/internal/domain"
)

// Format identifies a supported document format by its file extension.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatText     Format = "txt"
)

// FromPath maps a file path to its format by extension, case-insensitively.
func FromPath(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch Format(ext) {
	case FormatPDF, FormatDOCX, FormatCSV, FormatMarkdown, FormatHTML, FormatText:
		return Format(ext), nil
	}
	return "", fmt.Errorf("%q: %w", filepath.Base(path), domain.ErrUnsupportedFormat)
}

// Text extracts plain text from the file at path, dispatching on extension.
// A readable file with no extractable text yields an empty string, not an
// error; the caller decides what an empty document means.
func Text(path string) (string, error) {
	format, err := FromPath(path)
	if err != nil {
		return "", err
	}

	var text string
	switch format {
	case FormatPDF:
		text, err = pdfText(path)
	case FormatDOCX:
		text, err = docxText(path)
	case FormatCSV:
		text, err = csvText(path)
	case FormatMarkdown:
		text, err = markdownText(path)
	case FormatHTML:
		text, err = htmlText(path)
	case FormatText:
		text, err = plainText(path)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}
	return strings.TrimSpace(text), nil
}
