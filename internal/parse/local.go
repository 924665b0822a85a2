package parse

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ExtractTextPages extracts per-page text from a PDF on disk. This is the
// fallback path when no parse-service key is configured; it yields no
// images.
func ExtractTextPages(localPath string) ([]Page, error) {
	f, r, err := pdf.Open(localPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]Page, 0, total)
	empty := true
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			// Pages with unsupported encodings are skipped, not fatal.
			continue
		}
		text = sanitizeUTF8Printable(text)
		if text != "" {
			empty = false
		}
		pages = append(pages, Page{Page: i, Text: text})
	}
	if empty {
		return nil, fmt.Errorf("empty content")
	}
	return pages, nil
}

// sanitizeUTF8Printable removes BOM and non-printable runes, keeping common whitespace.
func sanitizeUTF8Printable(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\uFEFF' { // BOM
			continue
		}
		if r == unicode.ReplacementChar { // U+FFFD
			continue
		}
		if r == '\n' || r == '\t' || r == '\r' {
			// keep
		} else if !unicode.IsPrint(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
