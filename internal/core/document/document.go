package document

import (
	"fmt"
	"strings"

	"docindex/internal/parse"
)

// Document is one unit of ingestible text plus metadata.
type Document struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// FromPages builds one document per parsed page, tagged with the page
// number and the source file.
func FromPages(pages []parse.Page, source string) []Document {
	docs := make([]Document, 0, len(pages))
	for _, p := range pages {
		text := p.Text
		if strings.TrimSpace(text) == "" {
			text = p.Markdown
		}
		docs = append(docs, Document{
			ID:   fmt.Sprintf("%s:page:%d", source, p.Page),
			Text: text,
			Metadata: map[string]string{
				"page_number": fmt.Sprintf("%d", p.Page),
				"source":      source,
			},
		})
	}
	return docs
}

// FromImageAltText builds one document per extracted image, carrying the
// generated alt text as content. refs and alts are parallel; images whose
// alt text is empty are skipped.
func FromImageAltText(refs []parse.ImageRef, alts []string, source string) []Document {
	docs := make([]Document, 0, len(refs))
	for i, ref := range refs {
		if i >= len(alts) || strings.TrimSpace(alts[i]) == "" {
			continue
		}
		docs = append(docs, Document{
			ID:   fmt.Sprintf("%s:image:%s", source, ref.Name),
			Text: alts[i],
			Metadata: map[string]string{
				"image":       ref.Name,
				"page_number": fmt.Sprintf("%d", ref.Page),
				"source":      source,
			},
		})
	}
	return docs
}
