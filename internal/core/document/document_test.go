package document

import (
	"testing"

	"docindex/internal/parse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPages(t *testing.T) {
	pages := []parse.Page{
		{Page: 1, Text: "first page"},
		{Page: 2, Text: "second page"},
	}
	docs := FromPages(pages, "manual.pdf")
	require.Len(t, docs, 2)

	assert.Equal(t, "manual.pdf:page:1", docs[0].ID)
	assert.Equal(t, "first page", docs[0].Text)
	assert.Equal(t, "1", docs[0].Metadata["page_number"])
	assert.Equal(t, "manual.pdf", docs[0].Metadata["source"])

	assert.Equal(t, "2", docs[1].Metadata["page_number"])
}

func TestFromPages_MarkdownFallback(t *testing.T) {
	pages := []parse.Page{{Page: 1, Text: "  ", Markdown: "# Heading"}}
	docs := FromPages(pages, "doc.pdf")
	require.Len(t, docs, 1)
	assert.Equal(t, "# Heading", docs[0].Text)
}

func TestFromImageAltText(t *testing.T) {
	refs := []parse.ImageRef{
		{Name: "img_p1_1.png", Page: 1, Path: "/tmp/img_p1_1.png"},
		{Name: "img_p2_1.png", Page: 2, Path: "/tmp/img_p2_1.png"},
	}
	alts := []string{"a bar chart of revenue", "a network diagram"}
	docs := FromImageAltText(refs, alts, "report.pdf")
	require.Len(t, docs, 2)

	assert.Equal(t, "report.pdf:image:img_p1_1.png", docs[0].ID)
	assert.Equal(t, "a bar chart of revenue", docs[0].Text)
	assert.Equal(t, "img_p1_1.png", docs[0].Metadata["image"])
	assert.Equal(t, "1", docs[0].Metadata["page_number"])
	assert.Equal(t, "report.pdf", docs[0].Metadata["source"])
}

func TestFromImageAltText_SkipsEmptyAlts(t *testing.T) {
	refs := []parse.ImageRef{
		{Name: "a.png", Page: 1},
		{Name: "b.png", Page: 1},
		{Name: "c.png", Page: 2},
	}
	alts := []string{"described", "   "}
	// c.png has no alt entry at all, b.png is blank.
	docs := FromImageAltText(refs, alts, "x.pdf")
	require.Len(t, docs, 1)
	assert.Equal(t, "a.png", docs[0].Metadata["image"])
}
