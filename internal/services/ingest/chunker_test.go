package ingest

import (
	"strings"
	"testing"

	"docindex/internal/core/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docWithPage(text string, page string) document.Document {
	return document.Document{
		Text:     text,
		Metadata: map[string]string{"page_number": page},
	}
}

func TestBuildChunks_SingleSmallDoc(t *testing.T) {
	chunks := BuildChunks([]document.Document{docWithPage("hello world", "3")}, 600, 80)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0].Content)
	assert.Equal(t, int32(0), chunks[0].ChunkIndex)
	assert.Equal(t, int32(3), chunks[0].PageIndex)
}

func TestBuildChunks_SplitsWithOverlap(t *testing.T) {
	// 10 tokens per chunk = 40 chars, 2 tokens overlap = 8 chars
	text := strings.Repeat("a", 100)
	chunks := BuildChunks([]document.Document{docWithPage(text, "1")}, 10, 2)
	require.True(t, len(chunks) > 1, "expected multiple chunks")

	assert.Len(t, chunks[0].Content, 40)
	// Consecutive chunks share the overlap region.
	total := 0
	for i, ch := range chunks {
		assert.Equal(t, int32(i), ch.ChunkIndex)
		total += len(ch.Content)
	}
	assert.GreaterOrEqual(t, total, len(text))
}

func TestBuildChunks_SkipsEmptyDocs(t *testing.T) {
	docs := []document.Document{
		docWithPage("   ", "1"),
		docWithPage("content", "2"),
	}
	chunks := BuildChunks(docs, 600, 80)
	require.Len(t, chunks, 1)
	assert.Equal(t, int32(2), chunks[0].PageIndex)
	assert.Equal(t, int32(0), chunks[0].ChunkIndex)
}

func TestBuildChunks_GlobalChunkIndex(t *testing.T) {
	docs := []document.Document{
		docWithPage("first page", "1"),
		docWithPage("second page", "2"),
	}
	chunks := BuildChunks(docs, 600, 80)
	require.Len(t, chunks, 2)
	assert.Equal(t, int32(0), chunks[0].ChunkIndex)
	assert.Equal(t, int32(1), chunks[1].ChunkIndex)
}

func TestBuildChunks_DefaultsOnBadParams(t *testing.T) {
	chunks := BuildChunks([]document.Document{docWithPage("x", "1")}, 0, -5)
	require.Len(t, chunks, 1)
}

func TestBuildChunks_MultibyteSafe(t *testing.T) {
	// 1 token = 4 chars; multi-byte runes must not be split.
	text := strings.Repeat("日本語テキスト", 20)
	chunks := BuildChunks([]document.Document{docWithPage(text, "1")}, 5, 1)
	var rebuilt strings.Builder
	for _, ch := range chunks {
		assert.True(t, len([]rune(ch.Content)) <= 20)
		rebuilt.WriteString(ch.Content)
	}
	// Overlap duplicates runes, so the rebuilt text is at least as long.
	assert.GreaterOrEqual(t, len(rebuilt.String()), len(text))
}

func TestBuildContentPreview(t *testing.T) {
	in := "\uFEFF  hello\x00world\n  "
	out := buildContentPreview(in, 512)
	assert.Equal(t, "hello"+"world", strings.ReplaceAll(out, "\n", ""))

	long := strings.Repeat("b", 1000)
	assert.Len(t, buildContentPreview(long, 512), 512)
}

func TestPageIndexOf(t *testing.T) {
	assert.Equal(t, int32(0), pageIndexOf(document.Document{}))
	assert.Equal(t, int32(0), pageIndexOf(docWithPage("x", "nope")))
	assert.Equal(t, int32(12), pageIndexOf(docWithPage("x", "12")))
}
