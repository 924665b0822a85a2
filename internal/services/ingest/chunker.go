package ingest

import (
	"strconv"
	"strings"

	"docindex/internal/core/document"
)

type Chunk struct {
	ChunkIndex int32
	PageIndex  int32
	Content    string
}

// BuildChunks makes ~token-sized chunks with overlap from documents.
// Token approximation: ~4 chars per token; coarse but adequate here. Chunk
// indexes are global across the document list; page indexes come from the
// page_number metadata.
func BuildChunks(docs []document.Document, targetTokens int, overlapTokens int) []Chunk {
	if targetTokens <= 0 {
		targetTokens = 600
	}
	if overlapTokens < 0 {
		overlapTokens = 0
	}
	targetChars := targetTokens * 4
	overlapChars := overlapTokens * 4

	chunks := make([]Chunk, 0, 128)
	chunkIdx := int32(0)
	for _, doc := range docs {
		text := strings.TrimSpace(doc.Text)
		if text == "" {
			continue
		}
		pageIdx := pageIndexOf(doc)
		runes := []rune(text)
		for startRune := 0; startRune < len(runes); {
			endRune := startRune + targetChars
			if endRune > len(runes) {
				endRune = len(runes)
			}
			chunks = append(chunks, Chunk{
				ChunkIndex: chunkIdx,
				PageIndex:  pageIdx,
				Content:    string(runes[startRune:endRune]),
			})
			chunkIdx++
			if endRune == len(runes) {
				break
			}
			// Advance with overlap (by runes)
			nextStartRune := endRune - overlapChars
			if nextStartRune <= startRune {
				nextStartRune = endRune
			}
			startRune = nextStartRune
		}
	}
	return chunks
}

func pageIndexOf(doc document.Document) int32 {
	if doc.Metadata == nil {
		return 0
	}
	n, err := strconv.Atoi(doc.Metadata["page_number"])
	if err != nil {
		return 0
	}
	return int32(n)
}
