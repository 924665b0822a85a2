package ingest

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestUpsertVectors_Mismatch(t *testing.T) {
	vectors := [][]float32{{1, 2}, {3, 4}}
	rows := []VectorRow{{DocID: 1, ChunkIndex: 0}}
	if _, _, err := UpsertVectors(context.Background(), vectors, rows); err == nil {
		t.Fatalf("expected mismatch error")
	}
	if _, _, err := UpsertVectors(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error on empty input")
	}
}

func TestUpsertVectors_ChunkIndexOutOfRange(t *testing.T) {
	vectors := [][]float32{{1, 2}}
	rows := []VectorRow{{DocID: 1, ChunkIndex: maxChunksPerDoc}}
	if _, _, err := UpsertVectors(context.Background(), vectors, rows); err == nil {
		t.Fatalf("expected error for chunk index colliding with the next doc's key space")
	}
	rows[0].ChunkIndex = -1
	if _, _, err := UpsertVectors(context.Background(), vectors, rows); err == nil {
		t.Fatalf("expected error for negative chunk index")
	}
}

func TestTruncateBytes(t *testing.T) {
	if got := truncateBytes("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	// 2-byte runes: the cut must land on a rune boundary and stay within
	// the byte budget.
	long := strings.Repeat("ü", 20)
	got := truncateBytes(long, 5)
	if len(got) > 5 {
		t.Fatalf("expected at most 5 bytes, got %d", len(got))
	}
	if len(got) != 4 || !utf8.ValidString(got) {
		t.Fatalf("expected 4 valid bytes (2 runes), got %d bytes %q", len(got), got)
	}
}
