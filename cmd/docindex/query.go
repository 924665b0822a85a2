package main

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docindex/config"
	"docindex/internal/core/document"
	coreingest "docindex/internal/core/ingest"
	"docindex/internal/core/llm"
	corequery "docindex/internal/core/query"
	"docindex/internal/parse"
	ingestsvc "docindex/internal/services/ingest"

	"github.com/spf13/cobra"
)

var (
	queryFile     string
	queryQuestion string
	queryTopK     int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Index one document and answer a question against it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if queryQuestion == "" {
			return fmt.Errorf("--question is required")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		var docIDs []int64
		if queryFile != "" {
			docID, err := indexFile(ctx, queryFile)
			if err != nil {
				return err
			}
			docIDs = []int64{docID}
			fmt.Printf("indexed %s (doc_id=%d)\n", queryFile, docID)
		}

		resp, err := corequery.Run(ctx, corequery.Request{
			Question: queryQuestion,
			DocIDs:   docIDs,
			TopK:     queryTopK,
		})
		if err != nil {
			return err
		}
		fmt.Println(resp.Answer)
		return nil
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryFile, "file", "f", "", "document to index before querying (pdf, txt or md)")
	queryCmd.Flags().StringVarP(&queryQuestion, "question", "q", "", "question to ask")
	queryCmd.Flags().IntVar(&queryTopK, "top-k", 0, "number of context snippets to retrieve")
	rootCmd.AddCommand(queryCmd)
}

// indexFile parses a local file into documents, embeds the chunks and
// upserts them into Milvus under a deterministic document ID.
func indexFile(ctx context.Context, path string) (int64, error) {
	docs, err := loadDocuments(path)
	if err != nil {
		return 0, err
	}

	chunks := ingestsvc.BuildChunks(docs, config.Cfg.Ingest.ChunkTokens, config.Cfg.Ingest.ChunkOverlap)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no indexable content in %s", path)
	}

	docID := deriveDocID(path)
	inputs := make([]string, 0, len(chunks))
	rows := make([]coreingest.VectorRow, 0, len(chunks))
	for _, ch := range chunks {
		inputs = append(inputs, ch.Content)
		rows = append(rows, coreingest.VectorRow{
			DocID:      docID,
			ChunkIndex: ch.ChunkIndex,
			PageIndex:  ch.PageIndex,
			Content:    ch.Content,
		})
	}

	vectors, err := llm.Embed(ctx, inputs)
	if err != nil {
		return 0, err
	}
	if _, _, err := coreingest.UpsertVectors(ctx, vectors, rows); err != nil {
		return 0, err
	}
	return docID, nil
}

func loadDocuments(path string) ([]document.Document, error) {
	source := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return document.FromPages([]parse.Page{{Page: 1, Text: string(data)}}, source), nil
	default:
		pages, err := parse.ExtractTextPages(path)
		if err != nil {
			return nil, err
		}
		return document.FromPages(pages, source), nil
	}
}

// deriveDocID hashes the file path into a stable positive ID so repeated
// runs overwrite rather than duplicate vectors.
func deriveDocID(path string) int64 {
	h := fnv.New32a()
	h.Write([]byte(filepath.Clean(path)))
	return int64(h.Sum32())
}
