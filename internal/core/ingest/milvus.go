package ingest

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"docindex/config"

	milvusclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	milvusentity "github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	contentMaxLength = 8192

	// Primary keys pack (docID, chunkIndex) into one int64 with 20 bits
	// for the chunk index; more chunks would collide with the next doc.
	maxChunksPerDoc = 1 << 20
)

// VectorRow carries the scalar columns stored next to each embedding.
type VectorRow struct {
	DocID      int64
	ChunkIndex int32
	PageIndex  int32
	Content    string
}

// UpsertVectors ensures the collection exists and inserts the embeddings
// with their scalar columns. Returns the assigned IDs and the collection
// name. Primary keys are deterministic (docID, chunkIndex) pairs so
// re-ingestion overwrites rather than duplicates.
func UpsertVectors(ctx context.Context, vectors [][]float32, rows []VectorRow) ([]int64, string, error) {
	if len(vectors) == 0 || len(vectors) != len(rows) {
		return nil, "", errors.New("vectors and rows mismatch")
	}
	for _, row := range rows {
		if row.ChunkIndex < 0 || row.ChunkIndex >= maxChunksPerDoc {
			return nil, "", fmt.Errorf("chunk index %d out of range for doc %d (max %d per document)", row.ChunkIndex, row.DocID, maxChunksPerDoc)
		}
	}
	dim := len(vectors[0])

	cli, err := milvusclient.NewClient(ctx, milvusclient.Config{Address: config.Cfg.Milvus.Address})
	if err != nil {
		return nil, "", err
	}
	defer cli.Close()

	collection := config.Cfg.Milvus.Collection
	if collection == "" {
		collection = "chunks"
	}
	exists, err := cli.HasCollection(ctx, collection)
	if err != nil {
		return nil, "", err
	}
	if !exists {
		if err := createCollection(ctx, cli, collection, dim); err != nil {
			return nil, "", err
		}
	}

	ids := make([]int64, len(rows))
	docIDs := make([]int64, len(rows))
	chunkIdxs := make([]int32, len(rows))
	pageIdxs := make([]int32, len(rows))
	contents := make([]string, len(rows))
	for i, row := range rows {
		// Deterministic primary keys from docID and chunkIndex to avoid
		// AutoID API differences. Chunk indexes were range-checked above.
		ids[i] = (row.DocID << 20) + int64(row.ChunkIndex)
		docIDs[i] = row.DocID
		chunkIdxs[i] = row.ChunkIndex
		pageIdxs[i] = row.PageIndex
		contents[i] = truncateBytes(row.Content, contentMaxLength)
	}

	colID := milvusentity.NewColumnInt64("id", ids)
	colDoc := milvusentity.NewColumnInt64("doc_id", docIDs)
	colChunk := milvusentity.NewColumnInt32("chunk_index", chunkIdxs)
	colPage := milvusentity.NewColumnInt32("page_index", pageIdxs)
	colContent := milvusentity.NewColumnVarChar("content", contents)
	colVec := milvusentity.NewColumnFloatVector("embedding", dim, vectors)

	if _, err := cli.Insert(ctx, collection, "", colID, colDoc, colChunk, colPage, colContent, colVec); err != nil {
		return nil, "", err
	}
	return ids, collection, nil
}

func createCollection(ctx context.Context, cli milvusclient.Client, collection string, dim int) error {
	schema := milvusentity.NewSchema().WithName(collection).WithDescription("indexed document chunks")
	schema.WithField(milvusentity.NewField().WithName("id").WithDataType(milvusentity.FieldTypeInt64).WithIsPrimaryKey(true))
	schema.WithField(milvusentity.NewField().WithName("doc_id").WithDataType(milvusentity.FieldTypeInt64))
	schema.WithField(milvusentity.NewField().WithName("chunk_index").WithDataType(milvusentity.FieldTypeInt32))
	schema.WithField(milvusentity.NewField().WithName("page_index").WithDataType(milvusentity.FieldTypeInt32))
	schema.WithField(milvusentity.NewField().WithName("content").WithDataType(milvusentity.FieldTypeVarChar).WithMaxLength(contentMaxLength))
	schema.WithField(milvusentity.NewField().WithName("embedding").WithDataType(milvusentity.FieldTypeFloatVector).WithDim(int64(dim)))

	if err := cli.CreateCollection(ctx, schema, 2); err != nil {
		return err
	}

	hnsw := config.Cfg.Milvus.IndexHNSWConfig
	idx, err := milvusentity.NewIndexHNSW(milvusentity.MetricType(hnsw.MetricType), hnsw.M, hnsw.EfConstruction)
	if err != nil {
		return err
	}
	return cli.CreateIndex(ctx, collection, "embedding", idx, false)
}

// truncateBytes cuts s to at most max bytes without splitting a rune. The
// collection's VarChar max_length is enforced in bytes.
func truncateBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
