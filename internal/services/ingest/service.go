package ingest

import (
	"context"
	"errors"
	"time"

	"docindex/config"
	"docindex/internal/core/document"
	coreingest "docindex/internal/core/ingest"
	"docindex/internal/core/llm"
	"docindex/internal/core/vision"
	"docindex/internal/database"
	"docindex/internal/parse"
	"docindex/pkg/logger"
)

// RunIngestion orchestrates the ingestion pipeline for a document ID:
// fetch the file, parse it into pages (cloud service when configured, local
// text extraction otherwise), extract images and generate alt text, chunk,
// embed and index everything.
func RunIngestion(docID int64, force bool) {
	db, err := database.GetDB()
	if err != nil {
		logger.Error(err, "ingest: db unavailable")
		return
	}

	doc, err := GetDocumentByID(db, docID)
	if err != nil {
		logger.Error(err, "ingest: get document failed")
		return
	}
	if doc == nil || doc.FilePath == nil {
		logger.Error(errors.New("not found"), "ingest: document not found")
		return
	}
	logger.WithFields(map[string]interface{}{
		"doc_id":    docID,
		"file_path": *doc.FilePath,
	}).Info("ingest: start")

	// Idempotency
	exists, err := HasChunks(db, docID)
	if err != nil {
		logger.Error(err, "ingest: check chunks failed")
		return
	}
	if exists && !force {
		logger.Info("ingest: chunks already exist; skip (no force)")
		return
	}
	if exists && force {
		if err := DeleteChunksByDocID(db, docID); err != nil {
			logger.Error(err, "ingest: cleanup chunks failed")
			return
		}
		if err := DeleteImageAssetsByDocID(db, docID); err != nil {
			logger.Error(err, "ingest: cleanup images failed")
			return
		}
	}

	_ = UpdateDocumentStatus(db, docID, "processing")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	tmpPath, cleanup, err := coreingest.FetchToLocalTemp(ctx, *doc.FilePath)
	if err != nil {
		logger.Error(err, "ingest: fetch file failed")
		_ = UpdateDocumentStatus(db, docID, "failed")
		return
	}
	defer cleanup()

	source := *doc.FilePath
	if doc.OriginalFilename != nil && *doc.OriginalFilename != "" {
		source = *doc.OriginalFilename
	}

	docs, refs, alts, err := parseDocument(ctx, tmpPath, source)
	if err != nil {
		logger.Error(err, "ingest: parse failed")
		_ = UpdateDocumentStatus(db, docID, "failed")
		return
	}
	logger.WithFields(map[string]interface{}{
		"doc_id":    docID,
		"documents": len(docs),
		"images":    len(refs),
	}).Info("ingest: parsed")

	targetTokens := config.Cfg.Ingest.ChunkTokens
	if targetTokens <= 0 {
		targetTokens = 600
	}
	overlap := config.Cfg.Ingest.ChunkOverlap
	if overlap < 0 {
		overlap = 80
	}
	chunks := BuildChunks(docs, targetTokens, overlap)
	logger.WithFields(map[string]interface{}{
		"doc_id":       docID,
		"chunks":       len(chunks),
		"chunk_tokens": targetTokens,
		"overlap":      overlap,
	}).Info("ingest: chunks built")

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
		logger.Error(err, "ingest: embedding failed")
		_ = UpdateDocumentStatus(db, docID, "failed")
		return
	}
	if len(vectors) != len(chunks) {
		logger.Error(errors.New("mismatch"), "ingest: embedding count mismatch")
		_ = UpdateDocumentStatus(db, docID, "failed")
		return
	}

	milvusIDs, collection, err := coreingest.UpsertVectors(ctx, vectors, rows)
	if err != nil {
		logger.Error(err, "ingest: milvus upsert failed")
		_ = UpdateDocumentStatus(db, docID, "failed")
		return
	}

	if err := InsertChunks(ctx, docID, chunks, milvusIDs, collection); err != nil {
		logger.Error(err, "ingest: db insert chunks failed")
		_ = UpdateDocumentStatus(db, docID, "failed")
		return
	}
	if err := InsertImageAssets(db, docID, refs, alts); err != nil {
		logger.Error(err, "ingest: db insert images failed")
		_ = UpdateDocumentStatus(db, docID, "failed")
		return
	}

	_ = UpdateDocumentStatus(db, docID, "ready")
	logger.WithFields(map[string]interface{}{"doc_id": docID}).Info("ingest: ready")
}

// parseDocument turns the file into indexable documents. The cloud parse
// path also yields page images with generated alt text; the local fallback
// yields text-only pages.
func parseDocument(ctx context.Context, localPath, source string) ([]document.Document, []parse.ImageRef, []string, error) {
	client := parse.NewClient()
	if !client.Enabled() {
		pages, err := parse.ExtractTextPages(localPath)
		if err != nil {
			return nil, nil, nil, err
		}
		return document.FromPages(pages, source), nil, nil, nil
	}

	result, err := client.ParseJSON(ctx, localPath)
	if err != nil {
		return nil, nil, nil, err
	}
	docs := document.FromPages(result.Pages, source)

	refs, err := client.ExtractImages(ctx, result, config.Cfg.Parse.OutputDir)
	if err != nil {
		logger.Error(err, "%v: image extraction failed", config.ModuleParse)
		// Text pages are still indexable without images.
		return docs, nil, nil, nil
	}

	alts, err := vision.AltTexts(ctx, refs)
	if err != nil {
		logger.Error(err, "%v: alt text generation incomplete", config.ModuleVision)
	}
	docs = append(docs, document.FromImageAltText(refs, alts, source)...)
	return docs, refs, alts, nil
}
