package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode"

	"docindex/internal/database"
	"docindex/internal/database/model"
	"docindex/internal/parse"

	"gorm.io/gorm"
)

func GetDocumentByID(db *gorm.DB, docID int64) (*model.Document, error) {
	var doc model.Document
	if err := db.First(&doc, docID).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func HasChunks(db *gorm.DB, docID int64) (bool, error) {
	var count int64
	if err := db.Model(&model.Chunk{}).Where("document_id = ?", docID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func DeleteChunksByDocID(db *gorm.DB, docID int64) error {
	return db.Where("document_id = ?", docID).Delete(&model.Chunk{}).Error
}

func DeleteImageAssetsByDocID(db *gorm.DB, docID int64) error {
	return db.Where("document_id = ?", docID).Delete(&model.ImageAsset{}).Error
}

func UpdateDocumentStatus(db *gorm.DB, docID int64, status string) error {
	return db.Model(&model.Document{}).Where("id = ?", docID).Update("status", status).Error
}

// InsertChunks persists the chunk rows together in one transaction.
func InsertChunks(ctx context.Context, docID int64, chunks []Chunk, milvusIDs []int64, collection string) error {
	records := make([]model.Chunk, 0, len(chunks))
	for i, ch := range chunks {
		content := ch.Content
		contentPreview := buildContentPreview(content, 512)
		h := sha256.Sum256([]byte(content))
		hash := hex.EncodeToString(h[:])
		var milvusID int64
		if i < len(milvusIDs) {
			milvusID = milvusIDs[i]
		}
		pageIdx := ch.PageIndex
		records = append(records, model.Chunk{
			DocumentID:       docID,
			ChunkIndex:       ch.ChunkIndex,
			PageIndex:        &pageIdx,
			Content:          content,
			ContentPreview:   &contentPreview,
			TokenCount:       nil,
			MilvusCollection: collection,
			MilvusID:         milvusID,
			ContentHash:      hash,
		})
	}
	return database.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&records).Error
	})
}

// InsertImageAssets records the extracted images and their alt texts. refs
// and alts are parallel; empty alt texts are stored as-is so failed images
// remain visible.
func InsertImageAssets(db *gorm.DB, docID int64, refs []parse.ImageRef, alts []string) error {
	if len(refs) == 0 {
		return nil
	}
	now := time.Now()
	records := make([]model.ImageAsset, 0, len(refs))
	for i, ref := range refs {
		alt := ""
		if i < len(alts) {
			alt = alts[i]
		}
		records = append(records, model.ImageAsset{
			DocumentID: docID,
			Name:       ref.Name,
			PageIndex:  ref.Page,
			FilePath:   ref.Path,
			AltText:    alt,
			CreatedAt:  &now,
		})
	}
	return db.Create(&records).Error
}

// buildContentPreview sanitizes the preview to valid UTF-8 printable characters
// and truncates by runes to avoid splitting multi-byte sequences.
func buildContentPreview(s string, maxRunes int) string {
	var b strings.Builder
	b.Grow(len(s))
	count := 0
	for _, r := range s {
		if r == '\uFEFF' { // BOM
			continue
		}
		if r == '\n' || r == '\t' || r == '\r' {
			// keep common whitespace
		} else if !unicode.IsPrint(r) {
			continue
		}
		b.WriteRune(r)
		count++
		if count >= maxRunes {
			break
		}
	}
	return strings.TrimSpace(b.String())
}
