package model

import "time"

// User owns uploaded documents and query history. A default user is created
// lazily when no authentication is in front of the API.
type User struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email     string     `gorm:"column:email;uniqueIndex;size:255" json:"email"`
	CreatedAt *time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "users" }

// Document is the registry row for an uploaded file. FilePath is either a
// local path or an s3:// URL. Status transitions:
// uploaded -> processing -> ready | failed.
type Document struct {
	ID               int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID           int64      `gorm:"column:user_id;index" json:"user_id"`
	OriginalFilename *string    `gorm:"column:original_filename;size:512" json:"original_filename"`
	FilePath         *string    `gorm:"column:file_path;size:1024" json:"file_path"`
	Sha256           *string    `gorm:"column:sha256;size:64" json:"sha256"`
	Status           string     `gorm:"column:status;size:32;default:uploaded" json:"status"`
	UploadedAt       *time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
}

func (Document) TableName() string { return "documents" }

// Chunk is one indexed slice of a document, mirrored into Milvus under
// MilvusID in MilvusCollection.
type Chunk struct {
	ID               int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	DocumentID       int64   `gorm:"column:document_id;index" json:"document_id"`
	ChunkIndex       int32   `gorm:"column:chunk_index" json:"chunk_index"`
	PageIndex        *int32  `gorm:"column:page_index" json:"page_index"`
	Content          string  `gorm:"column:content;type:mediumtext" json:"content"`
	ContentPreview   *string `gorm:"column:content_preview;size:512" json:"content_preview"`
	TokenCount       *int32  `gorm:"column:token_count" json:"token_count"`
	MilvusCollection string  `gorm:"column:milvus_collection;size:255" json:"milvus_collection"`
	MilvusID         int64   `gorm:"column:milvus_id" json:"milvus_id"`
	ContentHash      string  `gorm:"column:content_hash;size:64" json:"content_hash"`
}

func (Chunk) TableName() string { return "chunks" }

// ImageAsset is an image extracted from a parsed document together with the
// alt text produced by the multimodal model.
type ImageAsset struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	DocumentID int64      `gorm:"column:document_id;index" json:"document_id"`
	Name       string     `gorm:"column:name;size:512" json:"name"`
	PageIndex  int32      `gorm:"column:page_index" json:"page_index"`
	FilePath   string     `gorm:"column:file_path;size:1024" json:"file_path"`
	AltText    string     `gorm:"column:alt_text;type:text" json:"alt_text"`
	CreatedAt  *time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ImageAsset) TableName() string { return "image_assets" }

// Message is the query audit trail: the question, the generated answer and
// the context snippets the answer was grounded on.
type Message struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID     int64      `gorm:"column:user_id;index" json:"user_id"`
	Role       string     `gorm:"column:role;size:32" json:"role"`
	Content    string     `gorm:"column:content;type:mediumtext" json:"content"`
	DocumentID *int64     `gorm:"column:document_id" json:"document_id"`
	CreatedAt  *time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Message) TableName() string { return "messages" }
