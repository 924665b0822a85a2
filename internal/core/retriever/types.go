package retriever

// Filters narrows a search to a subset of documents. An empty filter
// matches everything.
type Filters struct {
	DocIDs []int64
}

// Hit is one scored search result with the scalar columns stored next to
// the vector.
type Hit struct {
	ChunkID    int64   `json:"chunk_id"`
	Score      float32 `json:"score"`
	DocID      int64   `json:"doc_id"`
	PageIndex  int32   `json:"page_index"`
	ChunkIndex int32   `json:"chunk_index"`
	Content    string  `json:"content"`
}
