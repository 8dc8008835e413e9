package models

// Chunk is a contiguous segment of a processed document. StartPos and EndPos
// are best-effort character offsets into the cleaned document text; once
// overlap text is reinserted at a chunk boundary they no longer round-trip
// exactly. The embedding is set once after chunking and never mutated.
type Chunk struct {
	Content    string
	PageNumber int // 0 when the source has no pages (plain text)
	StartPos   int
	EndPos     int
	Embedding  []float32
}

// ChunkView is the external representation of a chunk. The embedding vector
// is an internal artifact and is never exposed to API clients.
type ChunkView struct {
	Content    string `json:"content"`
	PageNumber int    `json:"page_number,omitempty"`
	StartPos   int    `json:"start_pos"`
	EndPos     int    `json:"end_pos"`
}

func (c Chunk) View() ChunkView {
	return ChunkView{
		Content:    c.Content,
		PageNumber: c.PageNumber,
		StartPos:   c.StartPos,
		EndPos:     c.EndPos,
	}
}

// ChunkViews converts a chunk sequence to its external representation,
// preserving order.
func ChunkViews(chunks []Chunk) []ChunkView {
	views := make([]ChunkView, len(chunks))
	for i, c := range chunks {
		views[i] = c.View()
	}
	return views
}
