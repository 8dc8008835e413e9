package retriever

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/embeddings"

	"document-assistant/internal/models"
)

// DefaultTopK is the retrieval depth used when the caller passes none.
const DefaultTopK = 5

// FindRelevant embeds the query and returns up to topK chunks ranked by
// cosine similarity, descending. Ties keep original document order. Zero
// chunks yield an empty result, not an error.
func FindRelevant(ctx context.Context, embedder embeddings.Embedder, chunks []models.Chunk, query string, topK int) ([]models.Chunk, error) {
	if len(chunks) == 0 {
		return nil, nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	queryVec, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	scores := make([]float64, len(chunks))
	order := make([]int, len(chunks))
	for i := range chunks {
		scores[i] = Cosine(queryVec, chunks[i].Embedding)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if topK > len(order) {
		topK = len(order)
	}
	result := make([]models.Chunk, topK)
	for i, j := range order[:topK] {
		result[i] = chunks[j]
	}
	return result, nil
}

// Cosine computes the cosine similarity of two vectors. A zero-norm vector
// has similarity 0 with anything, so degenerate embeddings sort last instead
// of producing NaN.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SelectDiverse deterministically samples count chunks spread across the
// whole document: indices 0, step, 2*step, ... with step = len/count. It is
// independent of embeddings and preserves document order. When the document
// has no more chunks than requested, all of them are returned unmodified.
func SelectDiverse(chunks []models.Chunk, count int) []models.Chunk {
	if count <= 0 {
		return nil
	}
	if len(chunks) <= count {
		return chunks
	}
	step := len(chunks) / count
	selected := make([]models.Chunk, 0, count)
	for i := 0; i < count; i++ {
		idx := i * step
		if idx >= len(chunks) {
			break
		}
		selected = append(selected, chunks[idx])
	}
	return selected
}

// ContextWindow returns the concatenated contents of the 2*size+1 chunks
// centered on target in document order, clamped at the sequence boundaries.
func ContextWindow(chunks []models.Chunk, target, size int) string {
	if len(chunks) == 0 || target < 0 || target >= len(chunks) {
		return ""
	}
	start := target - size
	if start < 0 {
		start = 0
	}
	end := target + size + 1
	if end > len(chunks) {
		end = len(chunks)
	}
	parts := make([]string, 0, end-start)
	for _, c := range chunks[start:end] {
		parts = append(parts, c.Content)
	}
	return strings.Join(parts, models.ContextSeparator)
}
