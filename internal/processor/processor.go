package processor

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"document-assistant/internal/chunker"
	"document-assistant/internal/config"
	"document-assistant/internal/embedding"
	"document-assistant/internal/extractor"
	"document-assistant/internal/models"
)

// Processor runs the ingestion pipeline: extract, clean, chunk, embed.
// It is stateless between calls; independent documents can be processed
// concurrently.
type Processor struct {
	chunker  *chunker.Chunker
	embedder embeddings.Embedder
}

func New(tok chunker.Tokenizer, embedder embeddings.Embedder, cfg *config.RAGConfig) *Processor {
	return &Processor{
		chunker:  chunker.New(tok, cfg.ChunkMaxTokens, cfg.ChunkOverlapTokens),
		embedder: embedder,
	}
}

// Process ingests the document at path and returns its embedded chunk
// sequence, ready for storage by the session layer. No chunk is retrievable
// until the whole document is embedded; on embedding failure nothing is
// returned.
func (p *Processor) Process(ctx context.Context, path string) ([]models.Chunk, error) {
	text, err := extractor.Extract(path)
	if err != nil {
		return nil, err
	}

	chunks := p.chunker.Chunk(extractor.Clean(text))
	if len(chunks) == 0 {
		log.Info().Str("file", filepath.Base(path)).Msg("document produced no chunks")
		return nil, nil
	}

	if err := embedding.EmbedChunks(ctx, p.embedder, chunks); err != nil {
		return nil, err
	}

	log.Debug().
		Str("file", filepath.Base(path)).
		Int("chunks", len(chunks)).
		Msg("document processed")
	return chunks, nil
}
