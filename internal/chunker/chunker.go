package chunker

import (
	"regexp"
	"strconv"
	"strings"

	"document-assistant/internal/models"
)

const (
	DefaultMaxTokens     = 1000
	DefaultOverlapTokens = 200
)

// Tokenizer is the narrow tokenization surface the chunker depends on. Token
// count is the authoritative size metric because downstream generation calls
// are token-budgeted.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

// Chunker splits normalized text into token-bounded overlapping chunks.
// Paragraphs are the unit of atomic movement: they are never split across
// chunk boundaries, so a paragraph larger than maxTokens becomes a single
// oversized chunk.
type Chunker struct {
	tok           Tokenizer
	maxTokens     int
	overlapTokens int
}

func New(tok Tokenizer, maxTokens, overlapTokens int) *Chunker {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if overlapTokens < 0 {
		overlapTokens = 0
	}
	if overlapTokens >= maxTokens {
		overlapTokens = maxTokens / 2
	}
	return &Chunker{tok: tok, maxTokens: maxTokens, overlapTokens: overlapTokens}
}

var pageMarker = regexp.MustCompile(`--- Page (\d+) ---`)

// Chunk splits text on blank-line boundaries and accumulates paragraphs into
// chunks of at most maxTokens tokens. When a chunk is finalized, the next one
// is seeded with the decoded last overlapTokens tokens of it so local context
// survives the boundary. Character offsets are best-effort once overlap text
// is reinserted. Empty input yields no chunks.
func (c *Chunker) Chunk(text string) []models.Chunk {
	var chunks []models.Chunk

	paragraphs := strings.Split(text, "\n\n")

	var current string
	currentTokens := 0
	startPos := 0
	page := 0      // last page marker seen so far
	chunkPage := 0 // page in effect where the current buffer began

	for _, paragraph := range paragraphs {
		if n, ok := lastPageMarker(paragraph); ok {
			page = n
		}
		paragraphTokens := len(c.tok.Encode(paragraph))

		if currentTokens+paragraphTokens > c.maxTokens && current != "" {
			chunks = append(chunks, models.Chunk{
				Content:    strings.TrimSpace(current),
				PageNumber: chunkPage,
				StartPos:   startPos,
				EndPos:     startPos + len(current),
			})

			overlap := c.overlapTail(current)
			current = overlap + " " + paragraph
			currentTokens = len(c.tok.Encode(current))
			startPos = startPos + len(current) - len(overlap)
			chunkPage = page
			continue
		}

		if current != "" {
			current += "\n\n" + paragraph
		} else {
			current = paragraph
			chunkPage = page
		}
		currentTokens += paragraphTokens
	}

	if current != "" {
		chunks = append(chunks, models.Chunk{
			Content:    strings.TrimSpace(current),
			PageNumber: chunkPage,
			StartPos:   startPos,
			EndPos:     startPos + len(current),
		})
	}

	return chunks
}

// overlapTail returns the text of the last overlapTokens tokens of a chunk,
// or the whole chunk when it is shorter than that.
func (c *Chunker) overlapTail(text string) string {
	if c.overlapTokens == 0 {
		return ""
	}
	tokens := c.tok.Encode(text)
	if len(tokens) <= c.overlapTokens {
		return text
	}
	return c.tok.Decode(tokens[len(tokens)-c.overlapTokens:])
}

func lastPageMarker(paragraph string) (int, bool) {
	matches := pageMarker.FindAllStringSubmatch(paragraph, -1)
	if len(matches) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil {
		return 0, false
	}
	return n, true
}
