package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"document-assistant/internal/config"
	"document-assistant/internal/models"
	"document-assistant/internal/retriever"
)

// Temperatures per task: factual tasks run cold, question generation warm.
const (
	summaryTemperature   = 0.3
	qaTemperature        = 0.1
	challengeTemperature = 0.7
	evaluateTemperature  = 0.1
)

// Generator is the slice of the inference model the assistant needs. The
// langchaingo LLM clients satisfy it.
type Generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Assistant produces summaries, grounded answers, challenge questions and
// answer evaluations over a session's chunk sequence. It holds no per-session
// state; chunk sequences are passed in by the caller.
type Assistant struct {
	llm      Generator
	embedder embeddings.Embedder
	cfg      *config.Config
}

func New(llm Generator, embedder embeddings.Embedder, cfg *config.Config) *Assistant {
	return &Assistant{llm: llm, embedder: embedder, cfg: cfg}
}

// NewLLM creates the inference model client from config.
func NewLLM(cfg *config.LLMConfig) (Generator, error) {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	return openai.New(opts...)
}

func (a *Assistant) generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
	res, err := a.llm.GenerateContent(ctx, messages, llms.WithTemperature(temperature))
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", errors.New("empty model response")
	}
	return res.Choices[0].Content, nil
}

// Summary generates a bounded-length summary over representative chunks:
// the whole document when it is small, otherwise the first two, middle two
// and last two chunks. Overlong replies are hard-truncated to the word limit.
func (a *Assistant) Summary(ctx context.Context, chunks []models.Chunk) (string, error) {
	maxWords := a.cfg.RAG.SummaryMaxWords
	combined := joinContents(summaryChunks(chunks))

	prompt := fmt.Sprintf(models.SummaryPromptTemplate, maxWords, combined, maxWords)
	text, err := a.generate(ctx, prompt, summaryTemperature)
	if err != nil {
		return "", fmt.Errorf("generating summary: %w", err)
	}
	return truncateWords(strings.TrimSpace(text), maxWords), nil
}

// Answer answers a free-form question from the top-ranked chunks only.
func (a *Assistant) Answer(ctx context.Context, chunks []models.Chunk, question string) (models.Answer, error) {
	relevant, err := retriever.FindRelevant(ctx, a.embedder, chunks, question, a.cfg.RAG.QATopK)
	if err != nil {
		return models.Answer{}, err
	}

	var context strings.Builder
	for i, c := range relevant {
		fmt.Fprintf(&context, "Chunk %d:\n%s\n\n", i+1, c.Content)
	}

	prompt := fmt.Sprintf(models.AnswerPromptTemplate, context.String(), question)
	text, err := a.generate(ctx, prompt, qaTemperature)
	if err != nil {
		return models.Answer{}, fmt.Errorf("answering question: %w", err)
	}

	return models.Answer{
		Answer:     strings.TrimSpace(text),
		Source:     fmt.Sprintf("Based on %d relevant sections from the document", len(relevant)),
		Confidence: confidence(relevant),
	}, nil
}

// confidence is a heuristic over the grounding set: more chunks and longer
// chunks mean more support for the answer.
func confidence(chunks []models.Chunk) float64 {
	if len(chunks) == 0 {
		return 0
	}
	base := float64(len(chunks)) * 0.2
	if base > 0.8 {
		base = 0.8
	}
	total := 0
	for _, c := range chunks {
		total += len(c.Content)
	}
	lengthFactor := float64(total) / float64(len(chunks)) / 500
	if lengthFactor > 1 {
		lengthFactor = 1
	}
	return base * lengthFactor
}

// summaryChunks picks the representative chunks a summary is built from.
func summaryChunks(chunks []models.Chunk) []models.Chunk {
	if len(chunks) <= 5 {
		return chunks
	}
	selected := make([]models.Chunk, 0, 6)
	selected = append(selected, chunks[:2]...)
	mid := len(chunks)/2 - 1
	selected = append(selected, chunks[mid:mid+2]...)
	selected = append(selected, chunks[len(chunks)-2:]...)
	return selected
}

func joinContents(chunks []models.Chunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Content
	}
	return strings.Join(parts, models.ContextSeparator)
}

func truncateWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
