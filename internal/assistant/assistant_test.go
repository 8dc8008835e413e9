package assistant

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"document-assistant/internal/config"
	"document-assistant/internal/models"
)

// fakeLLM returns a canned response and records the last prompt.
type fakeLLM struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeLLM) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	if len(messages) > 0 && len(messages[0].Parts) > 0 {
		if text, ok := messages[0].Parts[0].(llms.TextContent); ok {
			f.lastPrompt = text.Text
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

type fakeEmbedder struct{}

func textVector(text string) []float32 {
	vec := make([]float32, 16)
	for _, b := range []byte(text) {
		vec[int(b)%len(vec)]++
	}
	return vec
}

func (fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = textVector(text)
	}
	return vectors, nil
}

func (fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return textVector(text), nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	return cfg
}

func embeddedChunks(contents ...string) []models.Chunk {
	chunks := make([]models.Chunk, len(contents))
	for i, content := range contents {
		chunks[i] = models.Chunk{Content: content, Embedding: textVector(content)}
	}
	return chunks
}

func TestSummaryTruncatesOverlongReply(t *testing.T) {
	cfg := testConfig(t)
	cfg.RAG.SummaryMaxWords = 5
	llm := &fakeLLM{response: "one two three four five six seven eight"}
	a := New(llm, fakeEmbedder{}, cfg)

	got, err := a.Summary(context.Background(), embeddedChunks("some content"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "one two three four five..."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSummaryPropagatesModelError(t *testing.T) {
	a := New(&fakeLLM{err: errors.New("boom")}, fakeEmbedder{}, testConfig(t))
	if _, err := a.Summary(context.Background(), embeddedChunks("c")); err == nil {
		t.Fatalf("expected error from failing model")
	}
}

func TestSummaryChunksRepresentativeSelection(t *testing.T) {
	chunks := embeddedChunks("c0", "c1", "c2", "c3", "c4", "c5", "c6", "c7")
	got := summaryChunks(chunks)
	// first 2, middle 2 (mid = 8/2-1 = 3), last 2
	want := []string{"c0", "c1", "c3", "c4", "c6", "c7"}
	if len(got) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Content != w {
			t.Fatalf("expected %v at %d, got %q", want, i, got[i].Content)
		}
	}
}

func TestSummaryChunksSmallDocument(t *testing.T) {
	chunks := embeddedChunks("c0", "c1", "c2")
	if got := summaryChunks(chunks); len(got) != 3 {
		t.Fatalf("expected all chunks for a small document, got %d", len(got))
	}
}

func TestAnswerGroundsOnRelevantChunks(t *testing.T) {
	llm := &fakeLLM{response: "  The capital is Paris.  "}
	a := New(llm, fakeEmbedder{}, testConfig(t))
	chunks := embeddedChunks(
		"paris is the capital of france",
		"completely different subject matter",
		"more unrelated filler text here",
		"and yet another block of text",
	)

	got, err := a.Answer(context.Background(), chunks, "paris is the capital of france")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Answer != "The capital is Paris." {
		t.Fatalf("expected trimmed answer, got %q", got.Answer)
	}
	if got.Source != "Based on 3 relevant sections from the document" {
		t.Fatalf("unexpected source: %q", got.Source)
	}
	if got.Confidence <= 0 {
		t.Fatalf("expected positive confidence, got %f", got.Confidence)
	}
	if !strings.Contains(llm.lastPrompt, "Chunk 1:") {
		t.Fatalf("prompt should number grounding chunks:\n%s", llm.lastPrompt)
	}
	if !strings.Contains(llm.lastPrompt, "paris is the capital of france") {
		t.Fatalf("prompt should contain the best-matching chunk:\n%s", llm.lastPrompt)
	}
}

func TestConfidence(t *testing.T) {
	if got := confidence(nil); got != 0 {
		t.Fatalf("expected 0 for no chunks, got %f", got)
	}

	long := strings.Repeat("x", 500)
	chunks := embeddedChunks(long, long, long)
	got := confidence(chunks)
	if got < 0.59 || got > 0.61 {
		t.Fatalf("expected confidence about 0.6, got %f", got)
	}

	// confidence caps at 0.8 regardless of chunk count
	many := embeddedChunks(long, long, long, long, long, long)
	if got := confidence(many); got > 0.8 {
		t.Fatalf("expected cap at 0.8, got %f", got)
	}
}
