package assistant

import (
	"context"
	"strings"
	"testing"
)

const validChallengeJSON = `[
  {"id": 1, "question": "Why does X cause Y?", "expected_answer": "Because Z", "explanation": "Section 2 states Z"},
  {"id": 2, "question": "Compare A and B", "expected_answer": "A is larger", "explanation": "Table 1"}
]`

func TestGenerateChallengeParsesJSON(t *testing.T) {
	llm := &fakeLLM{response: validChallengeJSON}
	a := New(llm, fakeEmbedder{}, testConfig(t))

	got, err := a.GenerateChallenge(context.Background(), embeddedChunks("c0", "c1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got))
	}
	if got[0].Question != "Why does X cause Y?" || got[0].ExpectedAnswer != "Because Z" {
		t.Fatalf("unexpected first question: %+v", got[0])
	}
}

func TestGenerateChallengeParsesFencedResponse(t *testing.T) {
	llm := &fakeLLM{response: "<think>planning the questions</think>\n```json\n" + validChallengeJSON + "\n```"}
	a := New(llm, fakeEmbedder{}, testConfig(t))

	got, err := a.GenerateChallenge(context.Background(), embeddedChunks("c0"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 questions from fenced response, got %d", len(got))
	}
}

func TestGenerateChallengeFallbackOnGarbage(t *testing.T) {
	llm := &fakeLLM{response: "I'm sorry, I can't produce JSON today."}
	a := New(llm, fakeEmbedder{}, testConfig(t))

	got, err := a.GenerateChallenge(context.Background(), embeddedChunks("c0"))
	if err != nil {
		t.Fatalf("fallback must not surface an error, got %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 fallback questions, got %d", len(got))
	}
	if got[0].ID != 1 || got[2].ID != 3 {
		t.Fatalf("fallback questions must carry ids 1..3, got %+v", got)
	}
}

func TestGenerateChallengeFallbackOnEmptyArray(t *testing.T) {
	llm := &fakeLLM{response: "[]"}
	a := New(llm, fakeEmbedder{}, testConfig(t))

	got, err := a.GenerateChallenge(context.Background(), embeddedChunks("c0"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected fallback questions for empty array, got %d", len(got))
	}
}

func TestEvaluateParsesJSON(t *testing.T) {
	llm := &fakeLLM{response: `{"score": 85, "feedback": "Mostly right", "correct_answer": "Because Z", "document_reference": "Section 2"}`}
	a := New(llm, fakeEmbedder{}, testConfig(t))
	chunks := embeddedChunks("section two explains Z", "other text")
	question := fallbackQuestions()[0]

	got, err := a.Evaluate(context.Background(), chunks, question, "I think Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Score != 85 || got.Feedback != "Mostly right" {
		t.Fatalf("unexpected evaluation: %+v", got)
	}
	if got.DocumentReference != "Section 2" {
		t.Fatalf("unexpected document reference: %q", got.DocumentReference)
	}
}

func TestEvaluateFallbackOnGarbage(t *testing.T) {
	llm := &fakeLLM{response: "not json at all"}
	a := New(llm, fakeEmbedder{}, testConfig(t))
	chunks := embeddedChunks("some content")
	question := fallbackQuestions()[0]

	got, err := a.Evaluate(context.Background(), chunks, question, "my answer")
	if err != nil {
		t.Fatalf("fallback must not surface an error, got %v", err)
	}
	if got.Score != 0 {
		t.Fatalf("expected zero score, got %d", got.Score)
	}
	if got.CorrectAnswer != question.ExpectedAnswer {
		t.Fatalf("fallback should carry the expected answer, got %q", got.CorrectAnswer)
	}
}

func TestEvaluateFillsMissingFields(t *testing.T) {
	llm := &fakeLLM{response: `{"score": 40, "feedback": "Partial"}`}
	a := New(llm, fakeEmbedder{}, testConfig(t))
	question := fallbackQuestions()[1]

	got, err := a.Evaluate(context.Background(), embeddedChunks("c0"), question, "answer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CorrectAnswer != question.ExpectedAnswer {
		t.Fatalf("missing correct_answer should default to the expected answer, got %q", got.CorrectAnswer)
	}
	if got.DocumentReference == "" {
		t.Fatalf("missing document_reference should get a default")
	}
}

func TestSanitizeModelJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"think block", "<think>reasoning\nacross lines</think>{\"a\":1}", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := sanitizeModelJSON(tc.in); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestChallengePromptRequestsConfiguredCount(t *testing.T) {
	cfg := testConfig(t)
	cfg.RAG.ChallengeCount = 7
	llm := &fakeLLM{response: validChallengeJSON}
	a := New(llm, fakeEmbedder{}, cfg)

	if _, err := a.GenerateChallenge(context.Background(), embeddedChunks("c0")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(llm.lastPrompt, "exactly 7 challenging questions") {
		t.Fatalf("prompt should request 7 questions:\n%s", llm.lastPrompt)
	}
}
