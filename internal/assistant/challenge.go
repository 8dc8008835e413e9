package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"document-assistant/internal/models"
	"document-assistant/internal/retriever"
)

const challengeSourceChunks = 5

var thinkTag = regexp.MustCompile(models.ThinkTag)

// GenerateChallenge creates comprehension questions from chunks sampled
// across the whole document. When the model's structured response cannot be
// parsed, a deterministic set of canned questions is returned instead of an
// error.
func (a *Assistant) GenerateChallenge(ctx context.Context, chunks []models.Chunk) ([]models.ChallengeQuestion, error) {
	selected := retriever.SelectDiverse(chunks, challengeSourceChunks)
	combined := joinContents(selected)

	prompt := fmt.Sprintf(models.ChallengePromptTemplate, a.cfg.RAG.ChallengeCount, combined)
	text, err := a.generate(ctx, prompt, challengeTemperature)
	if err != nil {
		return nil, fmt.Errorf("generating challenge questions: %w", err)
	}

	questions, err := parseChallenge(text)
	if err != nil {
		log.Warn().Err(err).Msg("unparsable challenge response, using fallback questions")
		return fallbackQuestions(), nil
	}
	return questions, nil
}

// Evaluate scores a user's answer to a stored challenge question against the
// chunks most relevant to that question. An unparsable model response falls
// back to a zero-score result carrying the expected answer.
func (a *Assistant) Evaluate(ctx context.Context, chunks []models.Chunk, question models.ChallengeQuestion, userAnswer string) (models.Evaluation, error) {
	relevant, err := retriever.FindRelevant(ctx, a.embedder, chunks, question.Question, a.cfg.RAG.QATopK)
	if err != nil {
		return models.Evaluation{}, err
	}
	context := joinContents(relevant)

	prompt := fmt.Sprintf(models.EvaluatePromptTemplate, context, question.Question, question.ExpectedAnswer, userAnswer)
	text, err := a.generate(ctx, prompt, evaluateTemperature)
	if err != nil {
		return models.Evaluation{}, fmt.Errorf("evaluating answer: %w", err)
	}

	evaluation, err := parseEvaluation(text)
	if err != nil {
		log.Warn().Err(err).Msg("unparsable evaluation response, using fallback")
		return models.Evaluation{
			Score:             0,
			Feedback:          "Error evaluating answer",
			CorrectAnswer:     question.ExpectedAnswer,
			DocumentReference: "Error processing evaluation",
		}, nil
	}
	if evaluation.CorrectAnswer == "" {
		evaluation.CorrectAnswer = question.ExpectedAnswer
	}
	if evaluation.DocumentReference == "" {
		evaluation.DocumentReference = "Document reference not available"
	}
	return evaluation, nil
}

func parseChallenge(raw string) ([]models.ChallengeQuestion, error) {
	var questions []models.ChallengeQuestion
	if err := json.Unmarshal([]byte(sanitizeModelJSON(raw)), &questions); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, errors.New("no questions in response")
	}
	return questions, nil
}

func parseEvaluation(raw string) (models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := json.Unmarshal([]byte(sanitizeModelJSON(raw)), &evaluation); err != nil {
		return models.Evaluation{}, err
	}
	return evaluation, nil
}

// sanitizeModelJSON strips reasoning blocks and markdown code fences models
// commonly wrap structured output in.
func sanitizeModelJSON(raw string) string {
	raw = thinkTag.ReplaceAllString(raw, "")
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		if idx := strings.LastIndex(raw, "```"); idx >= 0 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}

func fallbackQuestions() []models.ChallengeQuestion {
	return []models.ChallengeQuestion{
		{
			ID:             1,
			Question:       "What is the main topic discussed in this document?",
			ExpectedAnswer: "Please refer to the document content",
			Explanation:    "This question tests basic comprehension of the document's main theme",
		},
		{
			ID:             2,
			Question:       "What are the key findings or conclusions mentioned?",
			ExpectedAnswer: "Please refer to the document content",
			Explanation:    "This question tests understanding of important results or conclusions",
		},
		{
			ID:             3,
			Question:       "How do the different sections of the document relate to each other?",
			ExpectedAnswer: "Please refer to the document content",
			Explanation:    "This question tests logical reasoning and document structure understanding",
		},
	}
}
