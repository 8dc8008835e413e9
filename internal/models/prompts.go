package models

const (
	// ContextSeparator joins chunk contents when they are handed to the
	// inference model as grounding context.
	ContextSeparator = "\n\n"

	// ThinkTag matches reasoning blocks some models emit before the actual
	// answer. Stripped before structured responses are parsed.
	ThinkTag = `(?s)<think>.*?</think>`
)

var (
	SummaryPromptTemplate = `Please provide a concise summary of this document in exactly %d words or fewer.
Focus on the main topics, key findings, and important conclusions.

Document content:
%s

Summary (no more than %d words):
`

	AnswerPromptTemplate = `Based on the following document excerpts, please answer the question accurately and concisely.

Document excerpts:
%s

Question: %s

Instructions:
1. Answer based ONLY on the information provided in the document excerpts
2. If the answer cannot be found in the excerpts, say "I cannot find this information in the provided document"
3. Include a brief justification explaining which part of the document supports your answer
4. Be specific and accurate

Answer:
`

	ChallengePromptTemplate = `Based on the following document, create exactly %d challenging questions that test comprehension and logical reasoning.

Document content:
%s

Requirements for each question:
1. Require deep understanding, not just surface-level reading
2. Test logical reasoning, inference, or analysis
3. Have clear, specific answers that can be found in the document
4. Be challenging but fair
5. Include questions that test cause-and-effect, comparison, or implication

Format your response as a JSON array with this structure:
[
  {
    "id": 1,
    "question": "Your question here",
    "expected_answer": "The correct answer",
    "explanation": "Why this is the correct answer with document reference"
  }
]

Questions:
`

	EvaluatePromptTemplate = `Evaluate the user's answer to the following question based on the document content.

Document context:
%s

Question: %s
Expected answer: %s
User's answer: %s

Instructions:
1. Score the answer from 0-100 based on accuracy and completeness
2. Consider partial credit for partially correct answers
3. Provide constructive feedback
4. Reference specific parts of the document that support the correct answer

Respond in JSON format:
{
  "score": 85,
  "feedback": "Your detailed feedback here",
  "correct_answer": "The complete correct answer",
  "document_reference": "Which part of the document supports this"
}

Evaluation:
`
)
