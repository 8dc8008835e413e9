package models

// Answer is the result of a grounded question-answering call.
type Answer struct {
	Answer     string  `json:"answer"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// ChallengeQuestion is a generated comprehension question. The JSON tags
// match the structured format the inference model is asked to produce.
type ChallengeQuestion struct {
	ID             int    `json:"id"`
	Question       string `json:"question"`
	ExpectedAnswer string `json:"expected_answer"`
	Explanation    string `json:"explanation"`
}

// Evaluation is the scored result of a challenge answer.
type Evaluation struct {
	Score             int    `json:"score"`
	Feedback          string `json:"feedback"`
	CorrectAnswer     string `json:"correct_answer"`
	DocumentReference string `json:"document_reference"`
}
