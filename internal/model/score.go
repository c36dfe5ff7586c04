package model

type AnswerStatus string

const (
	StatusCorrect AnswerStatus = "correct"
	StatusWrong   AnswerStatus = "wrong"
	StatusSkipped AnswerStatus = "skipped"
)

type Marks struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Obtained float64 `json:"obtained"`
}

// DetailedAnswer is the scored outcome of one question, in the wire shape
// the submission sink expects.
type DetailedAnswer struct {
	QuestionID      string       `json:"question_id"`
	SelectedOptions []string     `json:"selected_options"`
	CorrectOptions  []string     `json:"correct_options"`
	IsCorrect       bool         `json:"is_correct"`
	Status          AnswerStatus `json:"status"`
	Marks           Marks        `json:"marks"`
	MarkedForReview bool         `json:"marked_for_review"`
}

// ScoreBreakdown is the deterministic result of scoring one session.
// Recomputing it from the same answer snapshot always yields the same value.
type ScoreBreakdown struct {
	TotalQuestions   int              `json:"total_questions"`
	CorrectAnswers   int              `json:"correct_answers"`
	WrongAnswers     int              `json:"wrong_answers"`
	SkippedQuestions int              `json:"skipped_questions"`
	Score            float64          `json:"score"`         // clamped at zero
	AverageScore     float64          `json:"average_score"` // percentage of max marks
	DetailedAnswers  []DetailedAnswer `json:"detailed_answers"`
}
