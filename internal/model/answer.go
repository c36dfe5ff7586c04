package model

// NoSelection marks a question the learner has not answered.
const NoSelection = -1

// AnswerState is the per-question, per-session record of the learner's
// current choice and review flag. One exists for every question of the
// session's test, created unset at session start.
type AnswerState struct {
	SelectedOption  int  `json:"selected_option"` // option index, NoSelection when unset
	MarkedForReview bool `json:"marked_for_review"`
}

// Answered reports whether the learner has selected an option.
func (a AnswerState) Answered() bool {
	return a.SelectedOption != NoSelection
}

// NewAnswerSheet creates the full answer-state set for a test with n
// questions, every entry unset.
func NewAnswerSheet(n int) []AnswerState {
	sheet := make([]AnswerState, n)
	for i := range sheet {
		sheet[i].SelectedOption = NoSelection
	}
	return sheet
}
