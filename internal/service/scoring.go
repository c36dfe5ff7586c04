package service

import "examhall_backend/internal/model"

// Score is the single authoritative scoring computation. It is a pure
// function over an immutable test definition and an answer-state snapshot:
// the same inputs always produce the same breakdown, and it never errors,
// whatever shape the upstream data is in.
//
// Per question, in order: an unset selection is skipped and worth nothing;
// otherwise the selected index is converted to its letter and checked
// against the correct-option set. Correct adds the positive mark, wrong
// subtracts the negative mark. The final score is clamped at zero but the
// per-question obtained marks are not, so a single question may contribute
// a negative amount to the pre-clamp sum.
func Score(test *model.TestDefinition, sheet []model.AnswerState) model.ScoreBreakdown {
	breakdown := model.ScoreBreakdown{
		TotalQuestions:  len(test.Questions),
		DetailedAnswers: make([]model.DetailedAnswer, 0, len(test.Questions)),
	}

	var raw float64
	for i, q := range test.Questions {
		var state model.AnswerState
		state.SelectedOption = model.NoSelection
		if i < len(sheet) {
			state = sheet[i]
		}

		detail := model.DetailedAnswer{
			QuestionID:      q.ID,
			SelectedOptions: []string{},
			CorrectOptions:  append([]string{}, q.CorrectOptions...),
			Status:          model.StatusSkipped,
			Marks: model.Marks{
				Positive: q.PositiveMark,
				Negative: q.NegativeMark,
			},
			MarkedForReview: state.MarkedForReview,
		}

		if !state.Answered() {
			breakdown.SkippedQuestions++
			breakdown.DetailedAnswers = append(breakdown.DetailedAnswers, detail)
			continue
		}

		letter := model.OptionLetter(state.SelectedOption)
		detail.SelectedOptions = []string{letter}

		if q.HasCorrectOption(letter) {
			detail.IsCorrect = true
			detail.Status = model.StatusCorrect
			detail.Marks.Obtained = q.PositiveMark
			breakdown.CorrectAnswers++
			raw += q.PositiveMark
		} else {
			detail.Status = model.StatusWrong
			detail.Marks.Obtained = -q.NegativeMark
			breakdown.WrongAnswers++
			raw -= q.NegativeMark
		}

		breakdown.DetailedAnswers = append(breakdown.DetailedAnswers, detail)
	}

	if raw < 0 {
		raw = 0
	}
	breakdown.Score = raw

	if max := test.MaxMarks(); max > 0 {
		breakdown.AverageScore = raw / max * 100
	}

	return breakdown
}
