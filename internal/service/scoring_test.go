package service

import (
	"reflect"
	"testing"

	"examhall_backend/internal/model"
)

func mcq(id string, optionCount int, correct []string, positive, negative float64) model.Question {
	options := make([]model.QuestionOption, optionCount)
	for i := range options {
		options[i] = model.QuestionOption{ID: id + "-opt-" + model.OptionLetter(i), Content: "option " + model.OptionLetter(i)}
	}
	return model.Question{
		ID:             id,
		Content:        "question " + id,
		Options:        options,
		CorrectOptions: correct,
		PositiveMark:   positive,
		NegativeMark:   negative,
	}
}

func answered(index int) model.AnswerState {
	return model.AnswerState{SelectedOption: index}
}

func unanswered() model.AnswerState {
	return model.AnswerState{SelectedOption: model.NoSelection}
}

func TestScore_NegativeMarkingExample(t *testing.T) {
	// Four questions at one mark each, half-mark penalty: correct, wrong,
	// skipped, correct.
	test := &model.TestDefinition{
		ID: "t1",
		Questions: []model.Question{
			mcq("q1", 4, []string{"A"}, 1, 0.5),
			mcq("q2", 4, []string{"B"}, 1, 0.5),
			mcq("q3", 4, []string{"C"}, 1, 0.5),
			mcq("q4", 4, []string{"D"}, 1, 0.5),
		},
	}
	sheet := []model.AnswerState{answered(0), answered(2), unanswered(), answered(3)}

	got := Score(test, sheet)

	if got.CorrectAnswers != 2 || got.WrongAnswers != 1 || got.SkippedQuestions != 1 {
		t.Fatalf("counts = %d/%d/%d, want 2/1/1", got.CorrectAnswers, got.WrongAnswers, got.SkippedQuestions)
	}
	if got.Score != 1.5 {
		t.Errorf("score = %v, want 1.5", got.Score)
	}
	if got.AverageScore != 37.5 {
		t.Errorf("average = %v, want 37.5", got.AverageScore)
	}
}

func TestScore_CountsAlwaysSumToTotal(t *testing.T) {
	tests := []struct {
		name  string
		sheet []model.AnswerState
	}{
		{"all answered", []model.AnswerState{answered(0), answered(1), answered(2)}},
		{"all skipped", []model.AnswerState{unanswered(), unanswered(), unanswered()}},
		{"mixed", []model.AnswerState{answered(3), unanswered(), answered(0)}},
		{"short sheet treated as unset", []model.AnswerState{answered(0)}},
		{"nil sheet", nil},
	}

	test := &model.TestDefinition{
		ID: "t1",
		Questions: []model.Question{
			mcq("q1", 4, []string{"A"}, 1, 0),
			mcq("q2", 4, []string{"B"}, 2, 1),
			mcq("q3", 4, []string{"C", "D"}, 3, 0),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(test, tc.sheet)
			if sum := got.CorrectAnswers + got.WrongAnswers + got.SkippedQuestions; sum != got.TotalQuestions {
				t.Errorf("correct+wrong+skipped = %d, total = %d", sum, got.TotalQuestions)
			}
			if got.TotalQuestions != 3 {
				t.Errorf("total = %d, want 3", got.TotalQuestions)
			}
			if len(got.DetailedAnswers) != 3 {
				t.Errorf("details = %d, want 3", len(got.DetailedAnswers))
			}
		})
	}
}

func TestScore_SkippedIsNeverWrong(t *testing.T) {
	test := &model.TestDefinition{
		ID:        "t1",
		Questions: []model.Question{mcq("q1", 4, []string{"A"}, 5, 3)},
	}

	got := Score(test, []model.AnswerState{unanswered()})

	if got.WrongAnswers != 0 || got.SkippedQuestions != 1 {
		t.Fatalf("wrong=%d skipped=%d, want 0/1", got.WrongAnswers, got.SkippedQuestions)
	}
	detail := got.DetailedAnswers[0]
	if detail.Status != model.StatusSkipped {
		t.Errorf("status = %q, want skipped", detail.Status)
	}
	if detail.Marks.Obtained != 0 {
		t.Errorf("obtained = %v, want 0", detail.Marks.Obtained)
	}
	if len(detail.SelectedOptions) != 0 {
		t.Errorf("selected options = %v, want none", detail.SelectedOptions)
	}
}

func TestScore_FinalScoreClampedButDetailsAreNot(t *testing.T) {
	test := &model.TestDefinition{
		ID: "t1",
		Questions: []model.Question{
			mcq("q1", 4, []string{"A"}, 1, 2),
			mcq("q2", 4, []string{"A"}, 1, 2),
		},
	}
	// Both wrong: raw sum is -4, reported score must be 0.
	got := Score(test, []model.AnswerState{answered(1), answered(1)})

	if got.Score != 0 {
		t.Errorf("score = %v, want 0 after clamping", got.Score)
	}
	if got.AverageScore != 0 {
		t.Errorf("average = %v, want 0", got.AverageScore)
	}
	for i, d := range got.DetailedAnswers {
		if d.Marks.Obtained != -2 {
			t.Errorf("question %d obtained = %v, want -2", i, d.Marks.Obtained)
		}
	}
}

func TestScore_MultiCorrectAcceptsAnyMemberLetter(t *testing.T) {
	test := &model.TestDefinition{
		ID:        "t1",
		Questions: []model.Question{mcq("q1", 4, []string{"B", "D"}, 2, 1)},
	}

	for _, tc := range []struct {
		option int
		status model.AnswerStatus
	}{
		{1, model.StatusCorrect},
		{3, model.StatusCorrect},
		{0, model.StatusWrong},
	} {
		got := Score(test, []model.AnswerState{answered(tc.option)})
		if got.DetailedAnswers[0].Status != tc.status {
			t.Errorf("option %d: status = %q, want %q", tc.option, got.DetailedAnswers[0].Status, tc.status)
		}
	}
}

func TestScore_ZeroMaxMarksYieldsZeroPercentage(t *testing.T) {
	test := &model.TestDefinition{
		ID:        "t1",
		Questions: []model.Question{mcq("q1", 2, []string{"A"}, 0, 0)},
	}

	got := Score(test, []model.AnswerState{answered(0)})
	if got.AverageScore != 0 {
		t.Errorf("average = %v, want 0 when max marks is 0", got.AverageScore)
	}
}

func TestScore_QuestionWithNoOptionsDegrades(t *testing.T) {
	test := &model.TestDefinition{
		ID: "t1",
		Questions: []model.Question{
			mcq("q1", 0, nil, 1, 0),
			mcq("q2", 4, []string{"A"}, 1, 0),
		},
	}

	got := Score(test, []model.AnswerState{unanswered(), answered(0)})
	if got.CorrectAnswers != 1 || got.SkippedQuestions != 1 {
		t.Fatalf("correct=%d skipped=%d, want 1/1", got.CorrectAnswers, got.SkippedQuestions)
	}
}

func TestScore_Deterministic(t *testing.T) {
	test := &model.TestDefinition{
		ID: "t1",
		Questions: []model.Question{
			mcq("q1", 4, []string{"A"}, 1, 0.25),
			mcq("q2", 4, []string{"B"}, 2, 0.5),
			mcq("q3", 4, []string{"C"}, 3, 1),
		},
	}
	sheet := []model.AnswerState{answered(0), answered(3), {SelectedOption: model.NoSelection, MarkedForReview: true}}

	first := Score(test, sheet)
	second := Score(test, sheet)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("two runs over the same snapshot differ:\n%+v\n%+v", first, second)
	}
	if !first.DetailedAnswers[2].MarkedForReview {
		t.Errorf("review flag lost in detail")
	}
}

func TestOptionLetter(t *testing.T) {
	for _, tc := range []struct {
		index int
		want  string
	}{
		{0, "A"}, {1, "B"}, {25, "Z"}, {26, "AA"}, {-1, ""},
	} {
		if got := model.OptionLetter(tc.index); got != tc.want {
			t.Errorf("OptionLetter(%d) = %q, want %q", tc.index, got, tc.want)
		}
	}
}
