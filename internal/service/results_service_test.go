package service

import (
	"testing"
	"time"

	"examhall_backend/internal/model"
)

func TestBuildReview_JoinsRecordWithDefinition(t *testing.T) {
	test := &model.TestDefinition{
		ID: "test-1",
		Questions: []model.Question{
			mcq("q1", 4, []string{"A"}, 1, 0.5),
			mcq("q2", 4, []string{"B"}, 1, 0.5),
			mcq("q3", 4, []string{"C"}, 1, 0.5),
		},
	}
	test.Questions[0].Explanation = "first option by definition"

	sheet := []model.AnswerState{
		{SelectedOption: 0},                        // correct
		{SelectedOption: 3, MarkedForReview: true}, // wrong, flagged
		{SelectedOption: model.NoSelection},        // skipped
	}
	breakdown := Score(test, sheet)
	record, err := BuildSubmissionRecord(test, "u-1", breakdown, 60, time.Now())
	if err != nil {
		t.Fatalf("BuildSubmissionRecord: %v", err)
	}

	rows := BuildReview(record, test)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	correct := 0
	for _, row := range rows {
		if row.Status == model.StatusCorrect {
			correct++
		}
	}
	if correct != record.CorrectAnswers {
		t.Errorf("correct rows = %d, record says %d", correct, record.CorrectAnswers)
	}

	if rows[0].Status != model.StatusCorrect || rows[0].SelectedOption != "A" || !rows[0].Attempted {
		t.Errorf("row 0 = %+v, want attempted correct A", rows[0])
	}
	if rows[0].Explanation != "first option by definition" {
		t.Errorf("row 0 explanation = %q", rows[0].Explanation)
	}
	if rows[0].MarksObtained != 1 {
		t.Errorf("row 0 marks = %v, want 1", rows[0].MarksObtained)
	}

	if rows[1].Status != model.StatusWrong || rows[1].SelectedOption != "D" {
		t.Errorf("row 1 = %+v, want wrong D", rows[1])
	}
	if !rows[1].MarkedForReview {
		t.Error("row 1 lost the review flag")
	}
	if rows[1].MarksObtained != -0.5 {
		t.Errorf("row 1 marks = %v, want -0.5", rows[1].MarksObtained)
	}

	if rows[2].Status != model.StatusSkipped || rows[2].Attempted || rows[2].SelectedOption != "" {
		t.Errorf("row 2 = %+v, want unattempted skipped", rows[2])
	}
}

func TestBuildReview_UnknownQuestionDegradesToSkipped(t *testing.T) {
	test := &model.TestDefinition{
		ID: "test-1",
		Questions: []model.Question{
			mcq("q1", 4, []string{"A"}, 1, 0),
			mcq("q-new", 4, []string{"B"}, 1, 0), // added after the submission
		},
	}

	record := &model.SubmissionRecord{
		User: "u-1",
		Test: "test-1",
		DetailedAnswers: []model.DetailedAnswer{
			{QuestionID: "q1", SelectedOptions: []string{"A"}, IsCorrect: true, Status: model.StatusCorrect, Marks: model.Marks{Obtained: 1}},
		},
	}

	rows := BuildReview(record, test)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[1].Status != model.StatusSkipped || rows[1].Attempted {
		t.Errorf("drifted question row = %+v, want skipped", rows[1])
	}
	if rows[1].MarksObtained != 0 {
		t.Errorf("drifted question marks = %v, want 0", rows[1].MarksObtained)
	}
}
