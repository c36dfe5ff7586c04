package service

import (
	"context"

	"examhall_backend/internal/model"
)

// ReviewRow is one question of the post-submission review: what the learner
// chose, what was right, and why.
type ReviewRow struct {
	QuestionID      string                 `json:"questionId"`
	Content         string                 `json:"content"`
	Options         []model.QuestionOption `json:"options"`
	SelectedOption  string                 `json:"selectedOption"` // letter, empty when unattempted
	Attempted       bool                   `json:"attempted"`
	CorrectOptions  []string               `json:"correctOptions"`
	Status          model.AnswerStatus     `json:"status"`
	MarksObtained   float64                `json:"marksObtained"`
	MarkedForReview bool                   `json:"markedForReview"`
	Explanation     string                 `json:"explanation"`
}

type SubmissionReview struct {
	Record *model.SubmissionRecord `json:"record"`
	Rows   []ReviewRow             `json:"rows"`
}

// ResultsService rebuilds the per-question review of a confirmed submission
// from the archived record plus the originating test definition. It is a
// read-only projection: scores come from the record, never a second
// computation.
type ResultsService struct {
	Tests       *TestService
	Submissions *SubmissionService
}

func NewResultsService(tests *TestService, submissions *SubmissionService) *ResultsService {
	return &ResultsService{Tests: tests, Submissions: submissions}
}

func (s *ResultsService) Review(ctx context.Context, submissionID, userID string) (*SubmissionReview, error) {
	archived, err := s.Submissions.GetArchived(submissionID, userID)
	if err != nil {
		return nil, err
	}

	record, err := archived.Record()
	if err != nil {
		return nil, err
	}

	test, err := s.Tests.GetTest(ctx, record.Test)
	if err != nil {
		return nil, err
	}

	return &SubmissionReview{
		Record: record,
		Rows:   BuildReview(record, test),
	}, nil
}

// BuildReview joins a submission record with its test definition into
// display rows, keyed by question id. Questions the record knows nothing
// about (definition drift) come back as skipped rather than breaking the
// view.
func BuildReview(record *model.SubmissionRecord, test *model.TestDefinition) []ReviewRow {
	byQuestion := make(map[string]model.DetailedAnswer, len(record.DetailedAnswers))
	for _, d := range record.DetailedAnswers {
		byQuestion[d.QuestionID] = d
	}

	rows := make([]ReviewRow, len(test.Questions))
	for i, q := range test.Questions {
		row := ReviewRow{
			QuestionID:     q.ID,
			Content:        q.Content,
			Options:        q.Options,
			CorrectOptions: append([]string{}, q.CorrectOptions...),
			Status:         model.StatusSkipped,
			Explanation:    q.Explanation,
		}

		if d, ok := byQuestion[q.ID]; ok {
			row.Status = d.Status
			row.MarksObtained = d.Marks.Obtained
			row.MarkedForReview = d.MarkedForReview
			if len(d.SelectedOptions) > 0 {
				row.SelectedOption = d.SelectedOptions[0]
				row.Attempted = true
			}
		}

		rows[i] = row
	}
	return rows
}
