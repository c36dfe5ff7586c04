package model

import (
	"encoding/json"
	"time"
)

// SubmissionRecord is the normalized outcome of a finished session, in the
// exact field layout the submission sink accepts. Created once per session,
// immutable after the sink confirms it.
type SubmissionRecord struct {
	ID               string           `json:"id,omitempty"` // sink-assigned, empty until confirmed
	User             string           `json:"user"`
	Test             string           `json:"test"`
	Subject          string           `json:"subject"`
	Lesson           string           `json:"lesson"`
	TotalQuestions   int              `json:"total_questions"`
	CorrectAnswers   int              `json:"correct_answers"`
	WrongAnswers     int              `json:"wrong_answers"`
	SkippedQuestions int              `json:"skipped_questions"`
	Score            float64          `json:"score"`
	AverageScore     float64          `json:"average_score"`
	TimeSpent        int              `json:"time_spent"` // seconds
	SubmittedAt      time.Time        `json:"submitted_at"`
	DetailedAnswers  []DetailedAnswer `json:"detailed_answers"`
}

// Submission archive statuses.
const (
	SubmissionConfirmed    = "confirmed"
	SubmissionPendingRetry = "pending_retry"
)

// ArchivedSubmission is the local, durable copy of a submission record.
// Confirmed rows back the results/review views; pending_retry rows keep a
// failed send around so the learner can retry it later.
type ArchivedSubmission struct {
	UUIDBase
	RemoteID         string          `gorm:"size:64;index" json:"remoteId"`
	UserID           string          `gorm:"size:64;index" json:"userId"`
	TestID           string          `gorm:"size:64;index" json:"testId"`
	Subject          string          `gorm:"size:64" json:"subject"`
	Lesson           string          `gorm:"size:64" json:"lesson"`
	TotalQuestions   int             `gorm:"default:0" json:"totalQuestions"`
	CorrectAnswers   int             `gorm:"default:0" json:"correctAnswers"`
	WrongAnswers     int             `gorm:"default:0" json:"wrongAnswers"`
	SkippedQuestions int             `gorm:"default:0" json:"skippedQuestions"`
	Score            float64         `gorm:"default:0" json:"score"`
	AverageScore     float64         `gorm:"default:0" json:"averageScore"`
	TimeSpent        int             `gorm:"default:0" json:"timeSpent"`
	SubmittedAt      time.Time       `json:"submittedAt"`
	Status           string          `gorm:"size:20;default:'confirmed'" json:"status"`
	DetailedAnswers  json.RawMessage `gorm:"type:json" json:"detailedAnswers"`
}

func (ArchivedSubmission) TableName() string {
	return "archived_submissions"
}

// Record rebuilds the wire-shaped SubmissionRecord from an archive row.
func (a *ArchivedSubmission) Record() (*SubmissionRecord, error) {
	var details []DetailedAnswer
	if len(a.DetailedAnswers) > 0 {
		if err := json.Unmarshal(a.DetailedAnswers, &details); err != nil {
			return nil, err
		}
	}
	return &SubmissionRecord{
		ID:               a.RemoteID,
		User:             a.UserID,
		Test:             a.TestID,
		Subject:          a.Subject,
		Lesson:           a.Lesson,
		TotalQuestions:   a.TotalQuestions,
		CorrectAnswers:   a.CorrectAnswers,
		WrongAnswers:     a.WrongAnswers,
		SkippedQuestions: a.SkippedQuestions,
		Score:            a.Score,
		AverageScore:     a.AverageScore,
		TimeSpent:        a.TimeSpent,
		SubmittedAt:      a.SubmittedAt,
		DetailedAnswers:  details,
	}, nil
}
