package service

import (
	"context"
	"encoding/json"
	"time"

	"examhall_backend/internal/model"
	"examhall_backend/internal/repository"
	"examhall_backend/internal/util"
	"examhall_backend/pkg/monitoring"
)

// SubmissionDeliverer is the sink-facing side of the pipeline, satisfied by
// gateway.SubmissionSink and by fakes in tests.
type SubmissionDeliverer interface {
	Send(ctx context.Context, record *model.SubmissionRecord) (string, error)
}

// BuildSubmissionRecord assembles the normalized submission record for a
// finished session. It invents nothing: a missing user or test id is a
// precondition failure, never defaulted away.
func BuildSubmissionRecord(test *model.TestDefinition, userID string, breakdown model.ScoreBreakdown, timeSpent int, submittedAt time.Time) (*model.SubmissionRecord, error) {
	if userID == "" {
		return nil, util.ErrMissingUser
	}
	if test == nil || test.ID == "" {
		return nil, util.ErrMissingTest
	}

	if timeSpent < 0 {
		timeSpent = 0
	}
	if timeSpent > test.Duration {
		timeSpent = test.Duration
	}

	return &model.SubmissionRecord{
		User:             userID,
		Test:             test.ID,
		Subject:          test.Subject,
		Lesson:           test.Lesson,
		TotalQuestions:   breakdown.TotalQuestions,
		CorrectAnswers:   breakdown.CorrectAnswers,
		WrongAnswers:     breakdown.WrongAnswers,
		SkippedQuestions: breakdown.SkippedQuestions,
		Score:            breakdown.Score,
		AverageScore:     breakdown.AverageScore,
		TimeSpent:        timeSpent,
		SubmittedAt:      submittedAt,
		DetailedAnswers:  breakdown.DetailedAnswers,
	}, nil
}

// SubmissionService delivers records to the external sink and keeps the
// local archive in step: confirmed rows back the results views, and a
// failed delivery leaves a pending_retry row behind instead of losing the
// attempt.
type SubmissionService struct {
	Sink SubmissionDeliverer
	Repo *repository.SubmissionRepository
}

func NewSubmissionService(sink SubmissionDeliverer, repo *repository.SubmissionRepository) *SubmissionService {
	return &SubmissionService{Sink: sink, Repo: repo}
}

// Deliver sends one record to the sink. On success the record, annotated
// with any sink-assigned id, is archived as confirmed and returned. On
// failure the record is archived as pending_retry and the error surfaces to
// the caller; nothing about the session's answer state is touched here.
func (s *SubmissionService) Deliver(ctx context.Context, record *model.SubmissionRecord) (*model.SubmissionRecord, error) {
	remoteID, err := s.Sink.Send(ctx, record)
	if err != nil {
		monitoring.SubmissionsTotal.WithLabelValues("failed").Inc()
		s.archive(record, "", model.SubmissionPendingRetry)
		return nil, err
	}

	record.ID = remoteID
	monitoring.SubmissionsTotal.WithLabelValues("confirmed").Inc()
	if archiveErr := s.archive(record, remoteID, model.SubmissionConfirmed); archiveErr != nil {
		// The sink accepted the record; a broken local archive must not
		// turn a confirmed submission into a failure.
		monitoring.ArchiveErrors.Inc()
	}
	return record, nil
}

func (s *SubmissionService) archive(record *model.SubmissionRecord, remoteID, status string) error {
	if s.Repo == nil {
		return nil
	}

	details, err := json.Marshal(record.DetailedAnswers)
	if err != nil {
		return err
	}

	row := &model.ArchivedSubmission{
		RemoteID:         remoteID,
		UserID:           record.User,
		TestID:           record.Test,
		Subject:          record.Subject,
		Lesson:           record.Lesson,
		TotalQuestions:   record.TotalQuestions,
		CorrectAnswers:   record.CorrectAnswers,
		WrongAnswers:     record.WrongAnswers,
		SkippedQuestions: record.SkippedQuestions,
		Score:            record.Score,
		AverageScore:     record.AverageScore,
		TimeSpent:        record.TimeSpent,
		SubmittedAt:      record.SubmittedAt,
		Status:           status,
		DetailedAnswers:  details,
	}

	if status == model.SubmissionConfirmed {
		// A confirmed delivery supersedes any pending_retry row left by an
		// earlier failed attempt of the same session.
		if err := s.Repo.DeletePendingRetry(record.User, record.Test); err != nil {
			return err
		}
	}
	return s.Repo.Create(row)
}

// ListForUser returns the learner's archived submissions, newest first.
func (s *SubmissionService) ListForUser(userID string) ([]model.ArchivedSubmission, error) {
	return s.Repo.FindByUser(userID)
}

// GetArchived returns one archived submission owned by the learner.
func (s *SubmissionService) GetArchived(submissionID, userID string) (*model.ArchivedSubmission, error) {
	row, err := s.Repo.FindByID(submissionID)
	if err != nil {
		return nil, util.ErrSubmissionNotFound
	}
	if row.UserID != userID {
		return nil, util.ErrSubmissionNotFound
	}
	return row, nil
}
