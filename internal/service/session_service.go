package service

import (
	"context"
	"sync"
	"time"

	"examhall_backend/internal/model"
	"examhall_backend/internal/util"
	"examhall_backend/pkg/logger"
	"examhall_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// SessionState is the submission pipeline state of one live session.
type SessionState string

const (
	StateIdle       SessionState = "idle"
	StateSubmitting SessionState = "submitting"
	StateConfirmed  SessionState = "confirmed"
	StateFailed     SessionState = "failed"
	StateCancelled  SessionState = "cancelled"
)

// ExamSession is one learner's in-progress attempt at a test: the immutable
// definition, the answer sheet, the countdown and the pipeline state.
//
// All mutations go through the session mutex, which serializes learner
// actions, the expiry callback and the submit path the way the original
// single event queue did.
type ExamSession struct {
	ID     string
	UserID string
	Test   *model.TestDefinition

	mu        sync.Mutex
	sheet     []model.AnswerState
	startedAt time.Time
	deadline  time.Time
	timer     *time.Timer
	state     SessionState

	// retained after a failed delivery so a manual retry resends the exact
	// record that was built, not a recomputed one
	pending *model.SubmissionRecord
}

// SessionService owns the registry of live sessions. Sessions live in
// memory only; everything durable about a finished session goes through the
// submission pipeline.
type SessionService struct {
	Tests    *TestService
	Pipeline *SubmissionService

	mu         sync.RWMutex
	sessions   map[string]*ExamSession
	byUserTest map[string]string
}

func NewSessionService(tests *TestService, pipeline *SubmissionService) *SessionService {
	return &SessionService{
		Tests:      tests,
		Pipeline:   pipeline,
		sessions:   make(map[string]*ExamSession),
		byUserTest: make(map[string]string),
	}
}

// SessionView is the API projection of a live session. Correct options and
// explanations are never part of it.
type SessionView struct {
	ID            string              `json:"id"`
	TestID        string              `json:"testId"`
	TestName      string              `json:"testName"`
	Subject       string              `json:"subject"`
	Lesson        string              `json:"lesson"`
	QuestionCount int                 `json:"questionCount"`
	RemainingTime int                 `json:"remainingTime"` // seconds
	State         SessionState        `json:"state"`
	Answers       []model.AnswerState `json:"answers"`
}

// StartSession opens a session for the given learner and test. Opening a
// test the learner already has a live session for returns that session, so
// a reconnecting client resumes instead of forking a second countdown.
func (s *SessionService) StartSession(ctx context.Context, userID, testID string) (*SessionView, error) {
	if userID == "" {
		return nil, util.ErrMissingUser
	}
	if testID == "" {
		return nil, util.ErrMissingTest
	}

	s.mu.RLock()
	if id, ok := s.byUserTest[userID+"|"+testID]; ok {
		existing := s.sessions[id]
		s.mu.RUnlock()
		if existing != nil {
			return existing.view(), nil
		}
	} else {
		s.mu.RUnlock()
	}

	test, err := s.Tests.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if len(test.Questions) == 0 {
		return nil, util.ErrEmptyQuestionSet
	}

	now := time.Now()
	sess := &ExamSession{
		ID:        model.GenerateUUID(),
		UserID:    userID,
		Test:      test,
		sheet:     model.NewAnswerSheet(len(test.Questions)),
		startedAt: now,
		deadline:  now.Add(time.Duration(test.Duration) * time.Second),
		state:     StateIdle,
	}

	s.mu.Lock()
	// A racing second open wins nothing: re-check under the write lock.
	if id, ok := s.byUserTest[userID+"|"+testID]; ok {
		if existing := s.sessions[id]; existing != nil {
			s.mu.Unlock()
			return existing.view(), nil
		}
	}
	// The timer must be in place before the session is published: a racing
	// Submit on the freshly returned id reads sess.timer under sess.mu.
	sess.timer = time.AfterFunc(time.Until(sess.deadline), func() {
		s.expire(sess.ID)
	})
	s.sessions[sess.ID] = sess
	s.byUserTest[userID+"|"+testID] = sess.ID
	s.mu.Unlock()

	monitoring.SessionsStarted.Inc()
	logger.Log.Info("exam session started",
		zap.String("session", sess.ID),
		zap.String("user", userID),
		zap.String("test", testID),
		zap.Int("questions", len(test.Questions)),
		zap.Int("duration", test.Duration))

	return sess.view(), nil
}

// GetSession returns the live session view for its owner.
func (s *SessionService) GetSession(sessionID, userID string) (*SessionView, error) {
	sess, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return sess.view(), nil
}

// SelectAnswer records the learner's single selection for one question,
// overwriting any previous choice.
func (s *SessionService) SelectAnswer(sessionID, userID string, questionIndex, optionIndex int) (*SessionView, error) {
	sess, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state != StateIdle {
		return nil, util.ErrSessionFinished
	}
	if questionIndex < 0 || questionIndex >= len(sess.sheet) {
		return nil, util.ErrQuestionOutOfRange
	}
	if optionIndex < 0 || optionIndex >= len(sess.Test.Questions[questionIndex].Options) {
		return nil, util.ErrOptionOutOfRange
	}

	sess.sheet[questionIndex].SelectedOption = optionIndex
	return sess.viewLocked(), nil
}

// ToggleReview flips the review flag of one question, independently of the
// answer.
func (s *SessionService) ToggleReview(sessionID, userID string, questionIndex int) (*SessionView, error) {
	sess, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state != StateIdle {
		return nil, util.ErrSessionFinished
	}
	if questionIndex < 0 || questionIndex >= len(sess.sheet) {
		return nil, util.ErrQuestionOutOfRange
	}

	sess.sheet[questionIndex].MarkedForReview = !sess.sheet[questionIndex].MarkedForReview
	return sess.viewLocked(), nil
}

// Submit drives the finalize-and-submit path for a manual submission.
// A session already submitting or confirmed absorbs the call as a no-op.
func (s *SessionService) Submit(ctx context.Context, sessionID, userID string) (*SessionView, error) {
	sess, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return s.finalize(ctx, sess, "manual")
}

// Cancel discards a session before submission: the clock stops and the
// answer sheet is dropped without any partial send. A session that is mid
// delivery cannot be cancelled.
func (s *SessionService) Cancel(sessionID, userID string) error {
	sess, err := s.lookup(sessionID, userID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	if sess.state == StateSubmitting {
		sess.mu.Unlock()
		return util.ErrSubmissionInFlight
	}
	if sess.timer != nil {
		sess.timer.Stop()
	}
	sess.state = StateCancelled // terminal; nothing may mutate or resubmit
	sess.mu.Unlock()

	s.remove(sess)
	logger.Log.Info("exam session cancelled", zap.String("session", sessionID), zap.String("user", userID))
	return nil
}

func (s *SessionService) lookup(sessionID, userID string) (*ExamSession, error) {
	s.mu.RLock()
	sess := s.sessions[sessionID]
	s.mu.RUnlock()

	if sess == nil || sess.UserID != userID {
		return nil, util.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionService) remove(sess *ExamSession) {
	s.mu.Lock()
	delete(s.sessions, sess.ID)
	delete(s.byUserTest, sess.UserID+"|"+sess.Test.ID)
	s.mu.Unlock()
}

// expire is the clock's single expiry signal. The timer fires once and the
// state machine guards re-entry, so a session can never double-submit off
// its own countdown.
func (s *SessionService) expire(sessionID string) {
	s.mu.RLock()
	sess := s.sessions[sessionID]
	s.mu.RUnlock()
	if sess == nil {
		return
	}

	monitoring.SessionsExpired.Inc()
	logger.Log.Info("exam session expired", zap.String("session", sessionID), zap.String("user", sess.UserID))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := s.finalize(ctx, sess, "expiry"); err != nil {
		logger.Log.Error("expiry submission failed", zap.String("session", sessionID), zap.Error(err))
	}
}

// finalize snapshots the answer sheet, scores it, and drives the delivery
// pipeline. Manual submit and expiry both land here; whichever arrives
// second finds the state machine already past Idle and becomes a no-op.
func (s *SessionService) finalize(ctx context.Context, sess *ExamSession, trigger string) (*SessionView, error) {
	sess.mu.Lock()

	switch sess.state {
	case StateSubmitting, StateConfirmed, StateCancelled:
		view := sess.viewLocked()
		sess.mu.Unlock()
		return view, nil
	}

	if sess.timer != nil {
		sess.timer.Stop()
	}

	record := sess.pending
	if record == nil {
		// Snapshot before the suspension point: answer mutations after this
		// line cannot affect the in-flight submission.
		snapshot := make([]model.AnswerState, len(sess.sheet))
		copy(snapshot, sess.sheet)
		remaining := sess.remainingLocked()

		breakdown := Score(sess.Test, snapshot)
		var err error
		record, err = BuildSubmissionRecord(sess.Test, sess.UserID, breakdown, sess.Test.Duration-remaining, time.Now())
		if err != nil {
			sess.mu.Unlock()
			return nil, err
		}
	}

	sess.state = StateSubmitting
	sess.mu.Unlock()

	confirmed, err := s.Pipeline.Deliver(ctx, record)

	sess.mu.Lock()
	if err != nil {
		sess.state = StateFailed
		sess.pending = record
		view := sess.viewLocked()
		sess.mu.Unlock()
		logger.Log.Warn("submission delivery failed",
			zap.String("session", sess.ID),
			zap.String("trigger", trigger),
			zap.Error(err))
		return view, err
	}

	sess.state = StateConfirmed
	sess.pending = nil
	view := sess.viewLocked()
	sess.mu.Unlock()

	s.remove(sess)
	logger.Log.Info("submission confirmed",
		zap.String("session", sess.ID),
		zap.String("trigger", trigger),
		zap.String("submission", confirmed.ID),
		zap.Float64("score", confirmed.Score))

	return view, nil
}

func (sess *ExamSession) view() *SessionView {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.viewLocked()
}

func (sess *ExamSession) viewLocked() *SessionView {
	answers := make([]model.AnswerState, len(sess.sheet))
	copy(answers, sess.sheet)

	return &SessionView{
		ID:            sess.ID,
		TestID:        sess.Test.ID,
		TestName:      sess.Test.Name,
		Subject:       sess.Test.Subject,
		Lesson:        sess.Test.Lesson,
		QuestionCount: len(sess.Test.Questions),
		RemainingTime: sess.remainingLocked(),
		State:         sess.state,
		Answers:       answers,
	}
}

func (sess *ExamSession) remainingLocked() int {
	if sess.state != StateIdle {
		return 0
	}
	remaining := int(time.Until(sess.deadline).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}
