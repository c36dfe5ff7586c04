package util

import "errors"

var (
	ErrTestNotFound       = errors.New("test not found")
	ErrEmptyQuestionSet   = errors.New("test has no questions")
	ErrMissingUser        = errors.New("authenticated user id is required")
	ErrMissingTest        = errors.New("test id is required")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionFinished    = errors.New("session already finished")
	ErrQuestionOutOfRange = errors.New("question index out of range")
	ErrOptionOutOfRange   = errors.New("option index out of range")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrSubmissionInFlight = errors.New("submission already in progress")
)
