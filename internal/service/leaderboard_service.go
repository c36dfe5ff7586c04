package service

import (
	"context"

	"examhall_backend/internal/model"
)

// ParticipantProvider is the leaderboard-source side of the boundary.
type ParticipantProvider interface {
	FetchParticipants(ctx context.Context, testID string) ([]model.ParticipantRecord, error)
}

// LeaderboardService fetches one test's participant records and ranks them.
// All ranking semantics live in Rank; this service only adds the fetch.
type LeaderboardService struct {
	Source ParticipantProvider
}

func NewLeaderboardService(source ParticipantProvider) *LeaderboardService {
	return &LeaderboardService{Source: source}
}

func (s *LeaderboardService) GetLeaderboard(ctx context.Context, testID, currentUserID string) (*model.Leaderboard, error) {
	records, err := s.Source.FetchParticipants(ctx, testID)
	if err != nil {
		return nil, err
	}

	board := Rank(records, currentUserID)
	return &board, nil
}
