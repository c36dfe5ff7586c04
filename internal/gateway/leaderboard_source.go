package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"examhall_backend/internal/model"
)

// LeaderboardSource fetches the participant score records for one test.
type LeaderboardSource struct {
	httpClient
}

func NewLeaderboardSource(baseURL string, timeout time.Duration) *LeaderboardSource {
	return &LeaderboardSource{newHTTPClient(baseURL, timeout)}
}

// rawParticipant tolerates records with a missing or null score; ranking
// must see a concrete zero, never a hole.
type rawParticipant struct {
	User           string   `json:"user"`
	Name           string   `json:"name"`
	Score          *float64 `json:"score"`
	CorrectAnswers int      `json:"correct_answers"`
	TimeSpent      int      `json:"time_spent"`
}

func (s *LeaderboardSource) FetchParticipants(ctx context.Context, testID string) ([]model.ParticipantRecord, error) {
	status, body, err := s.getJSON(ctx, "/tests/"+testID+"/leaderboard")
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		// No submissions for this test yet; an empty board, not an error.
		return []model.ParticipantRecord{}, nil
	}
	if status != http.StatusOK {
		return nil, statusError("leaderboard source", status)
	}

	var raw []rawParticipant
	if err := json.Unmarshal(unwrapData(body), &raw); err != nil {
		return nil, err
	}

	records := make([]model.ParticipantRecord, 0, len(raw))
	for _, r := range raw {
		rec := model.ParticipantRecord{
			User:           r.User,
			Name:           r.Name,
			CorrectAnswers: r.CorrectAnswers,
			TimeSpent:      r.TimeSpent,
		}
		if r.Score != nil {
			rec.Score = *r.Score
		}
		records = append(records, rec)
	}
	return records, nil
}
