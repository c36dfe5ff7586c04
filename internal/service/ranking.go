package service

import (
	"math"
	"sort"

	"examhall_backend/internal/model"
)

// Rank orders one test's participant records into a leaderboard. Pure and
// reentrant: the input slice is never mutated.
//
// Sorting is by score descending and stable, so equal scores keep the order
// the upstream source returned them in; rank is the 1-based position in the
// sorted list. Ranking an already-ranked list yields the same list.
func Rank(records []model.ParticipantRecord, currentUserID string) model.Leaderboard {
	board := model.Leaderboard{
		Entries: make([]model.LeaderboardEntry, len(records)),
	}
	if len(records) == 0 {
		return board
	}

	ordered := append([]model.ParticipantRecord{}, records...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	var sum float64
	for i, rec := range ordered {
		entry := model.LeaderboardEntry{
			Rank:           i + 1,
			User:           rec.User,
			Name:           rec.Name,
			Score:          rec.Score,
			CorrectAnswers: rec.CorrectAnswers,
			TimeSpent:      rec.TimeSpent,
			IsCurrentUser:  currentUserID != "" && rec.User == currentUserID,
		}
		board.Entries[i] = entry

		if entry.IsCurrentUser && board.CurrentUser == nil {
			me := entry
			board.CurrentUser = &me
		}
		sum += rec.Score
	}

	board.Participants = len(ordered)
	board.HighestScore = ordered[0].Score
	board.AverageScore = math.Round(sum / float64(len(ordered)))

	return board
}
