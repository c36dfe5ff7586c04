package model

// ParticipantRecord is one learner's result for a test as returned by the
// leaderboard source. Score may be absent upstream; the gateway normalizes a
// missing score to zero before ranking sees it.
type ParticipantRecord struct {
	User           string  `json:"user"`
	Name           string  `json:"name"`
	Score          float64 `json:"score"`
	CorrectAnswers int     `json:"correct_answers"`
	TimeSpent      int     `json:"time_spent"`
}

type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	User           string  `json:"user"`
	Name           string  `json:"name"`
	Score          float64 `json:"score"`
	CorrectAnswers int     `json:"correct_answers"`
	TimeSpent      int     `json:"time_spent"`
	IsCurrentUser  bool    `json:"is_current_user"`
}

// Leaderboard is the ranked view of one test's participants.
// CurrentUser is nil when the requesting learner has not participated.
type Leaderboard struct {
	Participants int                `json:"participants"`
	HighestScore float64            `json:"highest_score"`
	AverageScore float64            `json:"average_score"`
	Entries      []LeaderboardEntry `json:"entries"`
	CurrentUser  *LeaderboardEntry  `json:"current_user,omitempty"`
}
