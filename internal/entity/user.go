package entity

type UserProfile struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email,omitempty"`
	Avatar       string  `json:"avatar,omitempty"`
	GamesCreated int     `json:"gamesCreated"`
	GamesPlayed  int     `json:"gamesPlayed"`
	TotalScore   int     `json:"totalScore"`
	AverageScore float64 `json:"averageScore"`
	JoinedAt     string  `json:"joinedAt"`
}
