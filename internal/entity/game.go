package entity

type Game struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	ImageIDs    []string `json:"imageIds"`
	CreatedBy   string   `json:"createdBy"`
	CreatedAt   string   `json:"createdAt"`
	IsPublic    bool     `json:"isPublic"`
	PlayCount   int      `json:"playCount"`
	Rating      float64  `json:"rating,omitempty"`
	RatingCount int      `json:"ratingCount,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
}
