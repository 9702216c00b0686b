package domain

// TraitScore is one named personality dimension with its score on the
// canonical 0-100 scale.
type TraitScore struct {
	Trait string  `json:"trait"`
	Score float64 `json:"score"`
}

// FeedbackSummary is the narrative feedback for a completed session.
type FeedbackSummary struct {
	Summary string `json:"feedback_summary"`
}

// ClampScore bounds a score to the canonical 0-100 scale. The remote
// service owns scoring; this only guards display against out-of-range values.
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
