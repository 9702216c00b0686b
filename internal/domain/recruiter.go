package domain

// CandidateRecord is one candidate as seen by a recruiter.
type CandidateRecord struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	TopTrait string   `json:"top_trait,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// TrendEntry is the cross-candidate average for one trait, on the
// canonical 0-100 scale.
type TrendEntry struct {
	Trait   string  `json:"trait"`
	Average float64 `json:"average"`
}

// TrendAggregate holds trend entries in display order.
type TrendAggregate []TrendEntry
