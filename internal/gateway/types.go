package gateway

import "encoding/json"

// Request and response shapes for every scoring-service endpoint. Responses
// are decoded into tagged records rather than free-form maps so shape drift
// surfaces at this boundary.

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type startRequest struct {
	Name string `json:"name"`
}

type startResponse struct {
	SessionID string `json:"session_id"`
}

type submitRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}

type submitResponse struct {
	Analysis json.RawMessage `json:"analysis"`
}

type nextQuestionRequest struct {
	SessionID string `json:"session_id"`
}

type nextQuestionResponse struct {
	NextQuestion string `json:"next_question"`
}

type traitScoreRecord struct {
	Trait string  `json:"trait"`
	Score float64 `json:"score"`
}

type feedbackResponse struct {
	FeedbackSummary string `json:"feedback_summary"`
}

type candidateRecord struct {
	ID       json.Number `json:"id"`
	Name     string      `json:"name"`
	TopTrait string      `json:"top_trait"`
	Tags     []string    `json:"tags"`
}

type compareRequest struct {
	CandidateIDs []string `json:"candidate_ids"`
}

type errorResponse struct {
	Error string `json:"error"`
}
