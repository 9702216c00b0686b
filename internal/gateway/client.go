// Package gateway provides the typed HTTP client for the remote scoring
// service. It maps each orchestration need to exactly one network operation
// and classifies failures; it never retries, caches, or reinterprets results.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/traitflow/traitflow/internal/auth"
	"github.com/traitflow/traitflow/internal/domain"
)

// Client is the scoring service client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new scoring service client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Authenticate exchanges credentials for a bearer token.
func (c *Client) Authenticate(ctx context.Context, username, password string, role domain.Role) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/login", "", loginRequest{
		Username: username,
		Password: password,
		Role:     string(role),
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", domain.NewServiceError("scoring service returned no access token")
	}
	return resp.AccessToken, nil
}

// StartSession creates a new assessment session for the named candidate.
func (c *Client) StartSession(ctx context.Context, ac *auth.Context, candidateName string) (string, error) {
	var resp startResponse
	err := c.do(ctx, http.MethodPost, "/start", ac.Token, startRequest{Name: candidateName}, &resp)
	if err != nil {
		return "", err
	}
	if resp.SessionID == "" {
		return "", domain.NewServiceError("scoring service returned no session id")
	}
	return resp.SessionID, nil
}

// NextQuestion asks what should be asked now. An empty question is the
// terminal sentinel: done is true and the session has no further questions.
func (c *Client) NextQuestion(ctx context.Context, ac *auth.Context, sessionID string) (domain.Question, bool, error) {
	var resp nextQuestionResponse
	err := c.do(ctx, http.MethodPost, "/generate-question", ac.Token, nextQuestionRequest{SessionID: sessionID}, &resp)
	if err != nil {
		return domain.Question{}, false, err
	}
	text := strings.TrimSpace(resp.NextQuestion)
	if text == "" {
		return domain.Question{}, true, nil
	}
	return domain.Question{Text: text}, false, nil
}

// SubmitAnswer submits one answer and returns the opaque analysis.
func (c *Client) SubmitAnswer(ctx context.Context, ac *auth.Context, sessionID, question, answer string) (json.RawMessage, error) {
	var resp submitResponse
	err := c.do(ctx, http.MethodPost, "/submit", ac.Token, submitRequest{
		SessionID: sessionID,
		Question:  question,
		Answer:    answer,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Analysis, nil
}

// FetchProfile retrieves the trait scores for a session.
func (c *Client) FetchProfile(ctx context.Context, ac *auth.Context, sessionID string) ([]domain.TraitScore, error) {
	var records []traitScoreRecord
	if err := c.do(ctx, http.MethodGet, "/profile/"+sessionID, ac.Token, nil, &records); err != nil {
		return nil, err
	}
	scores := make([]domain.TraitScore, 0, len(records))
	for _, r := range records {
		scores = append(scores, domain.TraitScore{Trait: r.Trait, Score: r.Score})
	}
	return scores, nil
}

// FetchFeedback retrieves the narrative feedback for a session.
func (c *Client) FetchFeedback(ctx context.Context, ac *auth.Context, sessionID string) (domain.FeedbackSummary, error) {
	var resp feedbackResponse
	if err := c.do(ctx, http.MethodGet, "/candidate/feedback/"+sessionID, ac.Token, nil, &resp); err != nil {
		return domain.FeedbackSummary{}, err
	}
	return domain.FeedbackSummary{Summary: resp.FeedbackSummary}, nil
}

// ListCandidates retrieves all candidates for a recruiter.
func (c *Client) ListCandidates(ctx context.Context, ac *auth.Context) ([]domain.CandidateRecord, error) {
	var records []candidateRecord
	if err := c.do(ctx, http.MethodGet, "/recruiter/candidates", ac.Token, nil, &records); err != nil {
		return nil, err
	}
	out := make([]domain.CandidateRecord, 0, len(records))
	for _, r := range records {
		out = append(out, domain.CandidateRecord{
			ID:       r.ID.String(),
			Name:     r.Name,
			TopTrait: r.TopTrait,
			Tags:     r.Tags,
		})
	}
	return out, nil
}

// FetchTrends retrieves the cross-candidate trait averages, pre-aggregated by
// the scoring service on its native scale. Traits with no data yet arrive as
// null and are skipped.
func (c *Client) FetchTrends(ctx context.Context, ac *auth.Context) (map[string]float64, error) {
	var raw map[string]*float64
	if err := c.do(ctx, http.MethodGet, "/recruiter/trends", ac.Token, nil, &raw); err != nil {
		return nil, err
	}
	trends := make(map[string]float64, len(raw))
	for trait, avg := range raw {
		if avg == nil {
			continue
		}
		trends[trait] = *avg
	}
	return trends, nil
}

// CompareCandidates retrieves per-candidate trait score maps for the given ids.
func (c *Client) CompareCandidates(ctx context.Context, ac *auth.Context, ids []string) (map[string]map[string]float64, error) {
	var resp map[string]map[string]float64
	if err := c.do(ctx, http.MethodPost, "/recruiter/compare", ac.Token, compareRequest{CandidateIDs: ids}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DownloadReport streams the PDF feedback report. The document is passed
// through unparsed; the caller owns closing the returned body.
func (c *Client) DownloadReport(ctx context.Context, ac *auth.Context, sessionID string) (io.ReadCloser, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/candidate/feedback-pdf/"+sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+ac.Token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, domain.NewNetworkError("scoring service unreachable", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, classifyStatus(resp.StatusCode, body)
	}
	return resp.Body, nil
}

// do performs one JSON round-trip and classifies any failure.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.NewNetworkError("scoring service unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewNetworkError("failed to read scoring service response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return classifyStatus(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return domain.NewServiceError(fmt.Sprintf("malformed scoring service response: %v", err))
		}
	}
	return nil
}

// classifyStatus maps a non-2xx scoring service response to the error
// taxonomy. Auth failures never carry the remote detail: which field or claim
// was wrong must not leak past this boundary.
func classifyStatus(status int, body []byte) error {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return domain.NewAuthError("authentication rejected by scoring service")
	}
	var remote errorResponse
	if err := json.Unmarshal(body, &remote); err == nil && remote.Error != "" {
		return domain.NewServiceError(remote.Error)
	}
	return domain.NewServiceError(fmt.Sprintf("scoring service returned status %d: %s", status, string(body)))
}
