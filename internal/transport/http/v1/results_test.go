package v1

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/traitflow/traitflow/tests/helpers"
)

func TestCandidateSummaryHandler(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, newScoringStub(t))
	token := helpers.SignedToken(t, "alice", "candidate")

	rec, err := doJSON(e, h.CandidateSummary, http.MethodGet, "/v1/sessions/s1/summary", token, "", "s1")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Profile []struct {
			Trait string  `json:"trait"`
			Score float64 `json:"score"`
		} `json:"profile"`
		Feedback     string `json:"feedback"`
		ProfileError string `json:"profile_error"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Len(t, resp.Profile, 2)
	assert.Equal(t, "Openness", resp.Profile[0].Trait)
	assert.Equal(t, "Strong collaborator.", resp.Feedback)
	assert.Empty(t, resp.ProfileError)
}

func TestCandidateSummaryPartialFailure(t *testing.T) {
	e := echo.New()
	stub := newScoringStub(t)
	h := newTestHandler(t, stub)
	token := helpers.SignedToken(t, "alice", "candidate")

	stub.fail("/profile/")
	rec, err := doJSON(e, h.CandidateSummary, http.MethodGet, "/v1/sessions/s1/summary", token, "", "s1")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Feedback     string `json:"feedback"`
		ProfileError string `json:"profile_error"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Equal(t, "Strong collaborator.", resp.Feedback)
	assert.NotEmpty(t, resp.ProfileError)
}

func TestCandidateSummaryDeniedForRecruiter(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, newScoringStub(t))
	token := helpers.SignedToken(t, "bob", "recruiter")

	rec, err := doJSON(e, h.CandidateSummary, http.MethodGet, "/v1/sessions/s1/summary", token, "", "s1")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDownloadReportHandler(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, newScoringStub(t))
	token := helpers.SignedToken(t, "alice", "candidate")

	rec, err := doJSON(e, h.DownloadReport, http.MethodGet, "/v1/sessions/s1/report", token, "", "s1")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "feedback_report.pdf")
	assert.Equal(t, "%PDF-1.4 fake", rec.Body.String())
}

func TestRecruiterOverviewHandler(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, newScoringStub(t))
	token := helpers.SignedToken(t, "bob", "recruiter")

	rec, err := doJSON(e, h.RecruiterOverview, http.MethodGet, "/v1/recruiter/overview", token, "")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Candidates []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"candidates"`
		Trends []struct {
			Trait   string  `json:"trait"`
			Average float64 `json:"average"`
		} `json:"trends"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Len(t, resp.Candidates, 1)
	assert.Equal(t, "1", resp.Candidates[0].ID)
	// The null Neuroticism average is skipped; Openness is rescaled to 0-100.
	assert.Len(t, resp.Trends, 1)
	assert.Equal(t, "Openness", resp.Trends[0].Trait)
	assert.Equal(t, 84.0, resp.Trends[0].Average)
}

func TestRecruiterOverviewPartialFailure(t *testing.T) {
	e := echo.New()
	stub := newScoringStub(t)
	h := newTestHandler(t, stub)
	token := helpers.SignedToken(t, "bob", "recruiter")

	stub.fail("/recruiter/candidates")
	rec, err := doJSON(e, h.RecruiterOverview, http.MethodGet, "/v1/recruiter/overview", token, "")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		CandidatesError string `json:"candidates_error"`
		Trends          []struct {
			Trait string `json:"trait"`
		} `json:"trends"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.NotEmpty(t, resp.CandidatesError)
	assert.Len(t, resp.Trends, 1)
}

func TestRecruiterOverviewDeniedForCandidate(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, newScoringStub(t))
	token := helpers.SignedToken(t, "alice", "candidate")

	rec, err := doJSON(e, h.RecruiterOverview, http.MethodGet, "/v1/recruiter/overview", token, "")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCompareCandidatesHandler(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, newScoringStub(t))
	token := helpers.SignedToken(t, "bob", "recruiter")

	rec, err := doJSON(e, h.CompareCandidates, http.MethodPost, "/v1/recruiter/compare", token, `{"candidate_ids":["1"]}`)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Comparison map[string][]struct {
			Trait string  `json:"trait"`
			Score float64 `json:"score"`
		} `json:"comparison"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Len(t, resp.Comparison["1"], 1)
	assert.Equal(t, 70.0, resp.Comparison["1"][0].Score)
}

func TestCompareCandidatesValidation(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, newScoringStub(t))
	token := helpers.SignedToken(t, "bob", "recruiter")

	rec, err := doJSON(e, h.CompareCandidates, http.MethodPost, "/v1/recruiter/compare", token, `{"candidate_ids":[]}`)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
