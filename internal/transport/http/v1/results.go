package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/traitflow/traitflow/internal/domain"
)

// CandidateSummary returns the merged trait profile and feedback for a
// completed session. A failed half shows up as its own error field next to
// the succeeded half, never as an empty page.
// GET /v1/sessions/:session_id/summary
func (h *Handler) CandidateSummary(c echo.Context) error {
	ac, err := authContext(c)
	if err != nil {
		return jsonError(c, err)
	}

	summary, err := h.service.CandidateSummary(c.Request().Context(), ac, c.Param("session_id"))
	if err != nil {
		return jsonError(c, err)
	}

	resp := map[string]any{
		"profile":  summary.Profile,
		"feedback": summary.Feedback.Summary,
	}
	if summary.ProfileErr != nil {
		resp["profile_error"] = summary.ProfileErr.Error()
	}
	if summary.FeedbackErr != nil {
		resp["feedback_error"] = summary.FeedbackErr.Error()
	}
	return c.JSON(http.StatusOK, resp)
}

// DownloadReport streams the PDF feedback report.
// GET /v1/sessions/:session_id/report
func (h *Handler) DownloadReport(c echo.Context) error {
	ac, err := authContext(c)
	if err != nil {
		return jsonError(c, err)
	}

	report, err := h.service.Report(c.Request().Context(), ac, c.Param("session_id"))
	if err != nil {
		return jsonError(c, err)
	}
	defer report.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="feedback_report.pdf"`)
	return c.Stream(http.StatusOK, "application/pdf", report)
}

// RecruiterOverview returns the candidate list and trait trends.
// GET /v1/recruiter/overview
func (h *Handler) RecruiterOverview(c echo.Context) error {
	ac, err := authContext(c)
	if err != nil {
		return jsonError(c, err)
	}

	overview, err := h.service.RecruiterOverview(c.Request().Context(), ac)
	if err != nil {
		return jsonError(c, err)
	}

	resp := map[string]any{
		"candidates": overview.Candidates,
		"trends":     overview.Trends,
	}
	if overview.CandidatesErr != nil {
		resp["candidates_error"] = overview.CandidatesErr.Error()
	}
	if overview.TrendsErr != nil {
		resp["trends_error"] = overview.TrendsErr.Error()
	}
	return c.JSON(http.StatusOK, resp)
}

type compareRequest struct {
	CandidateIDs []string `json:"candidate_ids"`
}

// CompareCandidates returns per-candidate trait matrices.
// POST /v1/recruiter/compare
func (h *Handler) CompareCandidates(c echo.Context) error {
	ac, err := authContext(c)
	if err != nil {
		return jsonError(c, err)
	}
	var req compareRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	comparison, err := h.service.Compare(c.Request().Context(), ac, req.CandidateIDs)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]map[string][]domain.TraitScore{"comparison": comparison})
}
