package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/traitflow/traitflow/internal/domain"
	"github.com/traitflow/traitflow/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Login authenticates against the scoring service.
// POST /v1/login
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	ac, err := h.service.Login(c.Request().Context(), req.Username, req.Password, domain.Role(req.Role))
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"access_token": ac.Token,
		"role":         string(ac.Role),
		"username":     ac.Username,
	})
}

type startSessionRequest struct {
	CandidateName string `json:"candidate_name"`
}

// StartSession starts a new assessment session.
// POST /v1/sessions
func (h *Handler) StartSession(c echo.Context) error {
	ac, err := authContext(c)
	if err != nil {
		return jsonError(c, err)
	}
	var req startSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	view, err := h.service.StartSession(c.Request().Context(), ac, req.CandidateName)
	if err != nil {
		return sessionError(c, view, err)
	}
	return c.JSON(http.StatusCreated, view)
}

type answerRequest struct {
	Text string `json:"text"`
}

// SubmitAnswer submits an answer for the session's current question.
// POST /v1/sessions/:session_id/answers
func (h *Handler) SubmitAnswer(c echo.Context) error {
	ac, err := authContext(c)
	if err != nil {
		return jsonError(c, err)
	}
	var req answerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	view, err := h.service.Answer(c.Request().Context(), ac, c.Param("session_id"), req.Text)
	if err != nil {
		return sessionError(c, view, err)
	}
	return c.JSON(http.StatusOK, view)
}

// RetrySession retries the session's last failed step.
// POST /v1/sessions/:session_id/retry
func (h *Handler) RetrySession(c echo.Context) error {
	ac, err := authContext(c)
	if err != nil {
		return jsonError(c, err)
	}

	view, err := h.service.Retry(c.Request().Context(), ac, c.Param("session_id"))
	if err != nil {
		return sessionError(c, view, err)
	}
	return c.JSON(http.StatusOK, view)
}

// GetSession returns the session snapshot and transcript.
// GET /v1/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	view, err := h.service.GetSession(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// CloseSession discards a live session.
// DELETE /v1/sessions/:session_id
func (h *Handler) CloseSession(c echo.Context) error {
	if err := h.service.CloseSession(c.Request().Context(), c.Param("session_id")); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSessions returns the archived session history.
// GET /v1/sessions
func (h *Handler) ListSessions(c echo.Context) error {
	sessions, err := h.service.ListSessions(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"sessions": sessions})
}

// sessionError reports a failed session operation. When a session exists its
// view rides along so the frontend keeps the transcript intact and can offer
// a retry of the failed step instead of going blank.
func sessionError(c echo.Context, view service.SessionView, err error) error {
	if view.Snapshot.SessionID == "" {
		return jsonError(c, err)
	}
	return c.JSON(errorStatus(err), map[string]any{
		"error":     err.Error(),
		"retryable": view.Snapshot.AwaitingRetry,
		"session":   view.Snapshot,
		"transcript": view.Transcript,
	})
}
