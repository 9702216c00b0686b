// Package v1 provides the HTTP handlers exposed to the assessment frontend.
package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/traitflow/traitflow/internal/auth"
	"github.com/traitflow/traitflow/internal/domain"
	"github.com/traitflow/traitflow/internal/service"
	"github.com/traitflow/traitflow/internal/session"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/login", h.Login)

	// Candidate assessment flow
	e.GET("/v1/sessions", h.ListSessions)
	e.POST("/v1/sessions", h.StartSession)
	e.GET("/v1/sessions/:session_id", h.GetSession)
	e.DELETE("/v1/sessions/:session_id", h.CloseSession)
	e.POST("/v1/sessions/:session_id/answers", h.SubmitAnswer)
	e.POST("/v1/sessions/:session_id/retry", h.RetrySession)
	e.GET("/v1/sessions/:session_id/summary", h.CandidateSummary)
	e.GET("/v1/sessions/:session_id/report", h.DownloadReport)

	// Recruiter dashboard
	e.GET("/v1/recruiter/overview", h.RecruiterOverview)
	e.POST("/v1/recruiter/compare", h.CompareCandidates)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// authContext builds the per-request authentication context from the bearer
// token. The token was issued by the scoring service at login; requests
// without one get a uniform 401.
func authContext(c echo.Context) (*auth.Context, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, domain.NewAuthError("missing bearer token")
	}
	return auth.FromToken(strings.TrimSpace(token))
}

// errorStatus maps orchestration errors to HTTP statuses.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrAlreadyStarted),
		errors.Is(err, session.ErrNotStarted),
		errors.Is(err, session.ErrCompleted),
		errors.Is(err, session.ErrClosed),
		errors.Is(err, session.ErrRoundTripInFlight),
		errors.Is(err, session.ErrNoCurrentQuestion),
		errors.Is(err, session.ErrAwaitingRetry),
		errors.Is(err, session.ErrNothingToRetry):
		return http.StatusConflict
	}

	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindService:
		return http.StatusBadGateway
	case domain.KindNetwork:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// jsonError writes the uniform error body.
func jsonError(c echo.Context, err error) error {
	return c.JSON(errorStatus(err), map[string]string{"error": err.Error()})
}
