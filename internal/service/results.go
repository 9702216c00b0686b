package service

import (
	"context"
	"io"

	"github.com/traitflow/traitflow/internal/aggregate"
	"github.com/traitflow/traitflow/internal/auth"
	"github.com/traitflow/traitflow/internal/domain"
)

// CandidateSummary returns the merged profile+feedback snapshot for a
// completed session. Repeated reads are stable: nothing mutates as a side
// effect of reading.
func (s *Service) CandidateSummary(ctx context.Context, ac *auth.Context, sessionID string) (aggregate.CandidateSummary, error) {
	if err := s.authorize(ctx, ac, domain.OperationSummary); err != nil {
		return aggregate.CandidateSummary{}, err
	}
	return s.aggregator.CandidateSummary(ctx, ac, sessionID), nil
}

// Report streams the PDF feedback report for a completed session.
func (s *Service) Report(ctx context.Context, ac *auth.Context, sessionID string) (io.ReadCloser, error) {
	if err := s.authorize(ctx, ac, domain.OperationReport); err != nil {
		return nil, err
	}
	return s.gw.DownloadReport(ctx, ac, sessionID)
}

// RecruiterOverview returns the merged candidates+trends snapshot.
func (s *Service) RecruiterOverview(ctx context.Context, ac *auth.Context) (aggregate.RecruiterOverview, error) {
	if err := s.authorize(ctx, ac, domain.OperationListCandidates); err != nil {
		return aggregate.RecruiterOverview{}, err
	}
	if err := s.authorize(ctx, ac, domain.OperationTrends); err != nil {
		return aggregate.RecruiterOverview{}, err
	}
	return s.aggregator.RecruiterOverview(ctx, ac), nil
}

// Compare returns per-candidate trait matrices for the given candidate ids.
func (s *Service) Compare(ctx context.Context, ac *auth.Context, ids []string) (map[string][]domain.TraitScore, error) {
	if err := s.authorize(ctx, ac, domain.OperationCompare); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, domain.NewValidationError("candidate_ids must not be empty")
	}
	return s.aggregator.Compare(ctx, ac, ids)
}
