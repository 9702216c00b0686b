// Package aggregate merges completed-session results for the candidate
// dashboard and cross-candidate data for the recruiter dashboard. Fetches
// that have no ordering dependency run in parallel, and one failed half never
// discards the succeeded half.
package aggregate

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/traitflow/traitflow/internal/auth"
	"github.com/traitflow/traitflow/internal/domain"
)

// trendScaleFactor converts the scoring service's 0-5 trend averages to the
// canonical 0-100 scale shared with profile scores.
const trendScaleFactor = 20

// bigFiveOrder is the display order for the standard traits; traits outside
// the set follow alphabetically.
var bigFiveOrder = []string{"Openness", "Conscientiousness", "Extraversion", "Agreeableness", "Neuroticism"}

// Gateway is the subset of the scoring service client the aggregator reads
// from. All operations are side-effect-free reads.
type Gateway interface {
	FetchProfile(ctx context.Context, ac *auth.Context, sessionID string) ([]domain.TraitScore, error)
	FetchFeedback(ctx context.Context, ac *auth.Context, sessionID string) (domain.FeedbackSummary, error)
	ListCandidates(ctx context.Context, ac *auth.Context) ([]domain.CandidateRecord, error)
	FetchTrends(ctx context.Context, ac *auth.Context) (map[string]float64, error)
	CompareCandidates(ctx context.Context, ac *auth.Context, ids []string) (map[string]map[string]float64, error)
}

// Aggregator merges scoring service reads into presentable snapshots.
type Aggregator struct {
	gw Gateway
}

// New creates an aggregator over the given gateway.
func New(gw Gateway) *Aggregator {
	return &Aggregator{gw: gw}
}

// CandidateSummary is the merged read-only snapshot for one completed
// session. Each half carries its own error so a partial failure still exposes
// the sibling's data.
type CandidateSummary struct {
	Profile     []domain.TraitScore
	ProfileErr  error
	Feedback    domain.FeedbackSummary
	FeedbackErr error
}

// CandidateSummary fetches the trait profile and narrative feedback for a
// completed session. The two calls are independent and run in parallel; both
// are always attempted. Scores are clamped to the canonical scale for display.
func (a *Aggregator) CandidateSummary(ctx context.Context, ac *auth.Context, sessionID string) CandidateSummary {
	var summary CandidateSummary

	var g errgroup.Group
	g.Go(func() error {
		profile, err := a.gw.FetchProfile(ctx, ac, sessionID)
		if err != nil {
			summary.ProfileErr = err
			return nil
		}
		summary.Profile = clampScores(profile)
		return nil
	})
	g.Go(func() error {
		feedback, err := a.gw.FetchFeedback(ctx, ac, sessionID)
		if err != nil {
			summary.FeedbackErr = err
			return nil
		}
		summary.Feedback = feedback
		return nil
	})
	g.Wait()

	return summary
}

// RecruiterOverview is the merged recruiter dashboard snapshot, with the same
// per-half failure isolation as CandidateSummary.
type RecruiterOverview struct {
	Candidates    []domain.CandidateRecord
	CandidatesErr error
	Trends        domain.TrendAggregate
	TrendsErr     error
}

// RecruiterOverview fetches the candidate list and cross-candidate trait
// trends in parallel. Trend averages are pre-aggregated remotely; locally
// they are only rescaled to 0-100 and clamped, never recomputed.
func (a *Aggregator) RecruiterOverview(ctx context.Context, ac *auth.Context) RecruiterOverview {
	var overview RecruiterOverview

	var g errgroup.Group
	g.Go(func() error {
		candidates, err := a.gw.ListCandidates(ctx, ac)
		if err != nil {
			overview.CandidatesErr = err
			return nil
		}
		overview.Candidates = candidates
		return nil
	})
	g.Go(func() error {
		trends, err := a.gw.FetchTrends(ctx, ac)
		if err != nil {
			overview.TrendsErr = err
			return nil
		}
		overview.Trends = buildTrendAggregate(trends)
		return nil
	})
	g.Wait()

	return overview
}

// Compare fetches per-candidate trait matrices for the given ids, clamped and
// in display order.
func (a *Aggregator) Compare(ctx context.Context, ac *auth.Context, ids []string) (map[string][]domain.TraitScore, error) {
	raw, err := a.gw.CompareCandidates(ctx, ac, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]domain.TraitScore, len(raw))
	for id, scores := range raw {
		out[id] = orderedScores(scores, 1)
	}
	return out, nil
}

// buildTrendAggregate rescales remote trend averages to the canonical scale
// and orders them for display.
func buildTrendAggregate(trends map[string]float64) domain.TrendAggregate {
	scores := orderedScores(trends, trendScaleFactor)
	agg := make(domain.TrendAggregate, 0, len(scores))
	for _, s := range scores {
		agg = append(agg, domain.TrendEntry{Trait: s.Trait, Average: s.Score})
	}
	return agg
}

// orderedScores converts a trait->value map into a clamped slice in display
// order: Big Five first, remaining traits alphabetically.
func orderedScores(values map[string]float64, scale float64) []domain.TraitScore {
	out := make([]domain.TraitScore, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, trait := range bigFiveOrder {
		if v, ok := values[trait]; ok {
			out = append(out, domain.TraitScore{Trait: trait, Score: domain.ClampScore(v * scale)})
			seen[trait] = true
		}
	}
	rest := make([]string, 0, len(values))
	for trait := range values {
		if !seen[trait] {
			rest = append(rest, trait)
		}
	}
	sort.Strings(rest)
	for _, trait := range rest {
		out = append(out, domain.TraitScore{Trait: trait, Score: domain.ClampScore(values[trait] * scale)})
	}
	return out
}

// clampScores bounds profile scores for display without reordering them.
func clampScores(scores []domain.TraitScore) []domain.TraitScore {
	out := make([]domain.TraitScore, len(scores))
	for i, s := range scores {
		out[i] = domain.TraitScore{Trait: s.Trait, Score: domain.ClampScore(s.Score)}
	}
	return out
}
