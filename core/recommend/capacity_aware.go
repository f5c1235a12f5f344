// Package recommend - Capacity-aware recommendation
package recommend

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"cloud-planner/core/capacity"
	"cloud-planner/core/model"
	"cloud-planner/internal/logging"
)

// CapacityAwareRecommendation extends Recommendation with the live capacity
// observation that produced its adjusted confidence.
type CapacityAwareRecommendation struct {
	Recommendation

	CapacityAvailable bool    `json:"capacity_available"`
	CapacityLevel     float64 `json:"capacity_level"`
}

// CapacityAwareRecommender filters and rescales base recommendations by live
// capacity. Candidates whose capacity check fails are excluded conservatively,
// the same as an explicit "unavailable".
type CapacityAwareRecommender struct {
	*Recommender
	aggregator *capacity.Aggregator
	log        *zap.Logger
}

// NewCapacityAwareRecommender creates a recommender that consults the given
// aggregator for live availability.
func NewCapacityAwareRecommender(constraints []model.Constraint, aggregator *capacity.Aggregator) *CapacityAwareRecommender {
	return &CapacityAwareRecommender{
		Recommender: NewRecommender(constraints),
		aggregator:  aggregator,
		log:         logging.Named("recommend"),
	}
}

// Recommend ranks candidates like the base recommender, then drops any whose
// live capacity reports unavailable and rescales the rest's confidence by
// 0.5 + 0.5 x capacity level before re-sorting.
func (r *CapacityAwareRecommender) Recommend(ctx context.Context, requirements model.Requirements, existingUsage []model.Usage) []CapacityAwareRecommendation {
	base := r.Recommender.Recommend(requirements, existingUsage)

	recommendations := make([]CapacityAwareRecommendation, 0, len(base))
	for _, rec := range base {
		result, err := r.aggregator.CheckAvailability(ctx, rec.Provider, rec.Region, rec.ResourceType)
		if err != nil {
			r.log.Debug("excluding candidate, capacity check failed",
				zap.String("provider", rec.Provider.String()),
				zap.String("region", rec.Region.String()),
				zap.String("resource_type", rec.ResourceType),
				zap.Error(err))
			continue
		}
		if !result.Available {
			continue
		}

		adjusted := rec
		adjusted.ConfidenceScore = rec.ConfidenceScore * (0.5 + 0.5*result.CapacityLevel)
		recommendations = append(recommendations, CapacityAwareRecommendation{
			Recommendation:    adjusted,
			CapacityAvailable: true,
			CapacityLevel:     result.CapacityLevel,
		})
	}

	sortCapacityAware(recommendations)
	return recommendations
}

// RecommendBestFit returns the top capacity-aware candidate, or nil.
func (r *CapacityAwareRecommender) RecommendBestFit(ctx context.Context, requirements model.Requirements, existingUsage []model.Usage) *CapacityAwareRecommendation {
	recommendations := r.Recommend(ctx, requirements, existingUsage)
	if len(recommendations) == 0 {
		return nil
	}
	return &recommendations[0]
}

func sortCapacityAware(recommendations []CapacityAwareRecommendation) {
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].ConfidenceScore > recommendations[j].ConfidenceScore
	})
}
