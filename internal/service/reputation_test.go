package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"zuhre/internal/domain"
)

func TestReputationServiceSummary(t *testing.T) {
	ctx := context.Background()

	statsRepo := &fakeReputationRepo{stats: map[string]domain.ReputationStats{
		"2/provider_rated": {
			SubjectID:    2,
			Direction:    domain.DirectionProviderRated,
			Average:      4.7,
			Count:        12,
			Distribution: [5]int{0, 0, 1, 2, 9},
		},
	}}

	svc := NewReputationService(statsRepo, &fakeReviewRepo{}, newFakeWarningRepo(), zap.NewNop())

	summary, err := svc.Summary(ctx, 2, domain.DirectionProviderRated)
	require.NoError(t, err)
	assert.Equal(t, domain.TierExcellent, summary.Tier)
	assert.Equal(t, 0, summary.WarningCount)
	assert.InDelta(t, 4.7, summary.Stats.Average, 1e-9)
}

func TestReputationServiceSummaryWithWarnings(t *testing.T) {
	ctx := context.Background()

	warningRepo := newFakeWarningRepo()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, warningRepo.Create(ctx, domain.Warning{
			ID:          id,
			SubjectID:   5,
			WarningType: domain.WarningTypeBehavior,
			Severity:    domain.SeverityLow,
		}))
	}

	svc := NewReputationService(&fakeReputationRepo{}, &fakeReviewRepo{}, warningRepo, zap.NewNop())

	summary, err := svc.Summary(ctx, 5, domain.DirectionCustomerRated)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.WarningCount)
	assert.Equal(t, domain.TierRisky, summary.Tier)
}

func TestReputationServiceCheckConsistency(t *testing.T) {
	ctx := context.Background()

	reviewRepo := &fakeReviewRepo{}
	f := newReviewFixture(completedBooking())

	review, err := f.svc.Submit(ctx, 1, domain.CreateReviewDTO{
		BookingID:      42,
		Direction:      domain.DirectionProviderRated,
		CriteriaValues: map[string]int{"service_quality": 4},
	})
	require.NoError(t, err)

	reviewRepo.reviews = f.reviewRepo.reviews

	storedStats := f.reviewRepo.createdStats[len(f.reviewRepo.createdStats)-1]
	statsRepo := &fakeReputationRepo{stats: map[string]domain.ReputationStats{
		"2/provider_rated": storedStats,
	}}

	svc := NewReputationService(statsRepo, reviewRepo, newFakeWarningRepo(), zap.NewNop())

	ok, stored, recomputed, err := svc.CheckConsistency(ctx, 2, domain.DirectionProviderRated)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, stored.Count, recomputed.Count)
	assert.Equal(t, review.SubjectID, stored.SubjectID)

	// Порча сохраненной статистики обнаруживается сверкой.
	corrupted := storedStats
	corrupted.Average += 0.5
	corrupted.UpdatedAt = time.Now()
	statsRepo.stats["2/provider_rated"] = corrupted

	ok, _, _, err = svc.CheckConsistency(ctx, 2, domain.DirectionProviderRated)
	require.NoError(t, err)
	assert.False(t, ok)
}
