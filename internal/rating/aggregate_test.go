package rating

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zuhre/internal/domain"
)

func TestComputeOverallWeightedMean(t *testing.T) {
	// Пример из документации: (5*1 + 4*1.2 + 1*1.5 + 5*2 + 4*1) / 6.7
	values := map[string]int{
		"punctuality": 5,
		"hygiene":     4,
		"respect":     1,
		"payment":     5,
		"behavior":    4,
	}

	overall, err := ComputeOverall(values, domain.DirectionCustomerRated)
	require.NoError(t, err)
	assert.InDelta(t, 26.3/6.7, overall, 1e-9)
}

func TestComputeOverallPartialSubmission(t *testing.T) {
	// Отсутствующие критерии не вносят вес и не тянут результат вниз.
	overall, err := ComputeOverall(map[string]int{"payment": 5}, domain.DirectionCustomerRated)
	require.NoError(t, err)
	assert.Equal(t, 5.0, overall)
}

func TestComputeOverallRange(t *testing.T) {
	registry, err := RegistryFor(domain.DirectionProviderRated)
	require.NoError(t, err)

	for value := 1; value <= 5; value++ {
		values := make(map[string]int)
		for _, c := range registry.Criteria() {
			values[c.Key] = value
		}
		overall, err := ComputeOverall(values, domain.DirectionProviderRated)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, overall, 1.0)
		assert.LessOrEqual(t, overall, 5.0)
		assert.InDelta(t, float64(value), overall, 1e-9)
	}
}

func TestComputeOverallUnknownCriterion(t *testing.T) {
	_, err := ComputeOverall(map[string]int{"telepathy": 5}, domain.DirectionCustomerRated)
	assert.Error(t, err)
}

func TestComputeOverallEmpty(t *testing.T) {
	_, err := ComputeOverall(map[string]int{}, domain.DirectionCustomerRated)
	assert.Error(t, err)
}

func TestBucket(t *testing.T) {
	assert.Equal(t, 4, Bucket(26.3/6.7))
	assert.Equal(t, 1, Bucket(1.0))
	assert.Equal(t, 5, Bucket(5.0))
	assert.Equal(t, 3, Bucket(3.4))
	assert.Equal(t, 4, Bucket(3.5))
	assert.Equal(t, 1, Bucket(0.2))
	assert.Equal(t, 5, Bucket(5.7))
}

func makeReview(id string, overall float64, verified bool) domain.Review {
	return domain.Review{
		ID:                id,
		SubjectID:         7,
		Direction:         domain.DirectionProviderRated,
		OverallRating:     overall,
		IsVerifiedBooking: verified,
		CreatedAt:         time.Now(),
	}
}

func TestFoldIncrements(t *testing.T) {
	stats := domain.ReputationStats{SubjectID: 7, Direction: domain.DirectionProviderRated}

	stats = Fold(stats, makeReview("a", 5.0, true))
	stats = Fold(stats, makeReview("b", 3.0, false))

	assert.Equal(t, 2, stats.Count)
	assert.InDelta(t, 4.0, stats.Average, 1e-9)
	assert.Equal(t, 1, stats.VerifiedCount)
	assert.Equal(t, [5]int{0, 0, 1, 0, 1}, stats.Distribution)
}

func TestFoldOrderIndependent(t *testing.T) {
	reviews := []domain.Review{
		makeReview("a", 4.2, true),
		makeReview("b", 1.7, false),
		makeReview("c", 3.93, true),
		makeReview("d", 5.0, false),
	}

	forward := domain.ReputationStats{}
	for _, r := range reviews {
		forward = Fold(forward, r)
	}

	backward := domain.ReputationStats{}
	for i := len(reviews) - 1; i >= 0; i-- {
		backward = Fold(backward, reviews[i])
	}

	assert.Equal(t, forward.Count, backward.Count)
	assert.Equal(t, forward.Distribution, backward.Distribution)
	assert.Equal(t, forward.VerifiedCount, backward.VerifiedCount)
	assert.InDelta(t, forward.Average, backward.Average, 1e-9)
}

func TestReplayReproducesStats(t *testing.T) {
	reviews := []domain.Review{
		makeReview("a", 4.5, true),
		makeReview("b", 2.0, false),
		makeReview("c", 3.93, true),
	}

	incremental := domain.ReputationStats{SubjectID: 7, Direction: domain.DirectionProviderRated}
	for _, r := range reviews {
		incremental = Fold(incremental, r)
	}

	replayed := Replay(7, domain.DirectionProviderRated, reviews)

	assert.True(t, StatsEqual(incremental, replayed))
}

func TestStatsEqualTolerance(t *testing.T) {
	a := domain.ReputationStats{Count: 3, Average: 4.0}
	b := domain.ReputationStats{Count: 3, Average: 4.0 + 1e-12}
	assert.True(t, StatsEqual(a, b))

	c := domain.ReputationStats{Count: 3, Average: 4.0 + 1e-6}
	assert.False(t, StatsEqual(a, c))

	d := domain.ReputationStats{Count: 4, Average: 4.0}
	assert.False(t, StatsEqual(a, d))
}

func TestFoldAverageStaysInRange(t *testing.T) {
	stats := domain.ReputationStats{}
	for i := 0; i < 100; i++ {
		overall := 1.0 + math.Mod(float64(i)*0.37, 4.0)
		stats = Fold(stats, makeReview("r", overall, i%2 == 0))
	}
	assert.GreaterOrEqual(t, stats.Average, 1.0)
	assert.LessOrEqual(t, stats.Average, 5.0)
	assert.Equal(t, 100, stats.Count)
}
