package rating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zuhre/internal/domain"
)

func reviewWithValues(values map[string]int) domain.Review {
	overall, _ := ComputeOverall(values, domain.DirectionCustomerRated)
	return domain.Review{
		ID:             "rev-1",
		SubjectID:      7,
		AuthorID:       3,
		Direction:      domain.DirectionCustomerRated,
		CriteriaValues: values,
		OverallRating:  overall,
		Content:        "описание инцидента при бронировании",
		CreatedAt:      time.Now(),
	}
}

func TestEvaluateWarningSeverity(t *testing.T) {
	t.Run("единица дает high", func(t *testing.T) {
		w := EvaluateWarning(reviewWithValues(map[string]int{"respect": 1}))
		require.NotNil(t, w)
		assert.Equal(t, domain.SeverityHigh, w.Severity)
		assert.Equal(t, domain.WarningTypeRespect, w.WarningType)
	})

	t.Run("двойка дает medium", func(t *testing.T) {
		w := EvaluateWarning(reviewWithValues(map[string]int{"respect": 2}))
		require.NotNil(t, w)
		assert.Equal(t, domain.SeverityMedium, w.Severity)
	})

	t.Run("тройка не дает предупреждения", func(t *testing.T) {
		assert.Nil(t, EvaluateWarning(reviewWithValues(map[string]int{"respect": 3})))
	})
}

func TestEvaluateWarningNonSensitiveIgnored(t *testing.T) {
	// Низкие оценки нечувствительных критериев сами по себе
	// предупреждение не порождают.
	w := EvaluateWarning(reviewWithValues(map[string]int{
		"punctuality": 1,
		"hygiene":     1,
		"behavior":    1,
	}))
	assert.Nil(t, w)
}

func TestEvaluateWarningWorstSignalWins(t *testing.T) {
	// respect=2 и payment=1: серьезность по худшему сигналу.
	w := EvaluateWarning(reviewWithValues(map[string]int{
		"respect": 2,
		"payment": 1,
	}))
	require.NotNil(t, w)
	assert.Equal(t, domain.SeverityHigh, w.Severity)
	assert.Equal(t, domain.WarningTypePayment, w.WarningType)
}

func TestEvaluateWarningSpecScenario(t *testing.T) {
	values := map[string]int{
		"punctuality": 5,
		"hygiene":     4,
		"respect":     1,
		"payment":     5,
		"behavior":    4,
	}
	review := reviewWithValues(values)
	assert.InDelta(t, 26.3/6.7, review.OverallRating, 1e-9)

	w := EvaluateWarning(review)
	require.NotNil(t, w)
	assert.Equal(t, domain.SeverityHigh, w.Severity)
	assert.Equal(t, domain.WarningTypeRespect, w.WarningType)
	require.NotNil(t, w.ReviewID)
	assert.Equal(t, review.ID, *w.ReviewID)
	assert.Equal(t, review.SubjectID, w.SubjectID)
	assert.Equal(t, review.AuthorID, w.IssuerID)
}

func TestEvaluateWarningAtMostOne(t *testing.T) {
	// Несколько сработавших чувствительных критериев — все равно одно
	// предупреждение на отзыв.
	w := EvaluateWarning(reviewWithValues(map[string]int{
		"respect": 1,
		"payment": 1,
	}))
	require.NotNil(t, w)
	assert.Equal(t, domain.SeverityHigh, w.Severity)
	// При равных значениях побеждает больший вес: payment (2.0) хуже respect (1.5).
	assert.Equal(t, domain.WarningTypePayment, w.WarningType)
}

func TestApplyCorroboration(t *testing.T) {
	warning := domain.Warning{ID: "w-1", UpvoteCount: 0}

	var changed bool
	for i := 0; i < CorroborationThreshold-1; i++ {
		warning, changed = ApplyCorroboration(warning, false)
		assert.True(t, changed)
		assert.False(t, warning.Verified)
	}

	warning, changed = ApplyCorroboration(warning, false)
	assert.True(t, changed)
	assert.True(t, warning.Verified)
	assert.Equal(t, CorroborationThreshold, warning.UpvoteCount)
}

func TestApplyCorroborationIdempotent(t *testing.T) {
	warning := domain.Warning{ID: "w-1", UpvoteCount: 1}

	updated, changed := ApplyCorroboration(warning, true)
	assert.False(t, changed)
	assert.Equal(t, warning, updated)
}
