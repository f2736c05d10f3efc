package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"zuhre/internal/domain"
)

func TestClassifyRuleOrder(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		average  float64
		warnings int
		want     domain.ReputationTier
	}{
		{"три предупреждения перевешивают любой балл", 50, 5.0, 3, domain.TierRisky},
		{"одно предупреждение перевешивает любой балл", 50, 5.0, 1, domain.TierCaution},
		{"два предупреждения это еще caution", 50, 5.0, 2, domain.TierCaution},
		{"малая выборка перевешивает высокий балл", 1, 5.0, 0, domain.TierNew},
		{"ноль отзывов", 0, 0.0, 0, domain.TierNew},
		{"два отзыва", 2, 4.9, 0, domain.TierNew},
		{"отличный", 10, 4.5, 0, domain.TierExcellent},
		{"надежный", 10, 4.2, 0, domain.TierTrusted},
		{"граница надежного", 10, 4.0, 0, domain.TierTrusted},
		{"средний", 10, 3.5, 0, domain.TierAverage},
		{"граница среднего", 10, 3.0, 0, domain.TierAverage},
		{"плохой", 10, 2.9, 0, domain.TierPoor},
		{"худший", 10, 1.0, 0, domain.TierPoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := domain.ReputationStats{
				Count:   tt.count,
				Average: tt.average,
			}
			assert.Equal(t, tt.want, Classify(stats, tt.warnings))
		})
	}
}

func TestClassifyTotal(t *testing.T) {
	// Для любой пары (stats, warnings) возвращается ровно один уровень.
	for count := 0; count <= 6; count++ {
		for warnings := 0; warnings <= 4; warnings++ {
			for _, average := range []float64{0, 1, 2.5, 3.0, 3.9, 4.0, 4.4, 4.5, 5.0} {
				tier := Classify(domain.ReputationStats{Count: count, Average: average}, warnings)
				assert.NotEmpty(t, tier)
			}
		}
	}
}
