package rating

import (
	"zuhre/internal/domain"
)

const (
	riskyWarnings   = 3
	cautionWarnings = 1
	minReviewCount  = 3

	excellentAverage = 4.5
	trustedAverage   = 4.0
	averageAverage   = 3.0
)

// Classify выводит уровень репутации из статистики и числа активных
// предупреждений. Правила применяются по порядку, первое совпавшее
// выигрывает: риск от предупреждений всегда перевешивает высокий средний
// балл, а малая выборка перевешивает предварительный средний балл.
func Classify(stats domain.ReputationStats, activeWarningCount int) domain.ReputationTier {
	switch {
	case activeWarningCount >= riskyWarnings:
		return domain.TierRisky
	case activeWarningCount >= cautionWarnings:
		return domain.TierCaution
	case stats.Count < minReviewCount:
		return domain.TierNew
	case stats.Average >= excellentAverage:
		return domain.TierExcellent
	case stats.Average >= trustedAverage:
		return domain.TierTrusted
	case stats.Average >= averageAverage:
		return domain.TierAverage
	default:
		return domain.TierPoor
	}
}
