package rating

import (
	"zuhre/internal/domain"
)

const (
	// sensitiveThreshold — оценка чувствительного критерия, начиная
	// с которой предупреждение не создается.
	sensitiveThreshold = 2

	// CorroborationThreshold — число различных подтвердивших, после
	// которого предупреждение считается подтвержденным.
	CorroborationThreshold = 3
)

var criterionWarningTypes = map[string]domain.WarningType{
	"payment": domain.WarningTypePayment,
	"respect": domain.WarningTypeRespect,
}

// EvaluateWarning решает, порождает ли принятый отзыв предупреждение.
// Кандидат появляется, когда любой чувствительный критерий оценен на 2 и
// ниже; серьезность берется по худшему из сработавших сигналов. Отзыв
// порождает не более одного предупреждения.
func EvaluateWarning(review domain.Review) *domain.Warning {
	registry, err := RegistryFor(review.Direction)
	if err != nil {
		return nil
	}

	worstValue := sensitiveThreshold + 1
	var worst domain.RatingCriterion
	for key, value := range review.CriteriaValues {
		criterion, ok := registry.Criterion(key)
		if !ok || !criterion.Sensitive || value > sensitiveThreshold {
			continue
		}
		if value < worstValue || (value == worstValue && worseSignal(criterion, worst)) {
			worstValue = value
			worst = criterion
		}
	}

	if worstValue > sensitiveThreshold {
		return nil
	}

	severity := domain.SeverityMedium
	if worstValue == 1 {
		severity = domain.SeverityHigh
	}

	warningType, ok := criterionWarningTypes[worst.Key]
	if !ok {
		warningType = domain.WarningTypeBehavior
	}

	reviewID := review.ID
	return &domain.Warning{
		SubjectID:   review.SubjectID,
		IssuerID:    review.AuthorID,
		ReviewID:    &reviewID,
		WarningType: warningType,
		Severity:    severity,
		Comment:     review.Content,
		IssuedAt:    review.CreatedAt,
	}
}

// worseSignal разрешает ничью между одинаково низкими сигналами:
// больший вес хуже, при равном весе берется меньший ключ.
func worseSignal(candidate, current domain.RatingCriterion) bool {
	if current.Key == "" {
		return true
	}
	if candidate.Weight != current.Weight {
		return candidate.Weight > current.Weight
	}
	return candidate.Key < current.Key
}

// ApplyCorroboration засчитывает подтверждение предупреждения.
// Повторное подтверждение той же личностью — no-op: идемпотентность
// обеспечивается флагом already, который выставляет вызывающая сторона
// по учету личностей подтвердивших.
func ApplyCorroboration(warning domain.Warning, already bool) (domain.Warning, bool) {
	if already {
		return warning, false
	}

	warning.UpvoteCount++
	if warning.UpvoteCount >= CorroborationThreshold {
		warning.Verified = true
	}
	return warning, true
}
