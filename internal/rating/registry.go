package rating

import (
	"fmt"

	"zuhre/internal/domain"
)

// Registry — неизменяемый набор взвешенных критериев одного направления.
// Наборы задаются при старте процесса и не меняются.
type Registry struct {
	direction domain.Direction
	criteria  map[string]domain.RatingCriterion
}

var providerRegistry = newRegistry(domain.DirectionProviderRated, []domain.RatingCriterion{
	{Key: "service_quality", Label: "Качество услуги", Weight: 1.5},
	{Key: "punctuality", Label: "Пунктуальность", Weight: 1.0},
	{Key: "hygiene", Label: "Гигиена", Weight: 1.2},
	{Key: "communication", Label: "Общение", Weight: 1.0},
	{Key: "respect", Label: "Уважительность", Weight: 1.5, Sensitive: true},
	{Key: "price_quality", Label: "Цена/качество", Weight: 1.0},
})

var customerRegistry = newRegistry(domain.DirectionCustomerRated, []domain.RatingCriterion{
	{Key: "punctuality", Label: "Пунктуальность", Weight: 1.0},
	{Key: "hygiene", Label: "Гигиена", Weight: 1.2},
	{Key: "respect", Label: "Уважительность", Weight: 1.5, Sensitive: true},
	{Key: "payment", Label: "Надежность оплаты", Weight: 2.0, Sensitive: true},
	{Key: "behavior", Label: "Поведение", Weight: 1.0},
})

// knownTags — фиксированный набор допустимых тегов отзыва.
var knownTags = map[string]struct{}{
	"polite":        {},
	"on_time":       {},
	"clean":         {},
	"great_service": {},
	"good_value":    {},
	"would_repeat":  {},
	"late":          {},
	"rude":          {},
	"unclean":       {},
	"no_show":       {},
}

func newRegistry(direction domain.Direction, criteria []domain.RatingCriterion) *Registry {
	m := make(map[string]domain.RatingCriterion, len(criteria))
	for _, c := range criteria {
		m[c.Key] = c
	}
	return &Registry{
		direction: direction,
		criteria:  m,
	}
}

func RegistryFor(direction domain.Direction) (*Registry, error) {
	switch direction {
	case domain.DirectionProviderRated:
		return providerRegistry, nil
	case domain.DirectionCustomerRated:
		return customerRegistry, nil
	}
	return nil, fmt.Errorf("неизвестное направление оценки: %s", direction)
}

func (r *Registry) Direction() domain.Direction {
	return r.direction
}

func (r *Registry) Criterion(key string) (domain.RatingCriterion, bool) {
	c, ok := r.criteria[key]
	return c, ok
}

func (r *Registry) Criteria() []domain.RatingCriterion {
	out := make([]domain.RatingCriterion, 0, len(r.criteria))
	for _, c := range r.criteria {
		out = append(out, c)
	}
	return out
}

func IsKnownTag(id string) bool {
	_, ok := knownTags[id]
	return ok
}
