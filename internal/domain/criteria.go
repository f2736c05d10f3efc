package domain

// Direction определяет, кого оценивает отзыв: исполнителя услуги или клиента.
// Для каждого направления действует собственный набор критериев.
type Direction string

const (
	DirectionProviderRated Direction = "provider_rated"
	DirectionCustomerRated Direction = "customer_rated"
)

func (d Direction) Valid() bool {
	return d == DirectionProviderRated || d == DirectionCustomerRated
}

// Subject возвращает ID оцениваемой стороны бронирования для данного направления.
func (d Direction) Subject(b *Booking) int64 {
	if d == DirectionProviderRated {
		return b.ProviderID
	}
	return b.ClientID
}

// Author возвращает ID автора отзыва для данного направления.
func (d Direction) Author(b *Booking) int64 {
	if d == DirectionProviderRated {
		return b.ClientID
	}
	return b.ProviderID
}

// RatingCriterion — неизменяемое описание одного взвешенного критерия оценки.
// Sensitive помечает критерии, низкая оценка по которым может породить предупреждение.
type RatingCriterion struct {
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	Weight    float64 `json:"weight"`
	Sensitive bool    `json:"sensitive"`
}
