package domain

import (
	"time"
)

// Review — принятый отзыв. Создается только валидатором, после создания
// неизменяем, кроме счетчика HelpfulCount.
type Review struct {
	ID        string    `json:"id"`
	SubjectID int64     `json:"subject_id"`
	AuthorID  int64     `json:"-"`
	BookingID int64     `json:"booking_id"`
	Direction Direction `json:"direction"`

	CriteriaValues map[string]int `json:"criteria_values"`

	// OverallRating — взвешенное среднее по критериям, именно оно
	// участвует в агрегации. AuthorRating — явная оценка автора,
	// используется только для отображения.
	OverallRating float64 `json:"overall_rating"`
	AuthorRating  *int    `json:"author_rating,omitempty"`

	Title   string   `json:"title,omitempty"`
	Content string   `json:"content,omitempty"`
	Tags    []string `json:"tags,omitempty"`

	Attachments []string `json:"attachments,omitempty"`

	IsVerifiedBooking bool      `json:"is_verified_booking"`
	HelpfulCount      int       `json:"helpful_count"`
	CreatedAt         time.Time `json:"created_at"`
}

type CreateReviewDTO struct {
	BookingID int64     `json:"booking_id" binding:"required"`
	Direction Direction `json:"direction" binding:"required,oneof=provider_rated customer_rated"`

	CriteriaValues map[string]int `json:"criteria_values" binding:"required"`
	AuthorRating   *int           `json:"author_rating" binding:"omitempty,min=1,max=5"`

	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	Attachments []string `json:"attachments"`
}

type ReviewSort string

const (
	ReviewSortNewest  ReviewSort = "newest"
	ReviewSortOldest  ReviewSort = "oldest"
	ReviewSortHighest ReviewSort = "highest"
	ReviewSortLowest  ReviewSort = "lowest"
	ReviewSortHelpful ReviewSort = "helpful"
)

func (s ReviewSort) Valid() bool {
	switch s {
	case ReviewSortNewest, ReviewSortOldest, ReviewSortHighest, ReviewSortLowest, ReviewSortHelpful:
		return true
	}
	return false
}

type ReviewFilter struct {
	MinRating    *float64 `json:"min_rating"`
	VerifiedOnly bool     `json:"verified_only"`
}

type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type PagedResult struct {
	Items      []Review `json:"items"`
	TotalCount int      `json:"total_count"`
	HasMore    bool     `json:"has_more"`
}
