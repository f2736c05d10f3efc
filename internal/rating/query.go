package rating

import (
	"sort"

	"zuhre/internal/domain"
)

const DefaultPageLimit = 10

// Query фильтрует, сортирует и разбивает на страницы коллекцию отзывов.
// Чистая проекция чтения: входной срез не меняется, хранение коллекции —
// забота вызывающей стороны.
func Query(reviews []domain.Review, filter domain.ReviewFilter, sortKey domain.ReviewSort, page domain.Page) domain.PagedResult {
	filtered := make([]domain.Review, 0, len(reviews))
	for _, review := range reviews {
		if filter.MinRating != nil && review.OverallRating < *filter.MinRating {
			continue
		}
		if filter.VerifiedOnly && !review.IsVerifiedBooking {
			continue
		}
		filtered = append(filtered, review)
	}

	sort.Slice(filtered, lessFunc(filtered, sortKey))

	limit := page.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}

	total := len(filtered)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	items := make([]domain.Review, end-offset)
	copy(items, filtered[offset:end])

	return domain.PagedResult{
		Items:      items,
		TotalCount: total,
		HasMore:    end < total,
	}
}

// lessFunc строит тотальный порядок для ключа сортировки; ничьи всегда
// разрешаются по ID, чтобы пагинация была детерминированной.
func lessFunc(reviews []domain.Review, sortKey domain.ReviewSort) func(i, j int) bool {
	byID := func(i, j int) bool {
		return reviews[i].ID < reviews[j].ID
	}

	switch sortKey {
	case domain.ReviewSortOldest:
		return func(i, j int) bool {
			if !reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
				return reviews[i].CreatedAt.Before(reviews[j].CreatedAt)
			}
			return byID(i, j)
		}
	case domain.ReviewSortHighest:
		return func(i, j int) bool {
			if reviews[i].OverallRating != reviews[j].OverallRating {
				return reviews[i].OverallRating > reviews[j].OverallRating
			}
			return byID(i, j)
		}
	case domain.ReviewSortLowest:
		return func(i, j int) bool {
			if reviews[i].OverallRating != reviews[j].OverallRating {
				return reviews[i].OverallRating < reviews[j].OverallRating
			}
			return byID(i, j)
		}
	case domain.ReviewSortHelpful:
		return func(i, j int) bool {
			if reviews[i].HelpfulCount != reviews[j].HelpfulCount {
				return reviews[i].HelpfulCount > reviews[j].HelpfulCount
			}
			return byID(i, j)
		}
	default: // newest
		return func(i, j int) bool {
			if !reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
				return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
			}
			return byID(i, j)
		}
	}
}
