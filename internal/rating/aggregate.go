package rating

import (
	"errors"
	"math"
	"time"

	"zuhre/internal/domain"
)

// ComputeOverall считает взвешенное среднее по присутствующим критериям:
// Σ(value*weight) / Σ(weight). Отсутствующие критерии не вносят вес,
// поэтому частично заполненная форма не тянет результат к умолчанию.
func ComputeOverall(values map[string]int, direction domain.Direction) (float64, error) {
	registry, err := RegistryFor(direction)
	if err != nil {
		return 0, err
	}

	if len(values) == 0 {
		return 0, errors.New("нет ни одного критерия для расчета")
	}

	var weightedSum, weightSum float64
	for key, value := range values {
		criterion, ok := registry.Criterion(key)
		if !ok {
			return 0, errors.New("неизвестный критерий: " + key)
		}
		weightedSum += float64(value) * criterion.Weight
		weightSum += criterion.Weight
	}

	return weightedSum / weightSum, nil
}

// Bucket возвращает корзину распределения 1..5 для итоговой оценки.
func Bucket(overall float64) int {
	bucket := int(math.Round(overall))
	if bucket < 1 {
		bucket = 1
	}
	if bucket > 5 {
		bucket = 5
	}
	return bucket
}

// Fold инкрементально добавляет принятый отзыв в статистику субъекта.
// Вызовы для одного субъекта должны выполняться строго последовательно,
// за это отвечает вызывающая сторона.
func Fold(stats domain.ReputationStats, review domain.Review) domain.ReputationStats {
	oldCount := stats.Count
	newCount := oldCount + 1

	stats.Average = (stats.Average*float64(oldCount) + review.OverallRating) / float64(newCount)
	stats.Count = newCount
	stats.Distribution[Bucket(review.OverallRating)-1]++
	if review.IsVerifiedBooking {
		stats.VerifiedCount++
	}
	stats.UpdatedAt = time.Now()

	return stats
}

// Replay пересчитывает статистику с нуля по полной истории отзывов.
// Используется для проверки согласованности инкрементальных обновлений.
func Replay(subjectID int64, direction domain.Direction, reviews []domain.Review) domain.ReputationStats {
	stats := domain.ReputationStats{
		SubjectID: subjectID,
		Direction: direction,
	}
	for _, review := range reviews {
		stats = Fold(stats, review)
	}
	return stats
}

// StatsEqual сравнивает воспроизведенную статистику с сохраненной
// с допуском на накопленную погрешность плавающей точки.
// LastPeriodCount и UpdatedAt не сравниваются: это поля чтения.
func StatsEqual(a, b domain.ReputationStats) bool {
	const epsilon = 1e-9

	if a.Count != b.Count || a.VerifiedCount != b.VerifiedCount {
		return false
	}
	if a.Distribution != b.Distribution {
		return false
	}
	return math.Abs(a.Average-b.Average) < epsilon
}
