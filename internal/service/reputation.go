package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"zuhre/internal/domain"
	"zuhre/internal/rating"
	"zuhre/internal/repository"
)

type ReputationServiceImpl struct {
	repo        repository.ReputationRepository
	reviewRepo  repository.ReviewRepository
	warningRepo repository.WarningRepository
	logger      *zap.Logger
}

func NewReputationService(
	repo repository.ReputationRepository,
	reviewRepo repository.ReviewRepository,
	warningRepo repository.WarningRepository,
	logger *zap.Logger,
) *ReputationServiceImpl {
	return &ReputationServiceImpl{
		repo:        repo,
		reviewRepo:  reviewRepo,
		warningRepo: warningRepo,
		logger:      logger,
	}
}

func (s *ReputationServiceImpl) Summary(ctx context.Context, subjectID int64, direction domain.Direction) (*domain.ReputationSummary, error) {
	if !direction.Valid() {
		return nil, errors.New("неизвестное направление оценки")
	}

	stats, err := s.repo.Get(ctx, subjectID, direction)
	if err != nil {
		s.logger.Error("ошибка получения статистики", zap.Int64("subjectID", subjectID), zap.Error(err))
		return nil, errors.New("ошибка при получении репутации")
	}

	warningCount, err := s.warningRepo.CountBySubject(ctx, subjectID)
	if err != nil {
		s.logger.Error("ошибка подсчета предупреждений", zap.Int64("subjectID", subjectID), zap.Error(err))
		return nil, errors.New("ошибка при получении репутации")
	}

	return &domain.ReputationSummary{
		Stats:        *stats,
		WarningCount: warningCount,
		Tier:         rating.Classify(*stats, warningCount),
	}, nil
}

// CheckConsistency сверяет инкрементальную статистику с полным
// пересчетом истории отзывов. Расхождение — дефект целостности данных,
// а не пользовательская ошибка.
func (s *ReputationServiceImpl) CheckConsistency(ctx context.Context, subjectID int64, direction domain.Direction) (bool, *domain.ReputationStats, *domain.ReputationStats, error) {
	if !direction.Valid() {
		return false, nil, nil, errors.New("неизвестное направление оценки")
	}

	stored, err := s.repo.Get(ctx, subjectID, direction)
	if err != nil {
		return false, nil, nil, errors.New("ошибка при получении статистики")
	}

	reviews, err := s.reviewRepo.ListBySubject(ctx, subjectID, direction)
	if err != nil {
		return false, nil, nil, errors.New("ошибка при получении отзывов")
	}

	replayed := rating.Replay(subjectID, direction, reviews)
	ok := rating.StatsEqual(*stored, replayed)
	if !ok {
		s.logger.Error("статистика репутации расходится с историей отзывов",
			zap.Int64("subjectID", subjectID),
			zap.String("direction", string(direction)),
			zap.Int("storedCount", stored.Count),
			zap.Int("replayedCount", replayed.Count))
	}

	return ok, stored, &replayed, nil
}
