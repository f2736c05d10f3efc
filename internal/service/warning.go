package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"zuhre/internal/domain"
	"zuhre/internal/rating"
	"zuhre/internal/repository"
)

type WarningServiceImpl struct {
	repo     repository.WarningRepository
	userRepo repository.UserRepository
	notifier Notifier
	logger   *zap.Logger
}

func NewWarningService(
	repo repository.WarningRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	logger *zap.Logger,
) *WarningServiceImpl {
	return &WarningServiceImpl{
		repo:     repo,
		userRepo: userRepo,
		notifier: notifier,
		logger:   logger,
	}
}

// Flag создает предупреждение напрямую, без отзыва с низкими оценками.
// Такие жалобы всегда получают серьезность low: без сигнала от
// чувствительных критериев выше подниматься не с чего.
func (s *WarningServiceImpl) Flag(ctx context.Context, issuerID int64, dto domain.CreateWarningDTO) (*domain.Warning, error) {
	if dto.SubjectID == issuerID {
		return nil, errors.New("нельзя подать жалобу на самого себя")
	}

	if _, err := s.userRepo.GetByID(ctx, dto.SubjectID); err != nil {
		s.logger.Warn("субъект жалобы не найден", zap.Int64("subjectID", dto.SubjectID), zap.Error(err))
		return nil, errors.New("пользователь не найден")
	}

	warning := domain.Warning{
		ID:          uuid.New().String(),
		SubjectID:   dto.SubjectID,
		IssuerID:    issuerID,
		WarningType: dto.WarningType,
		Severity:    domain.SeverityLow,
		Comment:     dto.Comment,
		IssuedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, warning); err != nil {
		s.logger.Error("ошибка создания жалобы", zap.Error(err))
		return nil, errors.New("ошибка при создании жалобы")
	}

	s.notifier.WarningCreated(ctx, warning)

	return &warning, nil
}

// Corroborate засчитывает подтверждение предупреждения другой личностью.
// Повторное подтверждение той же личностью — no-op, не ошибка. Сам счетчик
// пересчитывается в хранилище атомарно: параллельные подтверждения
// разными личностями не затирают друг друга.
func (s *WarningServiceImpl) Corroborate(ctx context.Context, warningID string, corroboratorID int64) (*domain.Warning, error) {
	warning, err := s.repo.GetByID(ctx, warningID)
	if err != nil {
		s.logger.Warn("предупреждение не найдено", zap.String("warningID", warningID), zap.Error(err))
		return nil, errors.New("предупреждение не найдено")
	}

	already, err := s.repo.HasCorroborated(ctx, warningID, corroboratorID)
	if err != nil {
		s.logger.Error("ошибка проверки подтверждения", zap.Error(err))
		return nil, errors.New("ошибка при подтверждении")
	}

	if _, changed := rating.ApplyCorroboration(*warning, already); !changed {
		return warning, nil
	}

	updated, applied, err := s.repo.RecordCorroboration(ctx, warningID, corroboratorID)
	if err != nil {
		s.logger.Error("ошибка записи подтверждения", zap.Error(err))
		return nil, errors.New("ошибка при подтверждении")
	}
	// Параллельное подтверждение той же личностью успело раньше.
	if !applied {
		return warning, nil
	}

	return updated, nil
}

func (s *WarningServiceImpl) GetByID(ctx context.Context, id string) (*domain.Warning, error) {
	warning, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения предупреждения", zap.String("id", id), zap.Error(err))
		return nil, errors.New("предупреждение не найдено")
	}
	return warning, nil
}

func (s *WarningServiceImpl) ListBySubject(ctx context.Context, subjectID int64) ([]domain.Warning, error) {
	warnings, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		s.logger.Error("ошибка получения предупреждений",
			zap.Int64("subjectID", subjectID), zap.Error(err))
		return nil, errors.New("ошибка при получении предупреждений")
	}
	return warnings, nil
}
