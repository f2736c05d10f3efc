package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"zuhre/internal/domain"
	"zuhre/internal/repository"
)

type BookingServiceImpl struct {
	repo     repository.BookingRepository
	userRepo repository.UserRepository
	logger   *zap.Logger
}

func NewBookingService(repo repository.BookingRepository, userRepo repository.UserRepository, logger *zap.Logger) *BookingServiceImpl {
	return &BookingServiceImpl{
		repo:     repo,
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *BookingServiceImpl) Create(ctx context.Context, clientID int64, dto domain.CreateBookingDTO) (int64, error) {
	provider, err := s.userRepo.GetByID(ctx, dto.ProviderID)
	if err != nil {
		s.logger.Warn("исполнитель не найден при создании бронирования",
			zap.Int64("providerID", dto.ProviderID), zap.Error(err))
		return 0, errors.New("исполнитель не найден")
	}

	if provider.Role != domain.UserRoleProvider {
		return 0, errors.New("бронировать можно только у исполнителя")
	}

	if clientID == dto.ProviderID {
		return 0, errors.New("нельзя забронировать услугу у самого себя")
	}

	id, err := s.repo.Create(ctx, clientID, dto)
	if err != nil {
		s.logger.Error("ошибка создания бронирования", zap.Error(err))
		return 0, errors.New("ошибка при создании бронирования")
	}

	return id, nil
}

func (s *BookingServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения бронирования", zap.Int64("id", id), zap.Error(err))
		return nil, errors.New("бронирование не найдено")
	}
	return booking, nil
}

// Complete переводит бронирование в завершенное и помечает его
// подтвержденным платформой: именно этот флаг потом попадает в отзыв
// как is_verified_booking.
func (s *BookingServiceImpl) Complete(ctx context.Context, actorID, id int64) error {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.New("бронирование не найдено")
	}

	if booking.ProviderID != actorID && booking.ClientID != actorID {
		return errors.New("завершить бронирование может только его участник")
	}

	if booking.Status != domain.BookingStatusActive {
		return errors.New("завершить можно только активное бронирование")
	}

	if err := s.repo.Complete(ctx, id, true); err != nil {
		s.logger.Error("ошибка завершения бронирования", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при завершении бронирования")
	}

	return nil
}

func (s *BookingServiceImpl) Cancel(ctx context.Context, actorID, id int64) error {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.New("бронирование не найдено")
	}

	if booking.ProviderID != actorID && booking.ClientID != actorID {
		return errors.New("отменить бронирование может только его участник")
	}

	if booking.Status != domain.BookingStatusActive {
		return errors.New("отменить можно только активное бронирование")
	}

	if err := s.repo.Cancel(ctx, id); err != nil {
		s.logger.Error("ошибка отмены бронирования", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при отмене бронирования")
	}

	return nil
}

func (s *BookingServiceImpl) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error) {
	bookings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка бронирований", zap.Error(err))
		return nil, 0, errors.New("ошибка при получении бронирований")
	}
	return bookings, total, nil
}
