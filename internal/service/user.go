package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"zuhre/internal/domain"
	"zuhre/internal/repository"
)

type UserServiceImpl struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewUserService(repo repository.UserRepository, logger *zap.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения пользователя", zap.Int64("id", id), zap.Error(err))
		return nil, errors.New("пользователь не найден")
	}
	return user, nil
}

func (s *UserServiceImpl) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("ошибка получения списка пользователей", zap.Error(err))
		return nil, errors.New("ошибка при получении пользователей")
	}
	return users, nil
}
