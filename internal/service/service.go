package service

import (
	"context"

	"go.uber.org/zap"

	"zuhre/config"
	"zuhre/internal/domain"
	"zuhre/internal/repository"
	"zuhre/internal/storage"
)

type Deps struct {
	Repos       *repository.Repositories
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
	Notifier    Notifier
}

type Services struct {
	User       UserService
	Auth       AuthService
	Booking    BookingService
	Review     ReviewService
	Warning    WarningService
	Reputation ReputationService
}

func NewServices(deps Deps) *Services {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = NewLogNotifier(deps.Logger)
	}

	warningService := NewWarningService(deps.Repos.Warning, deps.Repos.User, notifier, deps.Logger)

	return &Services{
		User:       NewUserService(deps.Repos.User, deps.Logger),
		Auth:       NewAuthService(deps.Repos.Auth, deps.Repos.User, deps.Config.JWT, deps.Logger),
		Booking:    NewBookingService(deps.Repos.Booking, deps.Repos.User, deps.Logger),
		Review:     NewReviewService(deps.Repos.Review, deps.Repos.Reputation, deps.Repos.Warning, deps.Repos.Booking, deps.FileStorage, notifier, deps.Logger),
		Warning:    warningService,
		Reputation: NewReputationService(deps.Repos.Reputation, deps.Repos.Review, deps.Repos.Warning, deps.Logger),
	}
}

type UserService interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthService interface {
	Register(ctx context.Context, dto domain.RegisterRequest) (int64, error)
	Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error)
	RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseToken(ctx context.Context, token string) (int64, domain.UserRole, error)
}

type BookingService interface {
	Create(ctx context.Context, clientID int64, dto domain.CreateBookingDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Complete(ctx context.Context, actorID, id int64) error
	Cancel(ctx context.Context, actorID, id int64) error
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error)
}

type ReviewService interface {
	// Submit — единая атомарная точка подачи отзыва: валидация, свертка
	// статистики и возможное предупреждение за один вызов.
	Submit(ctx context.Context, authorID int64, dto domain.CreateReviewDTO) (*domain.Review, error)
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	QueryBySubject(ctx context.Context, subjectID int64, direction domain.Direction, filter domain.ReviewFilter, sort domain.ReviewSort, page domain.Page) (*domain.PagedResult, error)
	MarkHelpful(ctx context.Context, id string) (int, error)
	UploadAttachment(ctx context.Context, data []byte, filename string) (string, error)
}

type WarningService interface {
	Flag(ctx context.Context, issuerID int64, dto domain.CreateWarningDTO) (*domain.Warning, error)
	Corroborate(ctx context.Context, warningID string, corroboratorID int64) (*domain.Warning, error)
	GetByID(ctx context.Context, id string) (*domain.Warning, error)
	ListBySubject(ctx context.Context, subjectID int64) ([]domain.Warning, error)
}

type ReputationService interface {
	Summary(ctx context.Context, subjectID int64, direction domain.Direction) (*domain.ReputationSummary, error)
	// CheckConsistency пересчитывает статистику по полной истории отзывов
	// и сверяет с сохраненной.
	CheckConsistency(ctx context.Context, subjectID int64, direction domain.Direction) (bool, *domain.ReputationStats, *domain.ReputationStats, error)
}
