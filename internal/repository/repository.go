package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"zuhre/internal/domain"
)

type Repositories struct {
	User       UserRepository
	Auth       AuthRepository
	Booking    BookingRepository
	Review     ReviewRepository
	Warning    WarningRepository
	Reputation ReputationRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Auth:       NewAuthRepository(db),
		Booking:    NewBookingRepository(db),
		Review:     NewReviewRepository(db),
		Warning:    NewWarningRepository(db),
		Reputation: NewReputationRepository(db),
	}
}

type UserRepository interface {
	Create(ctx context.Context, user domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsByUserID(ctx context.Context, userID int64) error
}

type BookingRepository interface {
	Create(ctx context.Context, clientID int64, booking domain.CreateBookingDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Complete(ctx context.Context, id int64, verified bool) error
	Cancel(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error)
}

type ReviewRepository interface {
	// Create сохраняет отзыв и свернутую статистику субъекта в одной
	// транзакции. Сворачивание для одного субъекта сериализует сервис.
	Create(ctx context.Context, review domain.Review, stats domain.ReputationStats) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	Exists(ctx context.Context, subjectID, authorID, bookingID int64) (bool, error)
	ListBySubject(ctx context.Context, subjectID int64, direction domain.Direction) ([]domain.Review, error)
	IncrementHelpful(ctx context.Context, id string) (int, error)
}

type WarningRepository interface {
	Create(ctx context.Context, warning domain.Warning) error
	GetByID(ctx context.Context, id string) (*domain.Warning, error)
	ListBySubject(ctx context.Context, subjectID int64) ([]domain.Warning, error)
	CountBySubject(ctx context.Context, subjectID int64) (int, error)
	HasCorroborated(ctx context.Context, warningID string, corroboratorID int64) (bool, error)
	// RecordCorroboration фиксирует личность подтвердившего и атомарно
	// пересчитывает счетчик предупреждения в той же транзакции, возвращая
	// актуальную строку. false — личность уже учтена (гонка разрешается
	// уникальным индексом).
	RecordCorroboration(ctx context.Context, warningID string, corroboratorID int64) (*domain.Warning, bool, error)
}

type ReputationRepository interface {
	// Get возвращает нулевую статистику, если по субъекту еще нет отзывов.
	Get(ctx context.Context, subjectID int64, direction domain.Direction) (*domain.ReputationStats, error)
}
