package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"zuhre/internal/domain"
	"zuhre/internal/rating"
	"zuhre/internal/repository"
	"zuhre/internal/storage"
)

// subjectLocks сериализует свертку статистики по одному субъекту;
// разные субъекты обрабатываются параллельно. Замки не освобождаются:
// их количество ограничено числом субъектов с отзывами.
type subjectLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSubjectLocks() *subjectLocks {
	return &subjectLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

func (l *subjectLocks) forSubject(subjectID int64, direction domain.Direction) *sync.Mutex {
	key := fmt.Sprintf("%d/%s", subjectID, direction)

	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	return lock
}

type ReviewServiceImpl struct {
	repo           repository.ReviewRepository
	reputationRepo repository.ReputationRepository
	warningRepo    repository.WarningRepository
	bookingRepo    repository.BookingRepository
	fileStorage    storage.FileStorage
	notifier       Notifier
	logger         *zap.Logger
	locks          *subjectLocks
}

func NewReviewService(
	repo repository.ReviewRepository,
	reputationRepo repository.ReputationRepository,
	warningRepo repository.WarningRepository,
	bookingRepo repository.BookingRepository,
	fileStorage storage.FileStorage,
	notifier Notifier,
	logger *zap.Logger,
) *ReviewServiceImpl {
	return &ReviewServiceImpl{
		repo:           repo,
		reputationRepo: reputationRepo,
		warningRepo:    warningRepo,
		bookingRepo:    bookingRepo,
		fileStorage:    fileStorage,
		notifier:       notifier,
		logger:         logger,
		locks:          newSubjectLocks(),
	}
}

func (s *ReviewServiceImpl) Submit(ctx context.Context, authorID int64, dto domain.CreateReviewDTO) (*domain.Review, error) {
	if !dto.Direction.Valid() {
		return nil, domain.NewValidationError(domain.ErrInvalidCriteria, "direction",
			"неизвестное направление оценки")
	}

	facts := rating.SubmissionFacts{}
	var subjectID int64

	booking, err := s.bookingRepo.GetByID(ctx, dto.BookingID)
	if err != nil {
		s.logger.Warn("бронирование не найдено при подаче отзыва",
			zap.Int64("bookingID", dto.BookingID), zap.Error(err))
	} else {
		subjectID = dto.Direction.Subject(booking)
		facts.BookingCompleted = booking.Status == domain.BookingStatusCompleted &&
			dto.Direction.Author(booking) == authorID
		facts.BookingVerified = booking.IsVerified

		exists, err := s.repo.Exists(ctx, subjectID, authorID, dto.BookingID)
		if err != nil {
			s.logger.Error("ошибка проверки повторной подачи", zap.Error(err))
			return nil, errors.New("ошибка при проверке существующих отзывов")
		}
		facts.AlreadyReviewed = exists
	}

	if s.fileStorage != nil {
		facts.AcceptAttachment = func(ref string) bool {
			return s.fileStorage.IsAcceptableAttachment(ctx, ref)
		}
	}

	review, err := rating.Validate(dto, subjectID, authorID, facts)
	if err != nil {
		s.logger.Warn("отзыв отклонен валидатором",
			zap.Int64("authorID", authorID),
			zap.Int64("bookingID", dto.BookingID),
			zap.Error(err))
		return nil, err
	}

	review.ID = uuid.New().String()

	lock := s.locks.forSubject(review.SubjectID, review.Direction)
	lock.Lock()
	defer lock.Unlock()

	stats, err := s.reputationRepo.Get(ctx, review.SubjectID, review.Direction)
	if err != nil {
		s.logger.Error("ошибка получения статистики субъекта", zap.Error(err))
		return nil, errors.New("ошибка при сохранении отзыва")
	}

	folded := rating.Fold(*stats, *review)

	if err := s.repo.Create(ctx, *review, folded); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			// Параллельная подача по тому же бронированию успела раньше.
			s.logger.Warn("повторная подача отзыва обнаружена при сохранении",
				zap.Int64("authorID", authorID),
				zap.Int64("bookingID", dto.BookingID))
			return nil, verr
		}
		s.logger.Error("ошибка сохранения отзыва", zap.Error(err))
		return nil, errors.New("ошибка при сохранении отзыва")
	}

	if warning := rating.EvaluateWarning(*review); warning != nil {
		warning.ID = uuid.New().String()
		if err := s.warningRepo.Create(ctx, *warning); err != nil {
			// Отзыв уже принят; предупреждение не удалось — журналируем,
			// но подачу не откатываем.
			s.logger.Error("ошибка сохранения предупреждения по отзыву",
				zap.String("reviewID", review.ID), zap.Error(err))
		} else {
			s.notifier.WarningCreated(ctx, *warning)
		}
	}

	s.notifier.ReviewAccepted(ctx, *review)

	return review, nil
}

func (s *ReviewServiceImpl) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения отзыва", zap.String("id", id), zap.Error(err))
		return nil, errors.New("отзыв не найден")
	}
	return review, nil
}

func (s *ReviewServiceImpl) QueryBySubject(ctx context.Context, subjectID int64, direction domain.Direction, filter domain.ReviewFilter, sort domain.ReviewSort, page domain.Page) (*domain.PagedResult, error) {
	if !direction.Valid() {
		return nil, errors.New("неизвестное направление оценки")
	}
	if sort != "" && !sort.Valid() {
		return nil, errors.New("неизвестный ключ сортировки")
	}

	reviews, err := s.repo.ListBySubject(ctx, subjectID, direction)
	if err != nil {
		s.logger.Error("ошибка получения отзывов субъекта",
			zap.Int64("subjectID", subjectID), zap.Error(err))
		return nil, errors.New("ошибка при получении отзывов")
	}

	result := rating.Query(reviews, filter, sort, page)
	return &result, nil
}

func (s *ReviewServiceImpl) MarkHelpful(ctx context.Context, id string) (int, error) {
	count, err := s.repo.IncrementHelpful(ctx, id)
	if err != nil {
		s.logger.Error("ошибка отметки полезности", zap.String("id", id), zap.Error(err))
		return 0, errors.New("отзыв не найден")
	}
	return count, nil
}

func (s *ReviewServiceImpl) UploadAttachment(ctx context.Context, data []byte, filename string) (string, error) {
	if s.fileStorage == nil {
		return "", errors.New("хранилище вложений не настроено")
	}

	ref, err := s.fileStorage.UploadFile(ctx, data, filename)
	if err != nil {
		s.logger.Error("ошибка загрузки вложения", zap.Error(err))
		return "", errors.New("ошибка при загрузке вложения")
	}

	return ref, nil
}
