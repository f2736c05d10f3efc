package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"zuhre/internal/domain"
	"zuhre/internal/rating"
)

type fakeBookingRepo struct {
	booking *domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, _ int64, _ domain.CreateBookingDTO) (int64, error) {
	return 0, errors.New("не реализовано")
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, fmt.Errorf("бронирование с id %d не найдено", id)
	}
	b := *f.booking
	return &b, nil
}

func (f *fakeBookingRepo) Complete(_ context.Context, _ int64, _ bool) error { return nil }
func (f *fakeBookingRepo) Cancel(_ context.Context, _ int64) error           { return nil }

func (f *fakeBookingRepo) List(_ context.Context, _ domain.BookingFilter) ([]domain.Booking, int, error) {
	return nil, 0, nil
}

type fakeReviewRepo struct {
	existing     bool
	reviews      []domain.Review
	createdStats []domain.ReputationStats
}

func (f *fakeReviewRepo) Create(_ context.Context, review domain.Review, stats domain.ReputationStats) error {
	// Та же уникальность, что обеспечивает индекс по
	// (subject_id, author_id, booking_id).
	for _, r := range f.reviews {
		if r.SubjectID == review.SubjectID && r.AuthorID == review.AuthorID && r.BookingID == review.BookingID {
			return domain.NewValidationError(domain.ErrDuplicateSubmission, "booking_id",
				"вы уже оставили отзыв по этому бронированию")
		}
	}
	f.reviews = append(f.reviews, review)
	f.createdStats = append(f.createdStats, stats)
	return nil
}

func (f *fakeReviewRepo) GetByID(_ context.Context, id string) (*domain.Review, error) {
	for i := range f.reviews {
		if f.reviews[i].ID == id {
			r := f.reviews[i]
			return &r, nil
		}
	}
	return nil, fmt.Errorf("отзыв с id %s не найден", id)
}

func (f *fakeReviewRepo) Exists(_ context.Context, _, _, _ int64) (bool, error) {
	return f.existing, nil
}

func (f *fakeReviewRepo) ListBySubject(_ context.Context, subjectID int64, direction domain.Direction) ([]domain.Review, error) {
	out := make([]domain.Review, 0)
	for _, r := range f.reviews {
		if r.SubjectID == subjectID && r.Direction == direction {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) IncrementHelpful(_ context.Context, id string) (int, error) {
	for i := range f.reviews {
		if f.reviews[i].ID == id {
			f.reviews[i].HelpfulCount++
			return f.reviews[i].HelpfulCount, nil
		}
	}
	return 0, fmt.Errorf("отзыв с id %s не найден", id)
}

type fakeReputationRepo struct {
	stats map[string]domain.ReputationStats
}

func (f *fakeReputationRepo) Get(_ context.Context, subjectID int64, direction domain.Direction) (*domain.ReputationStats, error) {
	key := fmt.Sprintf("%d/%s", subjectID, direction)
	if stats, ok := f.stats[key]; ok {
		return &stats, nil
	}
	return &domain.ReputationStats{SubjectID: subjectID, Direction: direction}, nil
}

type fakeWarningRepo struct {
	mu             sync.Mutex
	warnings       map[string]domain.Warning
	corroborations map[string]map[int64]bool
}

func newFakeWarningRepo() *fakeWarningRepo {
	return &fakeWarningRepo{
		warnings:       make(map[string]domain.Warning),
		corroborations: make(map[string]map[int64]bool),
	}
}

func (f *fakeWarningRepo) Create(_ context.Context, warning domain.Warning) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warnings[warning.ID] = warning
	return nil
}

func (f *fakeWarningRepo) GetByID(_ context.Context, id string) (*domain.Warning, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.warnings[id]; ok {
		return &w, nil
	}
	return nil, fmt.Errorf("предупреждение с id %s не найдено", id)
}

func (f *fakeWarningRepo) ListBySubject(_ context.Context, subjectID int64) ([]domain.Warning, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Warning, 0)
	for _, w := range f.warnings {
		if w.SubjectID == subjectID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWarningRepo) CountBySubject(_ context.Context, subjectID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, w := range f.warnings {
		if w.SubjectID == subjectID {
			count++
		}
	}
	return count, nil
}

func (f *fakeWarningRepo) HasCorroborated(_ context.Context, warningID string, corroboratorID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.corroborations[warningID][corroboratorID], nil
}

// RecordCorroboration воспроизводит транзакцию хранилища: учет личности
// и инкремент счетчика атомарны, затираний под гонкой нет.
func (f *fakeWarningRepo) RecordCorroboration(_ context.Context, warningID string, corroboratorID int64) (*domain.Warning, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	warning, ok := f.warnings[warningID]
	if !ok {
		return nil, false, fmt.Errorf("предупреждение с id %s не найдено", warningID)
	}
	if f.corroborations[warningID][corroboratorID] {
		return nil, false, nil
	}
	if f.corroborations[warningID] == nil {
		f.corroborations[warningID] = make(map[int64]bool)
	}
	f.corroborations[warningID][corroboratorID] = true

	warning.UpvoteCount++
	if warning.UpvoteCount >= rating.CorroborationThreshold {
		warning.Verified = true
	}
	f.warnings[warningID] = warning

	return &warning, true, nil
}

type fakeNotifier struct {
	accepted []domain.Review
	warned   []domain.Warning
}

func (f *fakeNotifier) ReviewAccepted(_ context.Context, review domain.Review) {
	f.accepted = append(f.accepted, review)
}

func (f *fakeNotifier) WarningCreated(_ context.Context, warning domain.Warning) {
	f.warned = append(f.warned, warning)
}

func completedBooking() *domain.Booking {
	return &domain.Booking{
		ID:          42,
		ClientID:    1,
		ProviderID:  2,
		ServiceDate: time.Now().Add(-24 * time.Hour),
		Status:      domain.BookingStatusCompleted,
		IsVerified:  true,
	}
}

type reviewFixture struct {
	svc         *ReviewServiceImpl
	reviewRepo  *fakeReviewRepo
	warningRepo *fakeWarningRepo
	notifier    *fakeNotifier
}

func newReviewFixture(booking *domain.Booking) *reviewFixture {
	reviewRepo := &fakeReviewRepo{}
	warningRepo := newFakeWarningRepo()
	notifier := &fakeNotifier{}

	svc := NewReviewService(
		reviewRepo,
		&fakeReputationRepo{},
		warningRepo,
		&fakeBookingRepo{booking: booking},
		nil,
		notifier,
		zap.NewNop(),
	)

	return &reviewFixture{
		svc:         svc,
		reviewRepo:  reviewRepo,
		warningRepo: warningRepo,
		notifier:    notifier,
	}
}

func TestReviewServiceSubmit(t *testing.T) {
	ctx := context.Background()

	dto := domain.CreateReviewDTO{
		BookingID: 42,
		Direction: domain.DirectionProviderRated,
		CriteriaValues: map[string]int{
			"service_quality": 5,
			"punctuality":     4,
		},
		Content: "мастер пришел вовремя, все сделал отлично",
		Tags:    []string{"on_time", "great_service"},
	}

	f := newReviewFixture(completedBooking())

	review, err := f.svc.Submit(ctx, 1, dto)
	require.NoError(t, err)
	require.NotNil(t, review)

	assert.NotEmpty(t, review.ID)
	assert.Equal(t, int64(2), review.SubjectID)
	assert.Equal(t, int64(1), review.AuthorID)
	assert.True(t, review.IsVerifiedBooking)
	assert.InDelta(t, 4.6, review.OverallRating, 1e-9)

	require.Len(t, f.reviewRepo.createdStats, 1)
	stats := f.reviewRepo.createdStats[0]
	assert.Equal(t, 1, stats.Count)
	assert.InDelta(t, review.OverallRating, stats.Average, 1e-9)
	assert.Equal(t, 1, stats.VerifiedCount)

	require.Len(t, f.notifier.accepted, 1)
	assert.Empty(t, f.notifier.warned)
	assert.Empty(t, f.warningRepo.warnings)
}

func TestReviewServiceSubmitDuplicate(t *testing.T) {
	ctx := context.Background()

	dto := domain.CreateReviewDTO{
		BookingID:      42,
		Direction:      domain.DirectionProviderRated,
		CriteriaValues: map[string]int{"service_quality": 5},
	}

	f := newReviewFixture(completedBooking())
	f.reviewRepo.existing = true

	_, err := f.svc.Submit(ctx, 1, dto)
	require.Error(t, err)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.ErrDuplicateSubmission, verr.Kind)

	assert.Empty(t, f.reviewRepo.reviews)
	assert.Empty(t, f.notifier.accepted)
}

// Повторная подача, которую предварительная проверка не успела увидеть,
// все равно возвращает типизированную ошибку, а не внутреннюю.
func TestReviewServiceSubmitDuplicateRace(t *testing.T) {
	ctx := context.Background()

	dto := domain.CreateReviewDTO{
		BookingID:      42,
		Direction:      domain.DirectionProviderRated,
		CriteriaValues: map[string]int{"service_quality": 5},
	}

	f := newReviewFixture(completedBooking())

	_, err := f.svc.Submit(ctx, 1, dto)
	require.NoError(t, err)

	// existing остается false: проверка уникальности срабатывает только
	// на уровне хранилища, как при двух одновременных запросах.
	_, err = f.svc.Submit(ctx, 1, dto)
	require.Error(t, err)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.ErrDuplicateSubmission, verr.Kind)

	require.Len(t, f.reviewRepo.reviews, 1)
	require.Len(t, f.notifier.accepted, 1)
}

func TestReviewServiceSubmitBookingNotCompleted(t *testing.T) {
	ctx := context.Background()

	booking := completedBooking()
	booking.Status = domain.BookingStatusActive

	f := newReviewFixture(booking)

	_, err := f.svc.Submit(ctx, 1, domain.CreateReviewDTO{
		BookingID:      42,
		Direction:      domain.DirectionProviderRated,
		CriteriaValues: map[string]int{"service_quality": 5},
	})
	require.Error(t, err)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.ErrBookingNotEligible, verr.Kind)
}

func TestReviewServiceSubmitStranger(t *testing.T) {
	ctx := context.Background()

	f := newReviewFixture(completedBooking())

	// Пользователь 99 не участвовал в бронировании 42.
	_, err := f.svc.Submit(ctx, 99, domain.CreateReviewDTO{
		BookingID:      42,
		Direction:      domain.DirectionProviderRated,
		CriteriaValues: map[string]int{"service_quality": 5},
	})
	require.Error(t, err)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.ErrBookingNotEligible, verr.Kind)
}

func TestReviewServiceSubmitCreatesWarning(t *testing.T) {
	ctx := context.Background()

	dto := domain.CreateReviewDTO{
		BookingID: 42,
		Direction: domain.DirectionCustomerRated,
		CriteriaValues: map[string]int{
			"payment":  1,
			"behavior": 4,
		},
		Content: "клиент так и не оплатил работу",
	}

	f := newReviewFixture(completedBooking())

	// Исполнитель оценивает клиента.
	review, err := f.svc.Submit(ctx, 2, dto)
	require.NoError(t, err)
	assert.Equal(t, int64(1), review.SubjectID)

	require.Len(t, f.warningRepo.warnings, 1)
	for _, warning := range f.warningRepo.warnings {
		assert.Equal(t, domain.WarningTypePayment, warning.WarningType)
		assert.Equal(t, domain.SeverityHigh, warning.Severity)
		assert.Equal(t, int64(1), warning.SubjectID)
		require.NotNil(t, warning.ReviewID)
		assert.Equal(t, review.ID, *warning.ReviewID)
	}

	require.Len(t, f.notifier.warned, 1)
	require.Len(t, f.notifier.accepted, 1)
}

func TestReviewServiceMarkHelpful(t *testing.T) {
	ctx := context.Background()

	f := newReviewFixture(completedBooking())

	review, err := f.svc.Submit(ctx, 1, domain.CreateReviewDTO{
		BookingID:      42,
		Direction:      domain.DirectionProviderRated,
		CriteriaValues: map[string]int{"service_quality": 5},
	})
	require.NoError(t, err)

	count, err := f.svc.MarkHelpful(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = f.svc.MarkHelpful(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = f.svc.MarkHelpful(ctx, "нет-такого")
	assert.Error(t, err)
}

func TestWarningServiceCorroborate(t *testing.T) {
	ctx := context.Background()

	warningRepo := newFakeWarningRepo()
	notifier := &fakeNotifier{}
	userRepo := &fakeUserRepo{users: map[int64]*domain.User{
		1: {ID: 1, Role: domain.UserRoleClient},
	}}

	svc := NewWarningService(warningRepo, userRepo, notifier, zap.NewNop())

	warning, err := svc.Flag(ctx, 7, domain.CreateWarningDTO{
		SubjectID:   1,
		WarningType: domain.WarningTypeBehavior,
		Comment:     "хамит и срывает сроки",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SeverityLow, warning.Severity)
	require.Len(t, notifier.warned, 1)

	// Три разных подтверждения верифицируют предупреждение.
	for i, corroborator := range []int64{10, 11, 12} {
		updated, err := svc.Corroborate(ctx, warning.ID, corroborator)
		require.NoError(t, err)
		assert.Equal(t, i+1, updated.UpvoteCount)
		assert.Equal(t, i == 2, updated.Verified)
	}

	// Повторное подтверждение той же личностью ничего не меняет.
	updated, err := svc.Corroborate(ctx, warning.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.UpvoteCount)
	assert.True(t, updated.Verified)
}

// Одновременные подтверждения разными личностями не теряют инкременты.
func TestWarningServiceCorroborateConcurrent(t *testing.T) {
	ctx := context.Background()

	warningRepo := newFakeWarningRepo()
	userRepo := &fakeUserRepo{users: map[int64]*domain.User{
		1: {ID: 1, Role: domain.UserRoleClient},
	}}

	svc := NewWarningService(warningRepo, userRepo, &fakeNotifier{}, zap.NewNop())

	warning, err := svc.Flag(ctx, 7, domain.CreateWarningDTO{
		SubjectID:   1,
		WarningType: domain.WarningTypeBehavior,
		Comment:     "хамит и срывает сроки",
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, corroborator := range []int64{10, 11} {
		wg.Add(1)
		go func(corroborator int64) {
			defer wg.Done()
			_, err := svc.Corroborate(ctx, warning.ID, corroborator)
			assert.NoError(t, err)
		}(corroborator)
	}
	wg.Wait()

	stored, err := warningRepo.GetByID(ctx, warning.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.UpvoteCount)
	assert.False(t, stored.Verified)
}

func TestWarningServiceFlagSelf(t *testing.T) {
	ctx := context.Background()

	svc := NewWarningService(newFakeWarningRepo(), &fakeUserRepo{}, &fakeNotifier{}, zap.NewNop())

	_, err := svc.Flag(ctx, 1, domain.CreateWarningDTO{
		SubjectID:   1,
		WarningType: domain.WarningTypeOther,
		Comment:     "жалоба на себя",
	})
	assert.Error(t, err)
}

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, _ domain.CreateUserDTO) (int64, error) {
	return 0, errors.New("не реализовано")
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("пользователь с id %d не найден", id)
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, errors.New("не реализовано")
}

func (f *fakeUserRepo) GetByPhone(_ context.Context, _ string) (*domain.User, error) {
	return nil, errors.New("не реализовано")
}

func (f *fakeUserRepo) List(_ context.Context, _ int, _ int) ([]domain.User, error) {
	return nil, nil
}
