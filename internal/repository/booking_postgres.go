package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zuhre/internal/domain"
)

type BookingRepo struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepo {
	return &BookingRepo{
		db: db,
	}
}

func (r *BookingRepo) Create(ctx context.Context, clientID int64, booking domain.CreateBookingDTO) (int64, error) {
	query := `
		INSERT INTO bookings (client_id, provider_id, service_date, status, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, $5, $5)
		RETURNING id
	`

	now := time.Now()
	var id int64
	err := r.db.QueryRow(ctx, query,
		clientID,
		booking.ProviderID,
		booking.ServiceDate,
		domain.BookingStatusActive,
		now,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания бронирования: %w", err)
	}

	return id, nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	query := `
		SELECT id, client_id, provider_id, service_date, status, is_verified, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking domain.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.ClientID,
		&booking.ProviderID,
		&booking.ServiceDate,
		&booking.Status,
		&booking.IsVerified,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("бронирование с id %d не найдено", id)
		}
		return nil, fmt.Errorf("ошибка получения бронирования: %w", err)
	}

	return &booking, nil
}

func (r *BookingRepo) Complete(ctx context.Context, id int64, verified bool) error {
	query := `
		UPDATE bookings
		SET status = $1, is_verified = $2, updated_at = $3
		WHERE id = $4
	`

	tag, err := r.db.Exec(ctx, query, domain.BookingStatusCompleted, verified, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка завершения бронирования: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("бронирование с id %d не найдено", id)
	}

	return nil
}

func (r *BookingRepo) Cancel(ctx context.Context, id int64) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	tag, err := r.db.Exec(ctx, query, domain.BookingStatusCancelled, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка отмены бронирования: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("бронирование с id %d не найдено", id)
	}

	return nil
}

func (r *BookingRepo) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error) {
	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", argCount))
		args = append(args, *filter.ClientID)
		argCount++
	}

	if filter.ProviderID != nil {
		conditions = append(conditions, fmt.Sprintf("provider_id = $%d", argCount))
		args = append(args, *filter.ProviderID)
		argCount++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filter.Status)
		argCount++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM bookings"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета бронирований: %w", err)
	}

	query := `
		SELECT id, client_id, provider_id, service_date, status, is_verified, created_at, updated_at
		FROM bookings` + where +
		fmt.Sprintf(" ORDER BY service_date DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка бронирований: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var booking domain.Booking
		if err := rows.Scan(
			&booking.ID,
			&booking.ClientID,
			&booking.ProviderID,
			&booking.ServiceDate,
			&booking.Status,
			&booking.IsVerified,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки бронирования: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return bookings, total, nil
}
