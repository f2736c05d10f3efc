package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"zuhre/internal/domain"
)

// pgUniqueViolation — код ошибки Postgres для нарушения уникальности.
const pgUniqueViolation = "23505"

type ReviewRepo struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{
		db: db,
	}
}

func (r *ReviewRepo) Create(ctx context.Context, review domain.Review, stats domain.ReputationStats) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	criteriaJSON, err := json.Marshal(review.CriteriaValues)
	if err != nil {
		return fmt.Errorf("ошибка сериализации критериев: %w", err)
	}

	insertQuery := `
		INSERT INTO reviews (id, subject_id, author_id, booking_id, direction, criteria_values,
		                     overall_rating, author_rating, title, content, tags, attachments,
		                     is_verified_booking, helpful_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 0, $14)
	`

	_, err = tx.Exec(ctx, insertQuery,
		review.ID,
		review.SubjectID,
		review.AuthorID,
		review.BookingID,
		review.Direction,
		criteriaJSON,
		review.OverallRating,
		review.AuthorRating,
		review.Title,
		review.Content,
		review.Tags,
		review.Attachments,
		review.IsVerifiedBooking,
		review.CreatedAt,
	)
	if err != nil {
		// Проверка на повтор до вставки гонку не закрывает: проигравший
		// упирается в уникальный индекс и получает ту же типизированную
		// ошибку, что и при обычной повторной подаче.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == "uq_reviews_submission" {
			return domain.NewValidationError(domain.ErrDuplicateSubmission, "booking_id",
				"вы уже оставили отзыв по этому бронированию")
		}
		return fmt.Errorf("ошибка создания отзыва: %w", err)
	}

	statsQuery := `
		INSERT INTO reputation_stats (subject_id, direction, average, review_count,
		                              dist_1, dist_2, dist_3, dist_4, dist_5,
		                              verified_count, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (subject_id, direction) DO UPDATE SET
			average = EXCLUDED.average,
			review_count = EXCLUDED.review_count,
			dist_1 = EXCLUDED.dist_1,
			dist_2 = EXCLUDED.dist_2,
			dist_3 = EXCLUDED.dist_3,
			dist_4 = EXCLUDED.dist_4,
			dist_5 = EXCLUDED.dist_5,
			verified_count = EXCLUDED.verified_count,
			updated_at = EXCLUDED.updated_at
	`

	_, err = tx.Exec(ctx, statsQuery,
		stats.SubjectID,
		stats.Direction,
		stats.Average,
		stats.Count,
		stats.Distribution[0],
		stats.Distribution[1],
		stats.Distribution[2],
		stats.Distribution[3],
		stats.Distribution[4],
		stats.VerifiedCount,
		stats.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления статистики субъекта: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return nil
}

const reviewColumns = `id, subject_id, author_id, booking_id, direction, criteria_values,
		overall_rating, author_rating, title, content, tags, attachments,
		is_verified_booking, helpful_count, created_at`

func scanReview(row pgx.Row) (*domain.Review, error) {
	var review domain.Review
	var criteriaJSON []byte

	err := row.Scan(
		&review.ID,
		&review.SubjectID,
		&review.AuthorID,
		&review.BookingID,
		&review.Direction,
		&criteriaJSON,
		&review.OverallRating,
		&review.AuthorRating,
		&review.Title,
		&review.Content,
		&review.Tags,
		&review.Attachments,
		&review.IsVerifiedBooking,
		&review.HelpfulCount,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(criteriaJSON, &review.CriteriaValues); err != nil {
		return nil, fmt.Errorf("ошибка разбора критериев отзыва: %w", err)
	}

	return &review, nil
}

func (r *ReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("отзыв с id %s не найден", id)
		}
		return nil, fmt.Errorf("ошибка получения отзыва: %w", err)
	}

	return review, nil
}

func (r *ReviewRepo) Exists(ctx context.Context, subjectID, authorID, bookingID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reviews
			WHERE subject_id = $1 AND author_id = $2 AND booking_id = $3
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, subjectID, authorID, bookingID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки существующего отзыва: %w", err)
	}

	return exists, nil
}

func (r *ReviewRepo) ListBySubject(ctx context.Context, subjectID int64, direction domain.Direction) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + `
		FROM reviews
		WHERE subject_id = $1 AND direction = $2
		ORDER BY created_at DESC, id
	`

	rows, err := r.db.Query(ctx, query, subjectID, direction)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения отзывов субъекта: %w", err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки отзыва: %w", err)
		}
		reviews = append(reviews, *review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return reviews, nil
}

func (r *ReviewRepo) IncrementHelpful(ctx context.Context, id string) (int, error) {
	query := `
		UPDATE reviews
		SET helpful_count = helpful_count + 1
		WHERE id = $1
		RETURNING helpful_count
	`

	var count int
	err := r.db.QueryRow(ctx, query, id).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("отзыв с id %s не найден", id)
		}
		return 0, fmt.Errorf("ошибка обновления счетчика полезности: %w", err)
	}

	return count, nil
}
