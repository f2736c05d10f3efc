package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zuhre/internal/domain"
)

type ReputationRepo struct {
	db *pgxpool.Pool
}

func NewReputationRepository(db *pgxpool.Pool) *ReputationRepo {
	return &ReputationRepo{
		db: db,
	}
}

func (r *ReputationRepo) Get(ctx context.Context, subjectID int64, direction domain.Direction) (*domain.ReputationStats, error) {
	query := `
		SELECT s.average, s.review_count,
		       s.dist_1, s.dist_2, s.dist_3, s.dist_4, s.dist_5,
		       s.verified_count, s.updated_at,
		       (SELECT COUNT(*) FROM reviews r
		        WHERE r.subject_id = s.subject_id
		          AND r.direction = s.direction
		          AND r.created_at > now() - interval '30 days')
		FROM reputation_stats s
		WHERE s.subject_id = $1 AND s.direction = $2
	`

	stats := domain.ReputationStats{
		SubjectID: subjectID,
		Direction: direction,
	}

	err := r.db.QueryRow(ctx, query, subjectID, direction).Scan(
		&stats.Average,
		&stats.Count,
		&stats.Distribution[0],
		&stats.Distribution[1],
		&stats.Distribution[2],
		&stats.Distribution[3],
		&stats.Distribution[4],
		&stats.VerifiedCount,
		&stats.UpdatedAt,
		&stats.LastPeriodCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Отзывов еще не было: нулевая статистика.
			return &stats, nil
		}
		return nil, fmt.Errorf("ошибка получения статистики репутации: %w", err)
	}

	return &stats, nil
}
