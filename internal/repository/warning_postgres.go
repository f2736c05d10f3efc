package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zuhre/internal/domain"
	"zuhre/internal/rating"
)

type WarningRepo struct {
	db *pgxpool.Pool
}

func NewWarningRepository(db *pgxpool.Pool) *WarningRepo {
	return &WarningRepo{
		db: db,
	}
}

func (r *WarningRepo) Create(ctx context.Context, warning domain.Warning) error {
	query := `
		INSERT INTO warnings (id, subject_id, issuer_id, review_id, warning_type,
		                      severity, comment, upvote_count, verified, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		warning.ID,
		warning.SubjectID,
		warning.IssuerID,
		warning.ReviewID,
		warning.WarningType,
		warning.Severity,
		warning.Comment,
		warning.UpvoteCount,
		warning.Verified,
		warning.IssuedAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка создания предупреждения: %w", err)
	}

	return nil
}

const warningColumns = `id, subject_id, issuer_id, review_id, warning_type,
		severity, comment, upvote_count, verified, issued_at`

func scanWarning(row pgx.Row) (*domain.Warning, error) {
	var warning domain.Warning
	err := row.Scan(
		&warning.ID,
		&warning.SubjectID,
		&warning.IssuerID,
		&warning.ReviewID,
		&warning.WarningType,
		&warning.Severity,
		&warning.Comment,
		&warning.UpvoteCount,
		&warning.Verified,
		&warning.IssuedAt,
	)
	if err != nil {
		return nil, err
	}
	return &warning, nil
}

func (r *WarningRepo) GetByID(ctx context.Context, id string) (*domain.Warning, error) {
	query := `SELECT ` + warningColumns + ` FROM warnings WHERE id = $1`

	warning, err := scanWarning(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("предупреждение с id %s не найдено", id)
		}
		return nil, fmt.Errorf("ошибка получения предупреждения: %w", err)
	}

	return warning, nil
}

func (r *WarningRepo) ListBySubject(ctx context.Context, subjectID int64) ([]domain.Warning, error) {
	query := `SELECT ` + warningColumns + `
		FROM warnings
		WHERE subject_id = $1
		ORDER BY issued_at DESC, id
	`

	rows, err := r.db.Query(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения предупреждений субъекта: %w", err)
	}
	defer rows.Close()

	warnings := make([]domain.Warning, 0)
	for rows.Next() {
		warning, err := scanWarning(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки предупреждения: %w", err)
		}
		warnings = append(warnings, *warning)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return warnings, nil
}

func (r *WarningRepo) CountBySubject(ctx context.Context, subjectID int64) (int, error) {
	query := `SELECT COUNT(*) FROM warnings WHERE subject_id = $1`

	var count int
	err := r.db.QueryRow(ctx, query, subjectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета предупреждений: %w", err)
	}

	return count, nil
}

func (r *WarningRepo) HasCorroborated(ctx context.Context, warningID string, corroboratorID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM warning_corroborations
			WHERE warning_id = $1 AND corroborator_id = $2
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, warningID, corroboratorID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки подтверждения: %w", err)
	}

	return exists, nil
}

func (r *WarningRepo) RecordCorroboration(ctx context.Context, warningID string, corroboratorID int64) (*domain.Warning, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
		INSERT INTO warning_corroborations (warning_id, corroborator_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (warning_id, corroborator_id) DO NOTHING
	`

	tag, err := tx.Exec(ctx, insertQuery, warningID, corroboratorID)
	if err != nil {
		return nil, false, fmt.Errorf("ошибка записи подтверждения: %w", err)
	}

	// Гонка двух одновременных подтверждений одной личностью
	// разрешается уникальным индексом: проигравший ничего не меняет.
	if tag.RowsAffected() == 0 {
		return nil, false, nil
	}

	// Счетчик ведется на стороне базы: блокировка строки сериализует
	// параллельные подтверждения разными личностями, инкременты не
	// теряются, а verified выставляется ровно на пороге.
	updateQuery := `
		UPDATE warnings
		SET upvote_count = upvote_count + 1,
		    verified = verified OR upvote_count + 1 >= $2
		WHERE id = $1
		RETURNING ` + warningColumns

	warning, err := scanWarning(tx.QueryRow(ctx, updateQuery, warningID, rating.CorroborationThreshold))
	if err != nil {
		return nil, false, fmt.Errorf("ошибка обновления предупреждения: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return warning, true, nil
}
