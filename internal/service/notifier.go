package service

import (
	"context"

	"go.uber.org/zap"

	"zuhre/internal/domain"
)

// Notifier уведомляет внешний мир о событиях движка. Вызовы
// fire-and-forget: доставка — забота внешнего транспорта, движок
// гарантий не дает и ошибок доставки не видит.
type Notifier interface {
	ReviewAccepted(ctx context.Context, review domain.Review)
	WarningCreated(ctx context.Context, warning domain.Warning)
}

type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{
		logger: logger,
	}
}

func (n *LogNotifier) ReviewAccepted(_ context.Context, review domain.Review) {
	n.logger.Info("отзыв принят",
		zap.String("reviewID", review.ID),
		zap.Int64("subjectID", review.SubjectID),
		zap.String("direction", string(review.Direction)),
		zap.Float64("overall", review.OverallRating))
}

func (n *LogNotifier) WarningCreated(_ context.Context, warning domain.Warning) {
	n.logger.Warn("создано предупреждение",
		zap.String("warningID", warning.ID),
		zap.Int64("subjectID", warning.SubjectID),
		zap.String("type", string(warning.WarningType)),
		zap.String("severity", string(warning.Severity)))
}
