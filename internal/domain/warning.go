package domain

import (
	"time"
)

type WarningType string

const (
	WarningTypePayment  WarningType = "payment"
	WarningTypeRespect  WarningType = "respect"
	WarningTypeBehavior WarningType = "behavior"
	WarningTypeSafety   WarningType = "safety"
	WarningTypeOther    WarningType = "other"
)

func (t WarningType) Valid() bool {
	switch t {
	case WarningTypePayment, WarningTypeRespect, WarningTypeBehavior, WarningTypeSafety, WarningTypeOther:
		return true
	}
	return false
}

type WarningSeverity string

const (
	SeverityLow    WarningSeverity = "low"
	SeverityMedium WarningSeverity = "medium"
	SeverityHigh   WarningSeverity = "high"
)

// Warning — структурное предупреждение о субъекте. Создается либо движком
// по результатам отзыва с низкими оценками чувствительных критериев, либо
// напрямую. Severity всегда производная, автор ее не выбирает.
// После создания меняются только UpvoteCount и Verified.
type Warning struct {
	ID        string `json:"id"`
	SubjectID int64  `json:"subject_id"`
	IssuerID  int64  `json:"-"`

	// ReviewID заполнен, если предупреждение порождено отзывом.
	ReviewID *string `json:"review_id,omitempty"`

	WarningType WarningType     `json:"warning_type"`
	Severity    WarningSeverity `json:"severity"`
	Comment     string          `json:"comment,omitempty"`

	UpvoteCount int       `json:"upvote_count"`
	Verified    bool      `json:"verified"`
	IssuedAt    time.Time `json:"issued_at"`
}

// CreateWarningDTO — прямая жалоба без занижения оценок в отзыве.
type CreateWarningDTO struct {
	SubjectID   int64       `json:"subject_id" binding:"required"`
	WarningType WarningType `json:"warning_type" binding:"required,oneof=payment respect behavior safety other"`
	Comment     string      `json:"comment" binding:"required"`
}
