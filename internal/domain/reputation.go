package domain

import (
	"time"
)

// ReputationStats — накопительная статистика субъекта по одному направлению.
// Обновляется инкрементально при каждом принятом отзыве и должна
// воспроизводиться полным пересчетом истории отзывов.
type ReputationStats struct {
	SubjectID int64     `json:"subject_id"`
	Direction Direction `json:"direction"`

	Average       float64 `json:"average"`
	Count         int     `json:"count"`
	Distribution  [5]int  `json:"distribution"`
	VerifiedCount int     `json:"verified_count"`

	// LastPeriodCount — количество отзывов за последние 30 дней.
	// Вычисляется при чтении, в Fold не участвует.
	LastPeriodCount int `json:"last_period_count"`

	UpdatedAt time.Time `json:"updated_at"`
}

// ReputationTier — дискретный уровень репутации, производная величина.
type ReputationTier string

const (
	TierNew       ReputationTier = "new"
	TierPoor      ReputationTier = "poor"
	TierAverage   ReputationTier = "average"
	TierTrusted   ReputationTier = "trusted"
	TierExcellent ReputationTier = "excellent"
	TierCaution   ReputationTier = "caution"
	TierRisky     ReputationTier = "risky"
)

type ReputationSummary struct {
	Stats        ReputationStats `json:"stats"`
	WarningCount int             `json:"warning_count"`
	Tier         ReputationTier  `json:"tier"`
}
