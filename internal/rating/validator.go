package rating

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"zuhre/internal/domain"
)

const (
	ContentMinLen  = 10
	ContentMaxLen  = 2000
	TitleMinLen    = 3
	TitleMaxLen    = 100
	MaxTags        = 5
	MaxAttachments = 3
)

// SubmissionFacts — внешние факты о заявке, которые валидатор сам
// проверить не может: состояние бронирования, повторная подача и
// политика вложений. Их собирает сервисный слой.
type SubmissionFacts struct {
	BookingCompleted bool
	AlreadyReviewed  bool
	BookingVerified  bool

	// AcceptAttachment — предикат типа/размера вложения. Валидатор
	// сам байты не разглядывает, это забота хранилища.
	AcceptAttachment func(ref string) bool
}

// Validate проверяет заявку по правилам в фиксированном порядке и при
// успехе возвращает нормализованный отзыв без присвоенного ID.
// Побочных эффектов нет.
func Validate(dto domain.CreateReviewDTO, subjectID, authorID int64, facts SubmissionFacts) (*domain.Review, error) {
	if !facts.BookingCompleted {
		return nil, domain.NewValidationError(domain.ErrBookingNotEligible, "booking_id",
			"отзыв можно оставить только по завершенному бронированию с вашим участием")
	}

	if facts.AlreadyReviewed {
		return nil, domain.NewValidationError(domain.ErrDuplicateSubmission, "booking_id",
			"вы уже оставили отзыв по этому бронированию")
	}

	registry, err := RegistryFor(dto.Direction)
	if err != nil {
		return nil, domain.NewValidationError(domain.ErrInvalidCriteria, "direction", err.Error())
	}

	if len(dto.CriteriaValues) == 0 {
		return nil, domain.NewValidationError(domain.ErrInvalidCriteria, "criteria_values",
			"нужна оценка хотя бы по одному критерию")
	}

	for key, value := range dto.CriteriaValues {
		if _, ok := registry.Criterion(key); !ok {
			return nil, domain.NewValidationError(domain.ErrInvalidCriteria, "criteria_values",
				fmt.Sprintf("критерий %q не применим к данному направлению", key))
		}
		if value < 1 || value > 5 {
			return nil, domain.NewValidationError(domain.ErrInvalidCriteria, "criteria_values",
				fmt.Sprintf("оценка критерия %q должна быть от 1 до 5", key))
		}
	}

	content := strings.TrimSpace(dto.Content)
	if content != "" {
		if utf8.RuneCountInString(content) < ContentMinLen {
			return nil, domain.NewValidationError(domain.ErrContentTooShort, "content",
				fmt.Sprintf("текст отзыва короче %d символов", ContentMinLen))
		}
		if utf8.RuneCountInString(content) > ContentMaxLen {
			return nil, domain.NewValidationError(domain.ErrContentTooLong, "content",
				fmt.Sprintf("текст отзыва длиннее %d символов", ContentMaxLen))
		}
	}

	title := strings.TrimSpace(dto.Title)
	if title != "" {
		if utf8.RuneCountInString(title) < TitleMinLen {
			return nil, domain.NewValidationError(domain.ErrContentTooShort, "title",
				fmt.Sprintf("заголовок короче %d символов", TitleMinLen))
		}
		if utf8.RuneCountInString(title) > TitleMaxLen {
			return nil, domain.NewValidationError(domain.ErrContentTooLong, "title",
				fmt.Sprintf("заголовок длиннее %d символов", TitleMaxLen))
		}
	}

	if len(dto.Tags) > MaxTags {
		return nil, domain.NewValidationError(domain.ErrTooManyTags, "tags",
			fmt.Sprintf("не более %d тегов", MaxTags))
	}
	tags := make([]string, 0, len(dto.Tags))
	seenTags := make(map[string]struct{}, len(dto.Tags))
	for _, tag := range dto.Tags {
		if !IsKnownTag(tag) {
			return nil, domain.NewValidationError(domain.ErrUnknownTag, "tags",
				fmt.Sprintf("неизвестный тег %q", tag))
		}
		if _, dup := seenTags[tag]; dup {
			continue
		}
		seenTags[tag] = struct{}{}
		tags = append(tags, tag)
	}

	if len(dto.Attachments) > MaxAttachments {
		return nil, domain.NewValidationError(domain.ErrTooManyAttachments, "attachments",
			fmt.Sprintf("не более %d вложений", MaxAttachments))
	}
	for _, ref := range dto.Attachments {
		if facts.AcceptAttachment == nil || !facts.AcceptAttachment(ref) {
			return nil, domain.NewValidationError(domain.ErrRejectedAttachment, "attachments",
				fmt.Sprintf("вложение %q не прошло проверку типа или размера", ref))
		}
	}

	overall, err := ComputeOverall(dto.CriteriaValues, dto.Direction)
	if err != nil {
		return nil, domain.NewValidationError(domain.ErrInvalidCriteria, "criteria_values", err.Error())
	}

	values := make(map[string]int, len(dto.CriteriaValues))
	for key, value := range dto.CriteriaValues {
		values[key] = value
	}

	return &domain.Review{
		SubjectID:         subjectID,
		AuthorID:          authorID,
		BookingID:         dto.BookingID,
		Direction:         dto.Direction,
		CriteriaValues:    values,
		OverallRating:     overall,
		AuthorRating:      dto.AuthorRating,
		Title:             title,
		Content:           content,
		Tags:              tags,
		Attachments:       append([]string(nil), dto.Attachments...),
		IsVerifiedBooking: facts.BookingVerified,
		CreatedAt:         time.Now(),
	}, nil
}
