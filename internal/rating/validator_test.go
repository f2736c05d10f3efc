package rating

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zuhre/internal/domain"
)

func validFacts() SubmissionFacts {
	return SubmissionFacts{
		BookingCompleted: true,
		BookingVerified:  true,
		AcceptAttachment: func(ref string) bool { return true },
	}
}

func validDTO() domain.CreateReviewDTO {
	return domain.CreateReviewDTO{
		BookingID: 42,
		Direction: domain.DirectionCustomerRated,
		CriteriaValues: map[string]int{
			"punctuality": 5,
			"payment":     4,
		},
		Content: "все прошло отлично, рекомендую",
		Tags:    []string{"polite", "on_time"},
	}
}

func kindOf(t *testing.T, err error) domain.ValidationErrorKind {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "ожидалась ошибка валидации, получено: %v", err)
	return verr.Kind
}

func TestValidateAccepts(t *testing.T) {
	review, err := Validate(validDTO(), 7, 3, validFacts())
	require.NoError(t, err)

	assert.Empty(t, review.ID)
	assert.Equal(t, int64(7), review.SubjectID)
	assert.Equal(t, int64(3), review.AuthorID)
	assert.Equal(t, int64(42), review.BookingID)
	assert.True(t, review.IsVerifiedBooking)
	assert.InDelta(t, (5.0*1.0+4.0*2.0)/3.0, review.OverallRating, 1e-9)
	assert.False(t, review.CreatedAt.IsZero())
}

func TestValidateBookingNotEligible(t *testing.T) {
	facts := validFacts()
	facts.BookingCompleted = false

	_, err := Validate(validDTO(), 7, 3, facts)
	assert.Equal(t, domain.ErrBookingNotEligible, kindOf(t, err))
}

func TestValidateDuplicateAlwaysRejected(t *testing.T) {
	facts := validFacts()
	facts.AlreadyReviewed = true

	// Повторная подача отклоняется даже с другим содержимым.
	dto := validDTO()
	dto.Content = "совсем другой текст отзыва, но бронирование то же"
	_, err := Validate(dto, 7, 3, facts)
	assert.Equal(t, domain.ErrDuplicateSubmission, kindOf(t, err))
}

func TestValidateCriteria(t *testing.T) {
	t.Run("пустой набор критериев", func(t *testing.T) {
		dto := validDTO()
		dto.CriteriaValues = map[string]int{}
		_, err := Validate(dto, 7, 3, validFacts())
		assert.Equal(t, domain.ErrInvalidCriteria, kindOf(t, err))
	})

	t.Run("критерий чужого направления", func(t *testing.T) {
		dto := validDTO()
		dto.CriteriaValues = map[string]int{"service_quality": 5}
		_, err := Validate(dto, 7, 3, validFacts())
		assert.Equal(t, domain.ErrInvalidCriteria, kindOf(t, err))
	})

	t.Run("значение вне диапазона", func(t *testing.T) {
		dto := validDTO()
		dto.CriteriaValues = map[string]int{"payment": 6}
		_, err := Validate(dto, 7, 3, validFacts())
		assert.Equal(t, domain.ErrInvalidCriteria, kindOf(t, err))

		dto.CriteriaValues = map[string]int{"payment": 0}
		_, err = Validate(dto, 7, 3, validFacts())
		assert.Equal(t, domain.ErrInvalidCriteria, kindOf(t, err))
	})

	t.Run("один критерий достаточен", func(t *testing.T) {
		dto := validDTO()
		dto.CriteriaValues = map[string]int{"behavior": 4}
		review, err := Validate(dto, 7, 3, validFacts())
		require.NoError(t, err)
		assert.Equal(t, 4.0, review.OverallRating)
	})
}

func TestValidateContentBounds(t *testing.T) {
	dto := validDTO()
	dto.Content = "коротко"
	_, err := Validate(dto, 7, 3, validFacts())
	assert.Equal(t, domain.ErrContentTooShort, kindOf(t, err))

	dto.Content = strings.Repeat("щ", ContentMaxLen+1)
	_, err = Validate(dto, 7, 3, validFacts())
	assert.Equal(t, domain.ErrContentTooLong, kindOf(t, err))

	// Пустой текст допустим: содержимое опционально.
	dto.Content = ""
	_, err = Validate(dto, 7, 3, validFacts())
	assert.NoError(t, err)
}

func TestValidateTitleBounds(t *testing.T) {
	dto := validDTO()
	dto.Title = "аб"
	_, err := Validate(dto, 7, 3, validFacts())
	assert.Equal(t, domain.ErrContentTooShort, kindOf(t, err))

	dto.Title = strings.Repeat("т", TitleMaxLen+1)
	_, err = Validate(dto, 7, 3, validFacts())
	assert.Equal(t, domain.ErrContentTooLong, kindOf(t, err))
}

func TestValidateTags(t *testing.T) {
	dto := validDTO()
	dto.Tags = []string{"polite", "on_time", "clean", "rude", "late", "no_show"}
	_, err := Validate(dto, 7, 3, validFacts())
	assert.Equal(t, domain.ErrTooManyTags, kindOf(t, err))

	dto.Tags = []string{"nonexistent_tag"}
	_, err = Validate(dto, 7, 3, validFacts())
	assert.Equal(t, domain.ErrUnknownTag, kindOf(t, err))

	// Дубликаты тегов схлопываются, а не отклоняются.
	dto.Tags = []string{"polite", "polite"}
	review, err := Validate(dto, 7, 3, validFacts())
	require.NoError(t, err)
	assert.Equal(t, []string{"polite"}, review.Tags)
}

func TestValidateAttachments(t *testing.T) {
	dto := validDTO()
	dto.Attachments = []string{"a", "b", "c", "d"}
	_, err := Validate(dto, 7, 3, validFacts())
	assert.Equal(t, domain.ErrTooManyAttachments, kindOf(t, err))

	facts := validFacts()
	facts.AcceptAttachment = func(ref string) bool { return ref != "bad" }
	dto.Attachments = []string{"ok", "bad"}
	_, err = Validate(dto, 7, 3, facts)
	assert.Equal(t, domain.ErrRejectedAttachment, kindOf(t, err))

	// Без предиката вложения отклоняются целиком.
	facts.AcceptAttachment = nil
	dto.Attachments = []string{"ok"}
	_, err = Validate(dto, 7, 3, facts)
	assert.Equal(t, domain.ErrRejectedAttachment, kindOf(t, err))
}

func TestValidateCopiesCriteriaValues(t *testing.T) {
	dto := validDTO()
	review, err := Validate(dto, 7, 3, validFacts())
	require.NoError(t, err)

	dto.CriteriaValues["punctuality"] = 1
	assert.Equal(t, 5, review.CriteriaValues["punctuality"])
}
