package domain

// ValidationErrorKind перечисляет виды ошибок проверки отзыва.
// Каждое правило валидатора дает свой вид, чтобы клиент мог показать
// сообщение рядом с конкретным полем формы.
type ValidationErrorKind string

const (
	ErrDuplicateSubmission ValidationErrorKind = "duplicate_submission"
	ErrBookingNotEligible  ValidationErrorKind = "booking_not_eligible"
	ErrInvalidCriteria     ValidationErrorKind = "invalid_criteria"
	ErrContentTooShort     ValidationErrorKind = "content_too_short"
	ErrContentTooLong      ValidationErrorKind = "content_too_long"
	ErrTooManyTags         ValidationErrorKind = "too_many_tags"
	ErrUnknownTag          ValidationErrorKind = "unknown_tag"
	ErrTooManyAttachments  ValidationErrorKind = "too_many_attachments"
	ErrRejectedAttachment  ValidationErrorKind = "rejected_attachment"
)

type ValidationError struct {
	Kind    ValidationErrorKind `json:"kind"`
	Field   string              `json:"field"`
	Message string              `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(kind ValidationErrorKind, field, message string) *ValidationError {
	return &ValidationError{
		Kind:    kind,
		Field:   field,
		Message: message,
	}
}
