package domain

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking — завершенная или ожидаемая сделка между клиентом и исполнителем.
// Отзывы разрешены только по завершенным бронированиям; IsVerified
// означает, что сделка подтверждена платформой.
type Booking struct {
	ID          int64         `json:"id"`
	ClientID    int64         `json:"client_id"`
	ProviderID  int64         `json:"provider_id"`
	ServiceDate time.Time     `json:"service_date"`
	Status      BookingStatus `json:"status"`
	IsVerified  bool          `json:"is_verified"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type CreateBookingDTO struct {
	ProviderID  int64     `json:"provider_id" binding:"required"`
	ServiceDate time.Time `json:"service_date" binding:"required"`
}

type BookingFilter struct {
	ClientID   *int64         `json:"client_id"`
	ProviderID *int64         `json:"provider_id"`
	Status     *BookingStatus `json:"status"`
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
}
