package storage

import (
	"context"
	"time"
)

type FileStorage interface {
	UploadFile(ctx context.Context, data []byte, filename string) (string, error)

	DeleteFile(ctx context.Context, fileURL string) error

	GetPresignedURL(ctx context.Context, fileURL string, expiry time.Duration) (string, error)

	// IsAcceptableAttachment проверяет, что ссылка указывает на объект
	// в нашем хранилище и он пригоден как вложение к отзыву.
	IsAcceptableAttachment(ctx context.Context, fileURL string) bool
}
