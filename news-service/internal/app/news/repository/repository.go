package repository

import (
	"context"

	"pustakago/news-service/internal/app/news/entity"

	"github.com/google/uuid"
)

// NewsRepository интерфейс для работы с новостями в PostgreSQL
type NewsRepository interface {
	GetAll(ctx context.Context) ([]entity.News, error)
	GetLatest(ctx context.Context, limit int) ([]entity.News, error)
	GetBreaking(ctx context.Context) ([]entity.News, error)
	GetTrending(ctx context.Context, limit int) ([]entity.News, error)
	GetByCategory(ctx context.Context, category string) ([]entity.News, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.News, error)
	Search(ctx context.Context, query string) ([]entity.News, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}
