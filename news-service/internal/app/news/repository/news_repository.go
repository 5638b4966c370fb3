package repository

import (
	"context"
	"errors"

	"pustakago/news-service/internal/app/news/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrNewsNotFound = errors.New("news not found")
)

type newsRepository struct {
	db *gorm.DB // GORM DB для работы с PostgreSQL
}

// NewNewsRepository создает новый репозиторий новостей
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

// GetAll получает все новости, свежие сверху
func (r *newsRepository) GetAll(ctx context.Context) ([]entity.News, error) {
	var news []entity.News
	result := r.db.WithContext(ctx).
		Order("published_at DESC").
		Find(&news)

	if result.Error != nil {
		return nil, result.Error
	}

	return news, nil
}

// GetLatest получает последние новости с ограничением количества
func (r *newsRepository) GetLatest(ctx context.Context, limit int) ([]entity.News, error) {
	var news []entity.News
	result := r.db.WithContext(ctx).
		Order("published_at DESC").
		Limit(limit).
		Find(&news)

	if result.Error != nil {
		return nil, result.Error
	}

	return news, nil
}

// GetBreaking получает срочные новости
func (r *newsRepository) GetBreaking(ctx context.Context) ([]entity.News, error) {
	var news []entity.News
	result := r.db.WithContext(ctx).
		Where("is_breaking = ?", true).
		Order("published_at DESC").
		Find(&news)

	if result.Error != nil {
		return nil, result.Error
	}

	return news, nil
}

// GetTrending получает новости с наибольшим числом просмотров
func (r *newsRepository) GetTrending(ctx context.Context, limit int) ([]entity.News, error) {
	var news []entity.News
	result := r.db.WithContext(ctx).
		Order("view_count DESC").
		Limit(limit).
		Find(&news)

	if result.Error != nil {
		return nil, result.Error
	}

	return news, nil
}

// GetByCategory получает новости указанной категории
func (r *newsRepository) GetByCategory(ctx context.Context, category string) ([]entity.News, error) {
	var news []entity.News
	result := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("published_at DESC").
		Find(&news)

	if result.Error != nil {
		return nil, result.Error
	}

	return news, nil
}

// GetByID получает новость по ID
func (r *newsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.News, error) {
	var news entity.News
	result := r.db.WithContext(ctx).First(&news, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, result.Error
	}

	return &news, nil
}

// Search ищет новости по заголовку и содержимому
func (r *newsRepository) Search(ctx context.Context, query string) ([]entity.News, error) {
	var news []entity.News
	pattern := "%" + query + "%"
	result := r.db.WithContext(ctx).
		Where("title ILIKE ? OR content ILIKE ?", pattern, pattern).
		Order("published_at DESC").
		Find(&news)

	if result.Error != nil {
		return nil, result.Error
	}

	return news, nil
}

// IncrementViewCount атомарно увеличивает счетчик просмотров
// Инкремент выполняется на стороне БД, без read-modify-write
func (r *newsRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&entity.News{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNewsNotFound
	}

	return nil
}
