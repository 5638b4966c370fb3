package entity

import (
	"time"

	"github.com/google/uuid"
)

// News представляет новость литературного мира
type News struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Summary     string    `json:"summary" gorm:"type:text"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	ImageURL    string    `json:"image_url" gorm:"type:varchar(512)"`
	Category    string    `json:"category" gorm:"type:varchar(100);index"`
	Source      string    `json:"source" gorm:"type:varchar(255)"`
	IsBreaking  bool      `json:"is_breaking" gorm:"not null;default:false"` // Срочная новость
	ViewCount   int       `json:"view_count" gorm:"not null;default:0"`
	PublishedAt time.Time `json:"published_at" gorm:"index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName указывает имя таблицы для GORM
func (News) TableName() string {
	return "news"
}

// NewsListResponse - ответ со списком новостей
type NewsListResponse struct {
	News  []News `json:"news"`
	Total int    `json:"total"`
}
