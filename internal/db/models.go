package db

import (
	"time"

	"gorm.io/datatypes"
)

// Category maps categories.
type Category struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;type:text;not null;uniqueIndex"`
	Description string    `gorm:"column:description;type:text;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (Category) TableName() string { return "categories" }

// NewsItem maps news_items. The sentiment, entity and context columns are
// written together by one analysis; analyzed_at marks the row as analyzed.
type NewsItem struct {
	ID                  int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Title               string         `gorm:"column:title;type:text;not null"`
	Summary             string         `gorm:"column:summary;type:text;not null;default:''"`
	Content             string         `gorm:"column:content;type:text;not null;default:''"`
	Source              string         `gorm:"column:source;type:text;not null;default:''"`
	CategoryID          *int64         `gorm:"column:category_id;type:bigint;index"`
	Category            *Category      `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	SentimentScore      *float64       `gorm:"column:sentiment_score;type:double precision"`
	SentimentLabel      *string        `gorm:"column:sentiment_label;type:text"`
	SentimentConfidence *float64       `gorm:"column:sentiment_confidence;type:double precision"`
	Entities            datatypes.JSON `gorm:"column:entities;type:jsonb"`
	Contexts            datatypes.JSON `gorm:"column:contexts;type:jsonb"`
	Language            *string        `gorm:"column:language;type:text"`
	AnalyzedAt          *time.Time     `gorm:"column:analyzed_at;type:timestamptz;index"`
	CreatedAt           time.Time      `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (NewsItem) TableName() string { return "news_items" }
