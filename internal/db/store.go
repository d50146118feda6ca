package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"horse.fit/newsanalysis/internal/analysis"
	"horse.fit/newsanalysis/internal/classify"
	"horse.fit/newsanalysis/internal/globaltime"
)

// NewsFilter selects news items for a batch. Zero values impose no constraint.
type NewsFilter struct {
	IDs            []int64
	Category       string
	Since          *time.Time
	OnlyUnanalyzed bool
	// AfterID pages by key: only rows with a greater id are returned.
	AfterID int64
	Limit   int
	Offset  int
}

// Store reads news items and categories and persists analysis write-back.
type Store struct {
	gdb *gorm.DB
}

func NewStore(pool *Pool) *Store {
	return &Store{gdb: pool.GORM()}
}

// NewStoreFromGORM wraps an existing handle, e.g. a transaction.
func NewStoreFromGORM(gdb *gorm.DB) *Store {
	return &Store{gdb: gdb}
}

func (s *Store) ready() error {
	if s == nil || s.gdb == nil {
		return fmt.Errorf("news store is not initialized")
	}
	return nil
}

func (s *Store) ListNews(ctx context.Context, filter NewsFilter) ([]*analysis.Item, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	q := s.gdb.WithContext(ctx).Model(&NewsItem{})
	if len(filter.IDs) > 0 {
		q = q.Where("news_items.id IN ?", filter.IDs)
	}
	if name := strings.TrimSpace(filter.Category); name != "" {
		q = q.Joins("JOIN categories ON categories.id = news_items.category_id").
			Where("categories.name ILIKE ?", "%"+name+"%")
	}
	if filter.Since != nil {
		q = q.Where("news_items.created_at >= ?", filter.Since.UTC())
	}
	if filter.OnlyUnanalyzed {
		q = q.Where("news_items.analyzed_at IS NULL")
	}
	if filter.AfterID > 0 {
		q = q.Where("news_items.id > ?", filter.AfterID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var rows []NewsItem
	if err := q.Order("news_items.id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list news items: %w", err)
	}

	items := make([]*analysis.Item, 0, len(rows))
	for i := range rows {
		item, err := rows[i].toItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// LoadNews returns the items with the given IDs; unknown IDs are skipped.
func (s *Store) LoadNews(ctx context.Context, ids []int64) ([]*analysis.Item, error) {
	if len(ids) == 0 {
		return []*analysis.Item{}, nil
	}
	return s.ListNews(ctx, NewsFilter{IDs: ids})
}

// ListPending returns items never analyzed, oldest first.
func (s *Store) ListPending(ctx context.Context, limit int) ([]*analysis.Item, error) {
	return s.ListNews(ctx, NewsFilter{OnlyUnanalyzed: true, Limit: limit})
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	sqlDB, err := s.gdb.DB()
	if err != nil {
		return fmt.Errorf("resolve sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) GetNews(ctx context.Context, id int64) (*analysis.Item, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	var row NewsItem
	err := s.gdb.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("news item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get news item %d: %w", id, err)
	}
	return row.toItem()
}

func (s *Store) ListCategories(ctx context.Context) ([]classify.Category, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	var rows []Category
	if err := s.gdb.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	categories := make([]classify.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, classify.Category{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
		})
	}
	return categories, nil
}

// SaveAnalysis writes every analysis column of one row inside a transaction
// holding the row lock.
func (s *Store) SaveAnalysis(ctx context.Context, id int64, result analysis.AnalysisResult) error {
	if err := s.ready(); err != nil {
		return err
	}

	updates, err := analysisColumns(result)
	if err != nil {
		return err
	}

	return s.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row NewsItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", id).
			Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("news item %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock news item %d: %w", id, err)
		}

		if err := tx.Model(&NewsItem{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("update analysis of news item %d: %w", id, err)
		}
		return nil
	})
}

func (s *Store) AssignCategory(ctx context.Context, id int64, categoryID int64) error {
	if err := s.ready(); err != nil {
		return err
	}

	res := s.gdb.WithContext(ctx).
		Model(&NewsItem{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"category_id": categoryID,
			"updated_at":  globaltime.UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("assign category %d to news item %d: %w", categoryID, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("news item %d: %w", id, ErrNotFound)
	}
	return nil
}

func analysisColumns(result analysis.AnalysisResult) (map[string]any, error) {
	entities := result.Entities
	if entities == nil {
		entities = map[string][]string{}
	}
	entitiesJSON, err := json.Marshal(entities)
	if err != nil {
		return nil, fmt.Errorf("encode entities: %w", err)
	}

	contexts := result.Contexts
	if contexts == nil {
		contexts = []string{}
	}
	contextsJSON, err := json.Marshal(contexts)
	if err != nil {
		return nil, fmt.Errorf("encode contexts: %w", err)
	}

	analyzedAt := result.AnalyzedAt
	if analyzedAt.IsZero() {
		analyzedAt = globaltime.UTC()
	}

	var language any
	if result.Language != "" {
		language = result.Language
	}

	return map[string]any{
		"sentiment_score":      result.SentimentScore,
		"sentiment_label":      result.SentimentLabel,
		"sentiment_confidence": result.SentimentConfidence,
		"entities":             datatypes.JSON(entitiesJSON),
		"contexts":             datatypes.JSON(contextsJSON),
		"language":             language,
		"analyzed_at":          analyzedAt.UTC(),
		"updated_at":           globaltime.UTC(),
	}, nil
}

// toItem converts a row. Stored entities or contexts that do not decode are
// reported instead of being read as empty.
func (n NewsItem) toItem() (*analysis.Item, error) {
	item := &analysis.Item{
		ID:         n.ID,
		Title:      n.Title,
		Summary:    n.Summary,
		Content:    n.Content,
		CategoryID: n.CategoryID,
		AnalyzedAt: n.AnalyzedAt,
	}
	if n.AnalyzedAt == nil {
		return item, nil
	}

	stored := &analysis.AnalysisResult{
		Entities:   map[string][]string{},
		Contexts:   []string{},
		AnalyzedAt: *n.AnalyzedAt,
	}
	if n.SentimentScore != nil {
		stored.SentimentScore = *n.SentimentScore
	}
	if n.SentimentLabel != nil {
		stored.SentimentLabel = *n.SentimentLabel
	}
	if n.SentimentConfidence != nil {
		stored.SentimentConfidence = *n.SentimentConfidence
	}
	if n.Language != nil {
		stored.Language = *n.Language
	}
	if len(n.Entities) > 0 {
		if err := json.Unmarshal(n.Entities, &stored.Entities); err != nil {
			return nil, fmt.Errorf("decode entities of news item %d: %w", n.ID, err)
		}
	}
	if len(n.Contexts) > 0 {
		if err := json.Unmarshal(n.Contexts, &stored.Contexts); err != nil {
			return nil, fmt.Errorf("decode contexts of news item %d: %w", n.ID, err)
		}
	}
	item.Analysis = stored
	return item, nil
}
