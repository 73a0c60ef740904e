package audit

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Store is the persistence side of the access log.
type Store struct {
	db *gorm.DB
}

// NewStore wraps a database handle. With autoMigrate set, the access_logs
// table is created if missing.
func NewStore(db *gorm.DB, autoMigrate bool) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if autoMigrate {
		if err := db.AutoMigrate(&Entry{}); err != nil {
			return nil, fmt.Errorf("failed to auto-migrate access_logs: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Insert writes a batch of entries.
func (s *Store) Insert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&entries).Error
}

// Filter narrows a Query. Unidade is required; the remaining fields are
// optional AND conditions.
type Filter struct {
	Unidade  string
	UserID   string
	Resource string
	Action   string
	From     time.Time
	To       time.Time
	Page     int
	Limit    int
}

// Query returns entries newest-first, paginated, plus the total count for
// the filter.
func (s *Store) Query(ctx context.Context, f Filter) ([]Entry, int64, error) {
	if f.Unidade == "" {
		return nil, 0, fmt.Errorf("unidade filter is required")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	query := s.db.WithContext(ctx).Model(&Entry{}).Where("unidade = ?", f.Unidade)
	if f.UserID != "" {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Resource != "" {
		query = query.Where("resource = ?", f.Resource)
	}
	if f.Action != "" {
		query = query.Where("action = ?", f.Action)
	}
	if !f.From.IsZero() {
		query = query.Where("timestamp >= ?", f.From)
	}
	if !f.To.IsZero() {
		query = query.Where("timestamp <= ?", f.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []Entry
	err := query.Order("timestamp DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Count is a grouped tally used by the report queries.
type Count struct {
	Key   string `gorm:"column:key"`
	Total int64  `gorm:"column:total"`
}

// Stats summarizes the log for one unidade over a time range.
type Stats struct {
	Total        int64
	Failed       int64
	SuccessRate  float64
	TopActions   []Count
	TopResources []Count
}

// Stats derives the report figures from the log: per-action and
// per-resource counts plus the overall success rate.
func (s *Store) Stats(ctx context.Context, unidade string, from, to time.Time) (Stats, error) {
	if unidade == "" {
		return Stats{}, fmt.Errorf("unidade is required")
	}

	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&Entry{}).Where("unidade = ?", unidade)
		if !from.IsZero() {
			q = q.Where("timestamp >= ?", from)
		}
		if !to.IsZero() {
			q = q.Where("timestamp <= ?", to)
		}
		return q
	}

	var out Stats
	if err := base().Count(&out.Total).Error; err != nil {
		return Stats{}, err
	}
	if err := base().Where("success = ?", false).Count(&out.Failed).Error; err != nil {
		return Stats{}, err
	}
	if out.Total > 0 {
		out.SuccessRate = float64(out.Total-out.Failed) / float64(out.Total)
	}

	err := base().Select("action AS key, COUNT(*) AS total").
		Group("action").Order("total DESC").Limit(10).
		Scan(&out.TopActions).Error
	if err != nil {
		return Stats{}, err
	}

	err = base().Select("resource AS key, COUNT(*) AS total").
		Group("resource").Order("total DESC").Limit(10).
		Scan(&out.TopResources).Error
	if err != nil {
		return Stats{}, err
	}

	return out, nil
}
