package postgres

import (
	"context"
	"fmt"

	"appMatch/domain"

	"gorm.io/gorm"
)

// PerformanceRepository loads historical performance events from the
// ad_events table, for deployments where the event pipeline lands in
// Postgres instead of CSV exports.
type PerformanceRepository struct {
	DB *gorm.DB
}

func NewPerformanceRepository(db *gorm.DB) *PerformanceRepository {
	return &PerformanceRepository{DB: db}
}

type performanceEventRow struct {
	AppID       string  `gorm:"column:app_id"`
	Clicks      int64   `gorm:"column:clicks"`
	Impressions int64   `gorm:"column:impressions"`
	Revenue     float64 `gorm:"column:revenue"`
}

func (performanceEventRow) TableName() string {
	return "ad_events"
}

func (r *PerformanceRepository) LoadPerformanceEvents(ctx context.Context) ([]domain.PerformanceEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []performanceEventRow
	if err := r.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query ad_events: %w", err)
	}

	events := make([]domain.PerformanceEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, domain.PerformanceEvent{
			AppID:       row.AppID,
			Clicks:      row.Clicks,
			Impressions: row.Impressions,
			Revenue:     row.Revenue,
		})
	}

	return events, nil
}
