package file

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"appMatch/domain"
	"appMatch/pkg/logger"
)

// PerformanceRepository reads historical per-event performance rows
// from CSV (app_id,clicks,impressions,revenue). Rows that fail to
// parse are skipped with a count, never fatal.
type PerformanceRepository struct {
	path string
}

func NewPerformanceRepository(path string) *PerformanceRepository {
	return &PerformanceRepository{path: path}
}

func (r *PerformanceRepository) LoadPerformanceEvents(ctx context.Context) ([]domain.PerformanceEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open performance file %s: %w", r.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse performance file %s: %w", r.path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("performance file %s is empty", r.path)
	}

	cols := columnIndex(rows[0])
	idCol := colOf(cols, "app_id")
	if idCol < 0 {
		return nil, fmt.Errorf("performance file %s has no app_id column", r.path)
	}
	clicksCol := colOf(cols, "clicks")
	imprCol := colOf(cols, "impressions")
	revCol := colOf(cols, "revenue")

	events := make([]domain.PerformanceEvent, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		appID := cell(row, idCol)
		if appID == "" {
			skipped++
			continue
		}

		clicks, errClicks := parseInt(cell(row, clicksCol))
		impressions, errImpr := parseInt(cell(row, imprCol))
		if errClicks != nil || errImpr != nil {
			skipped++
			continue
		}

		// revenue is optional; absent parses as zero
		revenue, err := parseFloat(cell(row, revCol))
		if err != nil {
			skipped++
			continue
		}

		events = append(events, domain.PerformanceEvent{
			AppID:       appID,
			Clicks:      clicks,
			Impressions: impressions,
			Revenue:     revenue,
		})
	}

	if skipped > 0 {
		logger.Warn("skipped malformed performance rows", "file", r.path, "skipped", skipped)
	}

	return events, nil
}

func parseInt(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
