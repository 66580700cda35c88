package file

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"appMatch/domain"
)

// AppsRepository reads the app catalog CSV
// (app_id,app_name,super_category,app_platform). Missing or
// NaN-equivalent cells are normalized to absent.
type AppsRepository struct {
	path string
}

func NewAppsRepository(path string) *AppsRepository {
	return &AppsRepository{path: path}
}

func (r *AppsRepository) LoadAppMetadata(ctx context.Context) (map[string]domain.AppMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open apps file %s: %w", r.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse apps file %s: %w", r.path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("apps file %s is empty", r.path)
	}

	cols := columnIndex(rows[0])
	idCol, ok := cols["app_id"]
	if !ok {
		return nil, fmt.Errorf("apps file %s has no app_id column", r.path)
	}

	meta := make(map[string]domain.AppMetadata, len(rows)-1)
	for _, row := range rows[1:] {
		appID := cell(row, idCol)
		if appID == "" {
			continue
		}
		meta[appID] = domain.AppMetadata{
			Name:     cell(row, colOf(cols, "app_name")),
			Category: cell(row, colOf(cols, "super_category")),
			Platform: cell(row, colOf(cols, "app_platform")),
		}
	}

	return meta, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return cols
}

func colOf(cols map[string]int, name string) int {
	if i, ok := cols[name]; ok {
		return i
	}
	return -1
}

// cell returns the trimmed value, mapping NaN placeholders from the
// upstream pandas exports to absent.
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	v := strings.TrimSpace(row[col])
	if strings.EqualFold(v, "nan") || strings.EqualFold(v, "null") || strings.EqualFold(v, "none") {
		return ""
	}
	return v
}
