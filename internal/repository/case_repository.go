package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jengzang/casemap-backend-go/internal/casedata"
	"github.com/jengzang/casemap-backend-go/internal/database"
	"github.com/jengzang/casemap-backend-go/internal/models"
)

// DefaultSearchLimit caps record searches without an explicit limit
const DefaultSearchLimit = 500

// CaseRepository stores the latest dataset snapshot for filtered queries
type CaseRepository struct {
	db *sql.DB
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

// ReplaceSnapshot swaps the stored snapshot for ds in one transaction
func (r *CaseRepository) ReplaceSnapshot(ctx context.Context, ds *casedata.Dataset) error {
	dates := ds.Timeline.All()

	return database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM series_values"); err != nil {
			return fmt.Errorf("failed to clear series: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM regions"); err != nil {
			return fmt.Errorf("failed to clear regions: %w", err)
		}

		regionStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO regions (identity, seq, region, sub_region, lat, lon)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare region insert: %w", err)
		}
		defer regionStmt.Close()

		valueStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO series_values (identity, metric, date_key, date_idx, value)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare series insert: %w", err)
		}
		defer valueStmt.Close()

		for seq, rec := range ds.Records() {
			if _, err := regionStmt.ExecContext(ctx, rec.Identity, seq, rec.Region, rec.SubRegion,
				rec.Geometry.Lat, rec.Geometry.Lon); err != nil {
				return fmt.Errorf("failed to insert region %s: %w", rec.Identity, err)
			}

			for _, metric := range models.AllMetrics {
				for i, d := range dates {
					if _, err := valueStmt.ExecContext(ctx, rec.Identity, string(metric), string(d), i,
						rec.Value(metric, d)); err != nil {
						return fmt.Errorf("failed to insert %s value for %s: %w", metric, rec.Identity, err)
					}
				}
			}
		}

		return nil
	})
}

// SearchRegions lists stored regions in first-seen order
func (r *CaseRepository) SearchRegions(ctx context.Context, filter models.RecordFilter) ([]models.RegionSummary, error) {
	var conditions []string
	var args []interface{}

	if filter.Region != "" {
		conditions = append(conditions, "region = ? COLLATE NOCASE")
		args = append(args, filter.Region)
	}
	if filter.Query != "" {
		conditions = append(conditions, "(region LIKE ? OR sub_region LIKE ?)")
		like := "%" + filter.Query + "%"
		args = append(args, like, like)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > DefaultSearchLimit {
		limit = DefaultSearchLimit
	}
	args = append(args, limit)

	query := `SELECT identity, seq, region, sub_region, lat, lon FROM regions` +
		whereClause + ` ORDER BY seq LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query regions: %w", err)
	}
	defer rows.Close()

	var out []models.RegionSummary
	for rows.Next() {
		var s models.RegionSummary
		if err := rows.Scan(&s.Identity, &s.Seq, &s.Region, &s.SubRegion, &s.Lat, &s.Lon); err != nil {
			return nil, fmt.Errorf("failed to scan region: %w", err)
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

// Totals sums every metric across the stored snapshot at date
func (r *CaseRepository) Totals(ctx context.Context, date models.DateKey) (models.Totals, error) {
	totals := models.Totals{Date: date}

	rows, err := r.db.QueryContext(ctx, `
		SELECT metric, COALESCE(SUM(value), 0)
		FROM series_values
		WHERE date_key = ?
		GROUP BY metric
	`, string(date))
	if err != nil {
		return totals, fmt.Errorf("failed to query totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var metric string
		var sum float64
		if err := rows.Scan(&metric, &sum); err != nil {
			return totals, fmt.Errorf("failed to scan totals: %w", err)
		}
		switch models.MetricName(metric) {
		case models.MetricConfirmed:
			totals.Confirmed = sum
		case models.MetricRecovered:
			totals.Recovered = sum
		case models.MetricDeaths:
			totals.Deaths = sum
		case models.MetricActive:
			totals.Active = sum
		}
	}

	return totals, rows.Err()
}

// Series returns one stored metric series for a region in date order
func (r *CaseRepository) Series(ctx context.Context, identity string, metric models.MetricName) ([]models.SeriesPoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date_key, value
		FROM series_values
		WHERE identity = ? AND metric = ?
		ORDER BY date_idx
	`, identity, string(metric))
	if err != nil {
		return nil, fmt.Errorf("failed to query series: %w", err)
	}
	defer rows.Close()

	var out []models.SeriesPoint
	for rows.Next() {
		var p models.SeriesPoint
		if err := rows.Scan(&p.Date, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan series value: %w", err)
		}
		out = append(out, p)
	}

	return out, rows.Err()
}
