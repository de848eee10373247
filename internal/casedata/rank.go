package casedata

import (
	"sort"

	"github.com/jengzang/casemap-backend-go/internal/models"
)

// Rank returns the records ordered by metric value at date, highest first.
// Ties keep their input order; the input slice is not modified.
func Rank(records []*models.GeoRecord, metric models.MetricName, date models.DateKey) []*models.GeoRecord {
	out := make([]*models.GeoRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value(metric, date) > out[j].Value(metric, date)
	})
	return out
}

// TopN ranks the records and keeps the first n entries; n <= 0 keeps all
func TopN(records []*models.GeoRecord, metric models.MetricName, date models.DateKey, n int) []models.RankEntry {
	ranked := Rank(records, metric, date)
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}

	entries := make([]models.RankEntry, len(ranked))
	for i, r := range ranked {
		entries[i] = models.RankEntry{
			Rank:     i + 1,
			Identity: r.Identity,
			Label:    r.Label(),
			Value:    r.Value(metric, date),
		}
	}
	return entries
}

// ComputeTotals sums the fetched metrics over all records at date.
// Active is derived from the sums.
func ComputeTotals(records []*models.GeoRecord, date models.DateKey) models.Totals {
	t := models.Totals{Date: date}
	for _, r := range records {
		t.Confirmed += r.Value(models.MetricConfirmed, date)
		t.Recovered += r.Value(models.MetricRecovered, date)
		t.Deaths += r.Value(models.MetricDeaths, date)
	}
	t.Active = t.Confirmed - t.Recovered - t.Deaths
	return t
}
