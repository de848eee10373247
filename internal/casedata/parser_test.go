package casedata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jengzang/casemap-backend-go/internal/casedata"
	"github.com/jengzang/casemap-backend-go/internal/models"
)

func TestResolveIdentity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Testland", casedata.ResolveIdentity("Testland", ""))
	assert.Equal(t, "Australia|Victoria", casedata.ResolveIdentity("Australia", "Victoria"))
	assert.Equal(t, casedata.ResolveIdentity("China", "Hubei"), casedata.ResolveIdentity("China", "Hubei"))
	assert.NotEqual(t, casedata.ResolveIdentity("China", "Hubei"), casedata.ResolveIdentity("China", "Hunan"))
}

func TestDetectDateKeys(t *testing.T) {
	t.Parallel()

	cols := []string{"Province/State", "Country/Region", "Lat", "Long", "1/22/20", "1/23/20", "notes", "12/1/2020"}
	keys := casedata.DetectDateKeys(cols)

	assert.Equal(t, []models.DateKey{"1/22/20", "1/23/20", "12/1/2020"}, keys)
	assert.False(t, casedata.IsDateColumn("1/22"))
	assert.False(t, casedata.IsDateColumn("Lat"))
	assert.False(t, casedata.IsDateColumn(" 1/22/20"), "headers are trimmed by the source layer")
}

func TestDateKeysMatchRowLookup(t *testing.T) {
	t.Parallel()

	r := row("Testland", "", map[string]string{"1/22/20": "7", "1/23/20": "8"})
	keys := casedata.DetectDateKeys(r.Columns)

	series, coerced := casedata.ParseSeries(r, keys)
	assert.Zero(t, coerced)
	assert.Equal(t, models.TimeSeries{"1/22/20": 7, "1/23/20": 8}, series)
}

func TestDuplicateDateKeys(t *testing.T) {
	t.Parallel()

	keys := []models.DateKey{"1/22/20", "1/23/20", "1/23/20", "1/22/20", "1/23/20"}
	assert.Equal(t, []models.DateKey{"1/23/20", "1/22/20"}, casedata.DuplicateDateKeys(keys))
	assert.Empty(t, casedata.DuplicateDateKeys([]models.DateKey{"1/22/20", "1/23/20"}))
}

func TestCoerceValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		present bool
		want    float64
		ok      bool
	}{
		{"absent", "", false, 0, false},
		{"blank", "", true, 0, false},
		{"whitespace", "  ", true, 0, false},
		{"text", "abc", true, 0, false},
		{"nan", "NaN", true, 0, false},
		{"decimal", "12.5", true, 12.5, true},
		{"zero", "0", true, 0, true},
		{"negative", "-3", true, -3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := casedata.CoerceValue(tt.raw, tt.present)
			assert.InDelta(t, tt.want, got, 0)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParseSeriesCoercesSparseCells(t *testing.T) {
	t.Parallel()

	r := row("Testland", "", map[string]string{"1/22/20": "7"})
	series, coerced := casedata.ParseSeries(r, []models.DateKey{"1/22/20", "1/23/20"})

	assert.Equal(t, models.TimeSeries{"1/22/20": 7, "1/23/20": 0}, series)
	assert.Equal(t, 1, coerced)
}
