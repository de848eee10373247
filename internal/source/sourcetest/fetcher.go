// Package sourcetest provides in-memory metric tables for tests.
package sourcetest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jengzang/casemap-backend-go/internal/models"
	"github.com/jengzang/casemap-backend-go/internal/source"
)

// Dates are the date columns of the fixture tables
var Dates = []models.DateKey{"1/22/20", "1/23/20", "1/24/20"}

const header = "Province/State,Country/Region,Lat,Long,1/22/20,1/23/20,1/24/20\n"

// Fixtures returns three small JHU-style tables: Hubei and Beijing share a
// region, Testland has no sub-region
func Fixtures() map[models.MetricName]string {
	return map[models.MetricName]string{
		models.MetricConfirmed: header +
			"Hubei,China,30.9756,112.2707,444,549,761\n" +
			"Beijing,China,40.1824,116.4142,14,22,36\n" +
			",Testland,10,20,100,,120\n",
		models.MetricRecovered: header +
			"Hubei,China,30.9756,112.2707,28,31,32\n" +
			"Beijing,China,40.1824,116.4142,0,0,1\n" +
			",Testland,10,20,40,0,50\n",
		models.MetricDeaths: header +
			"Hubei,China,30.9756,112.2707,17,17,24\n" +
			"Beijing,China,40.1824,116.4142,0,0,0\n" +
			",Testland,10,20,10,0,10\n",
	}
}

// Fetcher serves tables from memory and records the fetch order
type Fetcher struct {
	mu     sync.Mutex
	Tables map[models.MetricName]string
	Errs   map[models.MetricName]error
	Calls  []models.MetricName
}

// NewFetcher creates a fetcher over Fixtures
func NewFetcher() *Fetcher {
	return &Fetcher{Tables: Fixtures(), Errs: map[models.MetricName]error{}}
}

// Fail makes every later fetch of metric return err
func (f *Fetcher) Fail(metric models.MetricName, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errs[metric] = err
}

// Fetch parses the stored table for metric
func (f *Fetcher) Fetch(ctx context.Context, metric models.MetricName) (*models.RawTable, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, metric)
	err := f.Errs[metric]
	body, ok := f.Tables[metric]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no %s table", metric)
	}
	return source.ReadTable(metric, strings.NewReader(body))
}

// Replace rewrites every stored table, e.g. to shift the date header
func (f *Fetcher) Replace(old, new string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for m, body := range f.Tables {
		f.Tables[m] = strings.ReplaceAll(body, old, new)
	}
}
