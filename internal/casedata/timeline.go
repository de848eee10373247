package casedata

import (
	"github.com/jengzang/casemap-backend-go/internal/models"
)

// Timeline is the ordered list of known dates plus the selected one.
// It is not safe for concurrent use; callers sharing a Timeline must lock.
type Timeline struct {
	keys     []models.DateKey
	pos      map[models.DateKey]int
	selected int
}

// NewTimeline creates a timeline selecting the most recent date
func NewTimeline(keys []models.DateKey) (*Timeline, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyTimeline
	}
	t := &Timeline{
		keys:     make([]models.DateKey, len(keys)),
		pos:      make(map[models.DateKey]int, len(keys)),
		selected: len(keys) - 1,
	}
	copy(t.keys, keys)
	for i, k := range t.keys {
		if _, dup := t.pos[k]; !dup {
			t.pos[k] = i
		}
	}
	return t, nil
}

// All returns the dates oldest to newest
func (t *Timeline) All() []models.DateKey {
	out := make([]models.DateKey, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len returns the number of dates
func (t *Timeline) Len() int {
	return len(t.keys)
}

// Selected returns the selected date
func (t *Timeline) Selected() models.DateKey {
	return t.keys[t.selected]
}

// SelectedIndex returns the position of the selected date
func (t *Timeline) SelectedIndex() int {
	return t.selected
}

// Index returns the position of a date
func (t *Timeline) Index(d models.DateKey) (int, bool) {
	i, ok := t.pos[d]
	return i, ok
}

// At returns the date at position i
func (t *Timeline) At(i int) (models.DateKey, error) {
	if i < 0 || i >= len(t.keys) {
		return "", &OutOfRangeError{Index: i, Len: len(t.keys)}
	}
	return t.keys[i], nil
}

// Select makes d the selected date
func (t *Timeline) Select(d models.DateKey) error {
	i, ok := t.pos[d]
	if !ok {
		return &OutOfRangeError{Index: -1, Date: d, Len: len(t.keys)}
	}
	t.selected = i
	return nil
}

// SelectByIndex makes the date at position i the selected date
func (t *Timeline) SelectByIndex(i int) error {
	if i < 0 || i >= len(t.keys) {
		return &OutOfRangeError{Index: i, Len: len(t.keys)}
	}
	t.selected = i
	return nil
}

// Step advances the selection by one frame. Past the last date it wraps to
// the first when loop is set and fails otherwise.
func (t *Timeline) Step(loop bool) (models.DateKey, error) {
	next := t.selected + 1
	if next >= len(t.keys) {
		if !loop {
			return "", &OutOfRangeError{Index: next, Len: len(t.keys)}
		}
		next = 0
	}
	t.selected = next
	return t.keys[next], nil
}

// Resolve maps an explicit date or index to a known date without changing
// the selection. With neither set it returns the selected date.
func (t *Timeline) Resolve(date string, index *int) (models.DateKey, error) {
	switch {
	case index != nil:
		return t.At(*index)
	case date != "":
		d := models.DateKey(date)
		if _, ok := t.pos[d]; !ok {
			return "", &OutOfRangeError{Index: -1, Date: d, Len: len(t.keys)}
		}
		return d, nil
	default:
		return t.Selected(), nil
	}
}
