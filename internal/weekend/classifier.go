package weekend

import (
	"fmt"
	"sort"
	"time"

	"github.com/tgvmax-weekends/pkg/tgvmax/models"
)

// Weekends maps a Saturday reference date to its weekend.
type Weekends map[time.Time]*models.Weekend

// Sorted returns the weekends by reference date ascending.
func (w Weekends) Sorted() []*models.Weekend {
	out := make([]*models.Weekend, 0, len(w))
	for _, wk := range w {
		out = append(out, wk)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Reference.Before(out[j].Reference)
	})
	return out
}

// Len counts departures across all weekends and both directions.
func (w Weekends) Len() int {
	n := 0
	for _, wk := range w {
		n += len(wk.Outbound) + len(wk.Return)
	}
	return n
}

// RecordError reports a record whose date or time could not be parsed.
type RecordError struct {
	Direction models.Direction
	Index     int
	Record    models.RawRecord
	Err       error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s record %d (date %q, time %q): %v",
		e.Direction, e.Index, e.Record.Date, e.Record.DepartureTime, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Classify filters outbound and return records against the eligibility
// table and groups the survivors by weekend. Every eligible departure is
// kept whatever its date. The first malformed record aborts the whole call.
func Classify(outbound, returns []models.RawRecord) (Weekends, error) {
	weekends := Weekends{}

	add := func(dir models.Direction, records []models.RawRecord) error {
		for i, rec := range records {
			dep, err := parse(dir, rec)
			if err != nil {
				return &RecordError{Direction: dir, Index: i, Record: rec, Err: err}
			}
			if !Eligible(dir, dep.Date.Weekday(), dep.DepartureTime) {
				continue
			}

			ref := Reference(dir, dep.Date)
			wk, ok := weekends[ref]
			if !ok {
				wk = &models.Weekend{Reference: ref}
				weekends[ref] = wk
			}
			if dir == models.Outbound {
				wk.Outbound = append(wk.Outbound, dep)
			} else {
				wk.Return = append(wk.Return, dep)
			}
		}
		return nil
	}

	if err := add(models.Outbound, outbound); err != nil {
		return nil, err
	}
	if err := add(models.Return, returns); err != nil {
		return nil, err
	}

	for _, wk := range weekends {
		sortDepartures(wk.Outbound)
		sortDepartures(wk.Return)
	}

	return weekends, nil
}

func parse(dir models.Direction, rec models.RawRecord) (models.Departure, error) {
	date, err := models.ParseDate(rec.Date)
	if err != nil {
		return models.Departure{}, err
	}
	t, err := models.ParseClockTime(rec.DepartureTime)
	if err != nil {
		return models.Departure{}, err
	}
	return models.Departure{
		Date:          date,
		DepartureTime: t,
		Direction:     dir,
		Record:        rec,
	}, nil
}

func sortDepartures(deps []models.Departure) {
	sort.SliceStable(deps, func(i, j int) bool {
		if !deps[i].Date.Equal(deps[j].Date) {
			return deps[i].Date.Before(deps[j].Date)
		}
		return deps[i].DepartureTime < deps[j].DepartureTime
	})
}
