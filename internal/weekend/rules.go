package weekend

import (
	"time"

	"github.com/tgvmax-weekends/pkg/tgvmax/models"
)

var (
	morningCutoff = models.NewClockTime(8, 0)
	eveningStart  = models.NewClockTime(17, 30)
)

type window func(models.ClockTime) bool

func anyTime(models.ClockTime) bool { return true }

func evening(t models.ClockTime) bool { return t >= eveningStart }

func morning(t models.ClockTime) bool { return t <= morningCutoff }

func morningOrEvening(t models.ClockTime) bool { return morning(t) || evening(t) }

// rule is one row of the eligibility table. Offset moves the departure date
// onto the Saturday of its weekend.
type rule struct {
	Direction models.Direction
	Weekday   time.Weekday
	Window    window
	Offset    int
}

// rules is the only place weekday numbers appear; Eligible and Reference
// both read it.
var rules = []rule{
	{models.Outbound, time.Thursday, evening, 2},
	{models.Outbound, time.Friday, morningOrEvening, 1},
	{models.Outbound, time.Saturday, anyTime, 0},
	{models.Return, time.Sunday, anyTime, -1},
	{models.Return, time.Monday, morningOrEvening, -2},
	{models.Return, time.Tuesday, morning, -3},
}

func lookup(dir models.Direction, day time.Weekday) (rule, bool) {
	for _, r := range rules {
		if r.Direction == dir && r.Weekday == day {
			return r, true
		}
	}
	return rule{}, false
}

// Eligible reports whether a departure on day at t travelling in dir falls
// inside a discount window.
func Eligible(dir models.Direction, day time.Weekday, t models.ClockTime) bool {
	r, ok := lookup(dir, day)
	return ok && r.Window(t)
}

// Reference returns the Saturday that date belongs to for dir. Dates outside
// the table map to themselves.
func Reference(dir models.Direction, date time.Time) time.Time {
	r, ok := lookup(dir, date.Weekday())
	if !ok {
		return date
	}
	return date.AddDate(0, 0, r.Offset)
}
