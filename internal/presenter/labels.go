package presenter

import (
	"fmt"
	"time"
)

var weekdaysFR = [...]string{
	time.Monday:    "lundi",
	time.Tuesday:   "mardi",
	time.Wednesday: "mercredi",
	time.Thursday:  "jeudi",
	time.Friday:    "vendredi",
	time.Saturday:  "samedi",
	time.Sunday:    "dimanche",
}

var monthsFR = [...]string{
	time.January:   "janvier",
	time.February:  "février",
	time.March:     "mars",
	time.April:     "avril",
	time.May:       "mai",
	time.June:      "juin",
	time.July:      "juillet",
	time.August:    "août",
	time.September: "septembre",
	time.October:   "octobre",
	time.November:  "novembre",
	time.December:  "décembre",
}

// DayLabel renders "jeudi 02 octobre".
func DayLabel(d time.Time) string {
	return fmt.Sprintf("%s %02d %s", weekdaysFR[d.Weekday()], d.Day(), monthsFR[d.Month()])
}

// WeekendLabel renders "Week-end du 04 octobre".
func WeekendLabel(ref time.Time) string {
	return fmt.Sprintf("Week-end du %02d %s", ref.Day(), monthsFR[ref.Month()])
}
