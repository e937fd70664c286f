package presenter

import (
	"sort"
	"time"

	"github.com/tgvmax-weekends/internal/weekend"
	"github.com/tgvmax-weekends/pkg/tgvmax/models"
)

// releaseLead is how far ahead the booking window reaches; seats for
// today+releaseLead open tomorrow.
const releaseLead = 30

type View struct {
	Route        models.Route `json:"route"`
	Today        time.Time    `json:"today"`
	TodayLabel   string       `json:"todayLabel"`
	Release      time.Time    `json:"release"`
	ReleaseLabel string       `json:"releaseLabel"`
	Sections     []Section    `json:"sections"`
}

// Section is one weekend.
type Section struct {
	Reference time.Time `json:"reference"`
	Label     string    `json:"label"`
	Outbound  Column    `json:"outbound"`
	Return    Column    `json:"return"`
}

type Column struct {
	Direction models.Direction `json:"direction"`
	Title     string           `json:"title"`
	Empty     bool             `json:"empty"`
	EmptyText string           `json:"emptyText,omitempty"`
	Days      []DayGroup       `json:"days"`
}

// DayGroup lists the distinct departure times of one date.
type DayGroup struct {
	Date       time.Time          `json:"date"`
	Label      string             `json:"label"`
	Departures []models.Departure `json:"departures"`
}

// Times returns the "HH:MM" labels of the group.
func (g DayGroup) Times() []string {
	out := make([]string, len(g.Departures))
	for i, d := range g.Departures {
		out[i] = d.DepartureTime.String()
	}
	return out
}

// Option tweaks how Build lays out the view.
type Option func(*buildOptions)

type buildOptions struct {
	hidePast bool
}

// HidePast leaves out departures dated before today. A weekend with nothing
// left in either direction is dropped.
func HidePast() Option {
	return func(o *buildOptions) { o.hidePast = true }
}

// Build turns classified weekends into the display tree.
func Build(route models.Route, weekends weekend.Weekends, today time.Time, opts ...Option) View {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	today = models.Civil(today)
	release := today.AddDate(0, 0, releaseLead)

	v := View{
		Route:        route,
		Today:        today,
		TodayLabel:   DayLabel(today),
		Release:      release,
		ReleaseLabel: DayLabel(release),
		Sections:     []Section{},
	}

	for _, wk := range weekends.Sorted() {
		outbound, returns := wk.Outbound, wk.Return
		if o.hidePast {
			outbound = upcoming(outbound, today)
			returns = upcoming(returns, today)
			if len(outbound) == 0 && len(returns) == 0 {
				continue
			}
		}
		v.Sections = append(v.Sections, Section{
			Reference: wk.Reference,
			Label:     WeekendLabel(wk.Reference),
			Outbound:  buildColumn(models.Outbound, outbound),
			Return:    buildColumn(models.Return, returns),
		})
	}

	return v
}

func upcoming(deps []models.Departure, today time.Time) []models.Departure {
	out := make([]models.Departure, 0, len(deps))
	for _, d := range deps {
		if !d.Date.Before(today) {
			out = append(out, d)
		}
	}
	return out
}

func buildColumn(dir models.Direction, deps []models.Departure) Column {
	col := Column{Direction: dir, Days: []DayGroup{}}
	switch dir {
	case models.Outbound:
		col.Title = "Allers possibles"
		col.EmptyText = "Aucun aller disponible"
	default:
		col.Title = "Retours possibles"
		col.EmptyText = "Aucun retour disponible"
	}

	if len(deps) == 0 {
		col.Empty = true
		return col
	}
	col.EmptyText = ""

	byDate := map[time.Time][]models.Departure{}
	for _, d := range deps {
		byDate[d.Date] = append(byDate[d.Date], d)
	}

	for date, group := range byDate {
		col.Days = append(col.Days, DayGroup{
			Date:       date,
			Label:      DayLabel(date),
			Departures: Dedupe(group),
		})
	}
	sort.Slice(col.Days, func(i, j int) bool {
		return col.Days[i].Date.Before(col.Days[j].Date)
	})

	return col
}

// Dedupe keeps the first departure of each distinct time and returns them
// sorted by time.
func Dedupe(deps []models.Departure) []models.Departure {
	seen := map[models.ClockTime]bool{}
	out := make([]models.Departure, 0, len(deps))
	for _, d := range deps {
		if seen[d.DepartureTime] {
			continue
		}
		seen[d.DepartureTime] = true
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DepartureTime < out[j].DepartureTime
	})
	return out
}
