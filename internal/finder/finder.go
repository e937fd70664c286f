package finder

import (
	"context"
	"fmt"
	"time"

	"github.com/tgvmax-weekends/internal/common/logger"
	"github.com/tgvmax-weekends/internal/presenter"
	"github.com/tgvmax-weekends/internal/source"
	"github.com/tgvmax-weekends/internal/weekend"
	"github.com/tgvmax-weekends/pkg/tgvmax/models"
)

// Selection is the caller's choice for one run.
type Selection struct {
	Route   models.Route
	Swapped bool
	Today   time.Time
	// HidePast drops departures dated before Today from the view.
	HidePast bool
}

// Trip returns the route in the direction the traveler leaves home.
func (s Selection) Trip() models.Route {
	if s.Swapped {
		return s.Route.Swap()
	}
	return s.Route
}

type Finder struct {
	fetcher source.RecordFetcher
	logger  logger.Logger
	now     func() time.Time
}

func New(fetcher source.RecordFetcher, log logger.Logger) *Finder {
	return &Finder{
		fetcher: fetcher,
		logger:  log,
		now:     time.Now,
	}
}

// Run fetches both directions, classifies them and builds the view. Fetches
// happen one after the other and any failure ends the run.
func (f *Finder) Run(ctx context.Context, sel Selection) (presenter.View, error) {
	trip := sel.Trip()
	today := sel.Today
	if today.IsZero() {
		today = f.now()
	}

	started := time.Now()

	outbound, err := f.fetcher.FetchRecords(ctx, trip.Origin.Code, trip.Destination.Code)
	if err != nil {
		return presenter.View{}, fmt.Errorf("fetching outbound trains: %w", err)
	}

	returns, err := f.fetcher.FetchRecords(ctx, trip.Destination.Code, trip.Origin.Code)
	if err != nil {
		return presenter.View{}, fmt.Errorf("fetching return trains: %w", err)
	}

	weekends, err := weekend.Classify(outbound, returns)
	if err != nil {
		return presenter.View{}, fmt.Errorf("classifying trains: %w", err)
	}

	f.logger.Info("Weekends classified",
		"route", trip.String(),
		"outbound_records", len(outbound),
		"return_records", len(returns),
		"eligible", weekends.Len(),
		"weekends", len(weekends),
		"duration", time.Since(started).String())

	var opts []presenter.Option
	if sel.HidePast {
		opts = append(opts, presenter.HidePast())
	}
	return presenter.Build(trip, weekends, today, opts...), nil
}
