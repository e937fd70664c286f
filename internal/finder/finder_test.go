package finder

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgvmax-weekends/internal/common/logger"
	"github.com/tgvmax-weekends/pkg/tgvmax/models"
)

type call struct{ origin, destination string }

type stubFetcher struct {
	records map[call][]models.RawRecord
	failOn  *call
	calls   []call
}

func (s *stubFetcher) FetchRecords(_ context.Context, origin, destination string) ([]models.RawRecord, error) {
	c := call{origin, destination}
	s.calls = append(s.calls, c)
	if s.failOn != nil && *s.failOn == c {
		return nil, errors.New("connection reset")
	}
	return s.records[c], nil
}

var today = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

func TestRunFetchesBothDirections(t *testing.T) {
	fetcher := &stubFetcher{records: map[call][]models.RawRecord{
		{"FRLPD", "FRPLY"}: {{Date: "2026-10-23", DepartureTime: "18:00"}},
		{"FRPLY", "FRLPD"}: {{Date: "2026-10-25", DepartureTime: "19:00"}},
	}}
	f := New(fetcher, logger.New(io.Discard))

	v, err := f.Run(context.Background(), Selection{Route: models.DefaultRoutes()[0], Today: today})
	require.NoError(t, err)

	assert.Equal(t, []call{{"FRLPD", "FRPLY"}, {"FRPLY", "FRLPD"}}, fetcher.calls)
	require.Len(t, v.Sections, 1)
	assert.Equal(t, []string{"18:00"}, v.Sections[0].Outbound.Days[0].Times())
	assert.Equal(t, []string{"19:00"}, v.Sections[0].Return.Days[0].Times())
}

func TestRunSwapped(t *testing.T) {
	fetcher := &stubFetcher{records: map[call][]models.RawRecord{
		{"FRPLY", "FRLPD"}: {{Date: "2026-10-24", DepartureTime: "08:00"}},
	}}
	f := New(fetcher, logger.New(io.Discard))

	v, err := f.Run(context.Background(), Selection{Route: models.DefaultRoutes()[0], Swapped: true, Today: today})
	require.NoError(t, err)

	assert.Equal(t, call{"FRPLY", "FRLPD"}, fetcher.calls[0])
	assert.Equal(t, "PARIS", v.Route.Origin.Name)
	require.Len(t, v.Sections, 1)
	assert.True(t, v.Sections[0].Return.Empty)
}

func TestRunStopsOnFetchError(t *testing.T) {
	fetcher := &stubFetcher{failOn: &call{"FRLPD", "FRPLY"}}
	f := New(fetcher, logger.New(io.Discard))

	_, err := f.Run(context.Background(), Selection{Route: models.DefaultRoutes()[0], Today: today})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outbound")
	assert.Len(t, fetcher.calls, 1)
}

func TestRunPropagatesMalformedRecord(t *testing.T) {
	fetcher := &stubFetcher{records: map[call][]models.RawRecord{
		{"FRPLY", "FRLPD"}: {{Date: "2026-10-25", DepartureTime: "7h"}},
	}}
	f := New(fetcher, logger.New(io.Discard))

	_, err := f.Run(context.Background(), Selection{Route: models.DefaultRoutes()[0], Today: today})
	assert.ErrorContains(t, err, "classifying")
}

func TestRunDefaultsTodayToNow(t *testing.T) {
	f := New(&stubFetcher{}, logger.New(io.Discard))
	f.now = func() time.Time { return time.Date(2026, time.December, 3, 15, 0, 0, 0, time.UTC) }

	v, err := f.Run(context.Background(), Selection{Route: models.DefaultRoutes()[0]})
	require.NoError(t, err)
	assert.Equal(t, "jeudi 03 décembre", v.TodayLabel)
	assert.Empty(t, v.Sections)
}

func TestRunHidePast(t *testing.T) {
	fetcher := &stubFetcher{records: map[call][]models.RawRecord{
		{"FRLPD", "FRPLY"}: {{Date: "2026-10-24", DepartureTime: "10:00"}},
		{"FRPLY", "FRLPD"}: {{Date: "2026-10-25", DepartureTime: "14:00"}},
	}}
	f := New(fetcher, logger.New(io.Discard))
	monday := time.Date(2026, time.October, 26, 0, 0, 0, 0, time.UTC)

	v, err := f.Run(context.Background(), Selection{Route: models.DefaultRoutes()[0], Today: monday})
	require.NoError(t, err)
	require.Len(t, v.Sections, 1)
	assert.Equal(t, []string{"14:00"}, v.Sections[0].Return.Days[0].Times())

	v, err = f.Run(context.Background(), Selection{Route: models.DefaultRoutes()[0], Today: monday, HidePast: true})
	require.NoError(t, err)
	assert.Empty(t, v.Sections)
}
