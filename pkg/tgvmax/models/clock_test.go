package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in      string
		want    ClockTime
		wantErr bool
	}{
		{"08:00", NewClockTime(8, 0), false},
		{"17:30", NewClockTime(17, 30), false},
		{"00:05", NewClockTime(0, 5), false},
		{"23:59:59", NewClockTime(23, 59), false},
		{"6:45", NewClockTime(6, 45), false},
		{"24:00", 0, true},
		{"", 0, true},
		{"nope", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseClockTime(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClockTimeString(t *testing.T) {
	assert.Equal(t, "07:05", NewClockTime(7, 5).String())
	assert.Equal(t, "17:30", NewClockTime(17, 30).String())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-22")
	require.NoError(t, err)
	assert.Equal(t, time.Thursday, d.Weekday())
	assert.Equal(t, time.UTC, d.Location())

	_, err = ParseDate("22/10/2026")
	assert.Error(t, err)
}

func TestRawRecordKeepsUnknownFields(t *testing.T) {
	body := `{"date":"2026-10-22","heure_depart":"18:04","train_no":6621,"entity":"SNCF","axe":"SUD EST"}`

	var r RawRecord
	require.NoError(t, json.Unmarshal([]byte(body), &r))
	assert.Equal(t, "2026-10-22", r.Date)
	assert.Equal(t, "18:04", r.DepartureTime)
	assert.Equal(t, "6621", r.TrainNo)
	assert.Contains(t, r.Fields, "axe")

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(out))
}

func TestRouteSwap(t *testing.T) {
	r := DefaultRoutes()[0]
	s := r.Swap()
	assert.Equal(t, "FRPLY", s.Origin.Code)
	assert.Equal(t, "FRLPD", s.Destination.Code)
	assert.Equal(t, r, s.Swap())
}
