package models

import "time"

// Direction is the travel direction relative to the home station.
type Direction int

const (
	Outbound Direction = iota
	Return
)

func (d Direction) String() string {
	switch d {
	case Outbound:
		return "aller"
	case Return:
		return "retour"
	default:
		return "unknown"
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Departure is a classified train departure.
type Departure struct {
	Date          time.Time `json:"date"`
	DepartureTime ClockTime `json:"departureTime"`
	Direction     Direction `json:"direction"`
	Record        RawRecord `json:"record"`
}

// Weekend groups the eligible departures of one weekend under the date of
// its Saturday.
type Weekend struct {
	Reference time.Time   `json:"reference"`
	Outbound  []Departure `json:"outbound"`
	Return    []Departure `json:"return"`
}
