package models

import "fmt"

// Station is a named station with its IATA-like dataset code.
type Station struct {
	Name string `json:"name" yaml:"name"`
	Code string `json:"code" yaml:"code"`
}

// Route is a selectable origin/destination pair.
type Route struct {
	Name        string  `json:"name" yaml:"name"`
	Origin      Station `json:"origin" yaml:"origin"`
	Destination Station `json:"destination" yaml:"destination"`
}

// Swap returns the route travelled the other way round.
func (r Route) Swap() Route {
	return Route{Name: r.Name, Origin: r.Destination, Destination: r.Origin}
}

func (r Route) String() string {
	return fmt.Sprintf("%s → %s", r.Origin.Name, r.Destination.Name)
}

// DefaultRoutes is the built-in route list.
func DefaultRoutes() []Route {
	return []Route{
		{
			Name:        "lyon-paris",
			Origin:      Station{Name: "LYON", Code: "FRLPD"},
			Destination: Station{Name: "PARIS", Code: "FRPLY"},
		},
	}
}
