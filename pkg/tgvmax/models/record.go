package models

import (
	"encoding/json"
	"fmt"
)

// RawRecord is one entry of the dataset "results" array. The fields the
// classifier needs are typed; everything the API sent is kept in Fields.
type RawRecord struct {
	Date            string
	DepartureTime   string
	ArrivalTime     string
	TrainNo         string
	Origin          string
	Destination     string
	OriginCode      string
	DestinationCode string
	HappyCard       string

	Fields map[string]json.RawMessage
}

func (r *RawRecord) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	targets := map[string]*string{
		"date":             &r.Date,
		"heure_depart":     &r.DepartureTime,
		"heure_arrivee":    &r.ArrivalTime,
		"train_no":         &r.TrainNo,
		"origine":          &r.Origin,
		"destination":      &r.Destination,
		"origine_iata":     &r.OriginCode,
		"destination_iata": &r.DestinationCode,
		"od_happy_card":    &r.HappyCard,
	}
	for key, dst := range targets {
		raw, ok := fields[key]
		if !ok || string(raw) == "null" {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			// train_no is numeric in some dataset exports
			var n json.Number
			if numErr := json.Unmarshal(raw, &n); numErr != nil {
				return fmt.Errorf("field %s: %w", key, err)
			}
			*dst = n.String()
		}
	}

	r.Fields = fields
	return nil
}

// MarshalJSON writes the passthrough bag back out, so a record round-trips
// with every field the API sent.
func (r RawRecord) MarshalJSON() ([]byte, error) {
	if r.Fields != nil {
		return json.Marshal(r.Fields)
	}
	return json.Marshal(map[string]string{
		"date":             r.Date,
		"heure_depart":     r.DepartureTime,
		"heure_arrivee":    r.ArrivalTime,
		"train_no":         r.TrainNo,
		"origine":          r.Origin,
		"destination":      r.Destination,
		"origine_iata":     r.OriginCode,
		"destination_iata": r.DestinationCode,
		"od_happy_card":    r.HappyCard,
	})
}

// DatasetResponse is the body of the explore API records endpoint.
type DatasetResponse struct {
	TotalCount int         `json:"total_count"`
	Results    []RawRecord `json:"results"`
}

// APIError is the body the explore API sends with non-2xx statuses.
type APIError struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}
