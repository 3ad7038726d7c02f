package models

import "time"

// Observation is a single wildlife sighting record as held in the collection.
// ID and Timestamp are assigned server-side on insert and never change.
type Observation struct {
	ID        string
	Species   string
	Gender    string
	Quantity  int
	Latitude  float64
	Longitude float64
	UserID    string
	Timestamp time.Time
}

// ObservationResponse is the wire rendering of a stored Observation: the
// identifier in its canonical string form, the timestamp as UTC RFC 3339
// text with a trailing zone marker.
type ObservationResponse struct {
	ID        string  `json:"id"`
	Species   string  `json:"species"`
	Gender    string  `json:"gender"`
	Quantity  int     `json:"quantity"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	UserID    string  `json:"userId"`
	Timestamp string  `json:"timestamp"`
}

// AddObservationResponse is returned by POST /api/add_observation.
type AddObservationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ObservationListResponse is returned by GET /api/get_observations.
type ObservationListResponse struct {
	Status       string                `json:"status"`
	Observations []ObservationResponse `json:"observations"`
}

// ObservationDetailResponse is returned by GET /api/get_observation/:id.
type ObservationDetailResponse struct {
	Status      string              `json:"status"`
	Observation ObservationResponse `json:"observation"`
}

// StatusMessage is the uniform status envelope: every error response and the
// delete acknowledgment use this shape.
type StatusMessage struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
