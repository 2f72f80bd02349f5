package models

import "time"

// Availability is the slot partition for one date. Available and Occupied are
// disjoint and both in ascending time-of-day order.
type Availability struct {
	Date             string    `json:"date"`
	DeliveryCategory string    `json:"delivery_category,omitempty"`
	Available        []string  `json:"available"`
	Occupied         []string  `json:"occupied"`
	Version          int64     `json:"version"`
	GeneratedAt      time.Time `json:"generated_at"`
}
