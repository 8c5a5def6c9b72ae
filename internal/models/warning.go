package models

import "time"

// Warning is a single recorded violation. Immutable once recorded; it
// belongs to exactly one user's warning history.
type Warning struct {
	Date    time.Time `json:"date"`
	Reason  string    `json:"reason"`
	Group   string    `json:"group"`
	Message string    `json:"message"` // truncated snippet of the offending message
}
