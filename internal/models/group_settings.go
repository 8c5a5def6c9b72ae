package models

import "time"

// GroupSettings records a group the bot moderates. Informational only;
// the escalation logic never consults it.
type GroupSettings struct {
	GroupID     int64     `json:"group_id"`
	Title       string    `json:"title"`
	AddedDate   time.Time `json:"added_date"`
	MemberCount int       `json:"member_count"`
}
