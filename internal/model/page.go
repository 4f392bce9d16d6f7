package model

import "time"

// DisplaySchedule controls when a page is shown: either a weekly recurring
// slot (day of week + clock bounds) or a fixed date range.
type DisplaySchedule struct {
	Type      string     `json:"type"` // "recurring" or "daterange"
	DayOfWeek *int       `json:"day_of_week,omitempty"`
	StartTime *string    `json:"start_time,omitempty"`
	EndTime   *string    `json:"end_time,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

type Slide struct {
	Image    string `json:"image"`
	Duration int    `json:"duration"`
	IsActive bool   `json:"is_active"`
}

type Page struct {
	ID           int               `db:"id"            json:"id"`
	Title        string            `db:"title"         json:"title"`
	PageType     string            `db:"page_type"     json:"page_type"`
	Content      string            `db:"content"       json:"content"`
	Image        *string           `db:"image"         json:"image,omitempty"`
	Slides       []Slide           `db:"-"             json:"slides,omitempty"`
	PageDuration *int              `db:"page_duration" json:"page_duration,omitempty"`
	Position     int               `db:"position"      json:"position"`
	Schedules    []DisplaySchedule `db:"-"             json:"schedules,omitempty"`
	IsActive     bool              `db:"is_active"     json:"is_active"`
	CreatedAt    time.Time         `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time         `db:"updated_at"    json:"updated_at"`
}
