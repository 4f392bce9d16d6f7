package model

import "time"

type Banner struct {
	ID        int       `db:"id"         json:"id"`
	Filename  string    `db:"filename"   json:"filename"`
	MimeType  string    `db:"mime_type"  json:"mime_type"`
	Size      int64     `db:"size"       json:"size"`
	URL       string    `db:"url"        json:"url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
