package model

import "time"

type Announcement struct {
	ID           int       `db:"id"             json:"id"`
	Text         string    `db:"text"           json:"text"`
	AudioURL     *string   `db:"audio_url"      json:"audio_url,omitempty"`
	UseMobileTTS bool      `db:"use_mobile_tts" json:"use_mobile_tts"`
	TTSError     *string   `db:"tts_error"      json:"tts_error,omitempty"`
	CreatedAt    time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"     json:"updated_at"`
}
