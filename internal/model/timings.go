package model

import (
	"encoding/json"
	"time"
)

// MonthTimings caches one month of upstream prayer-time calculations for an
// address. The upstream payload shape is opaque to us and stored as-is.
type MonthTimings struct {
	ID        int             `db:"id"         json:"id"`
	Year      int             `db:"year"       json:"year"`
	Month     int             `db:"month"      json:"month"`
	Address   string          `db:"address"    json:"address"`
	Data      json.RawMessage `db:"data"       json:"data"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
