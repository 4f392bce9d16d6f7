package model

// MasjidConfig is the singleton board configuration record.
type MasjidConfig struct {
	Year                     int     `json:"year"`
	Month                    int     `json:"month"`
	Address                  string  `json:"address"`
	TimeZone                 string  `json:"time_zone"`
	QRLink                   string  `json:"qr_link"`
	TickerText               *string `json:"ticker_text,omitempty"`
	MaghribSunsetAddition    *int    `json:"maghrib_sunset_addition_minutes,omitempty"`
	Method                   int     `json:"method"`
	Shafaq                   string  `json:"shafaq"`
	School                   int     `json:"school"`
	MidnightMode             int     `json:"midnight_mode"`
	CalendarMethod           string  `json:"calendar_method"`
	LatitudeAdjustmentMethod *int    `json:"latitude_adjustment_method,omitempty"`
	Tune                     *string `json:"tune,omitempty"`
	Adjustment               *string `json:"adjustment,omitempty"`
	AlwaysDisplayIqamaah     bool    `json:"always_display_iqamaah_time"`
	DisplayTimerDuration     *int    `json:"display_timer_duration,omitempty"`
	UseMobileTTS             bool    `json:"use_mobile_tts"`
	MonthAdjustment          int     `json:"month_adjustment"`
	CustomAngles             *string `json:"custom_angles,omitempty"`
}
