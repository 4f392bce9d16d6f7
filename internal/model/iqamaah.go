package model

import "time"

// PrayerKey names one congregation category on the board.
type PrayerKey string

const (
	PrayerFajr   PrayerKey = "fajr"
	PrayerDhuhr  PrayerKey = "dhuhr"
	PrayerAsr    PrayerKey = "asr"
	PrayerIsha   PrayerKey = "isha"
	PrayerJumuah PrayerKey = "jumuah"
)

// AllPrayers lists every category in display order.
var AllPrayers = []PrayerKey{PrayerFajr, PrayerDhuhr, PrayerAsr, PrayerIsha, PrayerJumuah}

// Window asserts that a congregation time is in effect for every calendar day
// between StartDate and EndDate, both inclusive. Dates are UTC midnight.
type Window struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Time      string    `json:"time"`
}

// IqamaahTimes is the singleton aggregate: every stored validity window, keyed
// by prayer. Jumuah may hold several simultaneously valid windows; the other
// four categories are kept non-overlapping.
type IqamaahTimes struct {
	Fajr   []Window `json:"fajr"`
	Dhuhr  []Window `json:"dhuhr"`
	Asr    []Window `json:"asr"`
	Isha   []Window `json:"isha"`
	Jumuah []Window `json:"jumuah"`
}

// Windows returns the stored sequence for one category.
func (t *IqamaahTimes) Windows(k PrayerKey) []Window {
	switch k {
	case PrayerFajr:
		return t.Fajr
	case PrayerDhuhr:
		return t.Dhuhr
	case PrayerAsr:
		return t.Asr
	case PrayerIsha:
		return t.Isha
	case PrayerJumuah:
		return t.Jumuah
	}
	return nil
}

// SetWindows replaces the stored sequence for one category.
func (t *IqamaahTimes) SetWindows(k PrayerKey, ws []Window) {
	switch k {
	case PrayerFajr:
		t.Fajr = ws
	case PrayerDhuhr:
		t.Dhuhr = ws
	case PrayerAsr:
		t.Asr = ws
	case PrayerIsha:
		t.Isha = ws
	case PrayerJumuah:
		t.Jumuah = ws
	}
}

// IqamaahDayRow is one resolved line of the monthly board table.
type IqamaahDayRow struct {
	Date   string   `json:"date"`
	Fajr   string   `json:"fajr"`
	Dhuhr  string   `json:"dhuhr"`
	Asr    string   `json:"asr"`
	Isha   string   `json:"isha"`
	Jumuah []string `json:"jumuah"`
}
