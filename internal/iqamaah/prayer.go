package iqamaah

import (
	"fmt"
	"strings"

	"github.com/minbar-labs/minbar/internal/model"
)

// legacy spellings still accepted on input, rewritten before validation
var prayerAliases = map[string]model.PrayerKey{
	"fajar":   model.PrayerFajr,
	"zuhr":    model.PrayerDhuhr,
	"jummah":  model.PrayerJumuah,
	"jumu'ah": model.PrayerJumuah,
}

// ParsePrayerKey maps a raw prayer name, including legacy aliases, onto the
// canonical closed set. Anything outside it fails with ErrUnknownPrayer.
func ParsePrayerKey(raw string) (model.PrayerKey, error) {
	k := strings.ToLower(strings.TrimSpace(raw))
	if canon, ok := prayerAliases[k]; ok {
		return canon, nil
	}
	switch key := model.PrayerKey(k); key {
	case model.PrayerFajr, model.PrayerDhuhr, model.PrayerAsr, model.PrayerIsha, model.PrayerJumuah:
		return key, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPrayer, raw)
}
