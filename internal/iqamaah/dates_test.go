package iqamaah

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexibleDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-01-05", "2024-01-05", true},
		{"1/5/2024", "2024-01-05", true},
		{"01/05/2024", "2024-01-05", true},
		{"12/31/2024", "2024-12-31", true},
		{" 2024-01-05 ", "2024-01-05", true},
		{"2024-1-5", "", false},
		{"05-01-2024", "", false},
		{"2024/01/05", "", false},
		{"2024-13-05", "", false},
		{"2024-02-30", "", false},
		{"next friday", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		d, err := ParseFlexibleDate(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidDateFormat, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, FormatDay(d))
		assert.Equal(t, time.UTC, d.Location())
	}
}

func TestNormalizeClock(t *testing.T) {
	assert.Equal(t, "05:04", NormalizeClock("5:04"))
	assert.Equal(t, "05:04", NormalizeClock(" 05:04 "))
	assert.Equal(t, "23:59", NormalizeClock("23:59"))
	assert.Equal(t, "09:00", NormalizeClock("9:00"))

	// lenient: non-matching input passes through trimmed
	assert.Equal(t, "25:00", NormalizeClock("25:00"))
	assert.Equal(t, "5pm", NormalizeClock(" 5pm "))
}

func TestValidClock(t *testing.T) {
	valid := []string{"0:00", "00:00", "5:04", "05:04", "13:30", "23:59"}
	for _, s := range valid {
		assert.True(t, ValidClock(s), s)
	}
	invalid := []string{"24:00", "25:00", "12:60", "1230", "12:3", "", "noon", "12:30pm"}
	for _, s := range invalid {
		assert.False(t, ValidClock(s), s)
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := monthBounds(2024, 2)
	assert.Equal(t, "2024-02-01", FormatDay(start))
	assert.Equal(t, "2024-02-29", FormatDay(end))

	start, end = monthBounds(2023, 12)
	assert.Equal(t, "2023-12-01", FormatDay(start))
	assert.Equal(t, "2023-12-31", FormatDay(end))
}
