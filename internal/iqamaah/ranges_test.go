package iqamaah

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbar-labs/minbar/internal/model"
)

func win(t *testing.T, start, end, clock string) model.Window {
	t.Helper()
	s, err := ParseFlexibleDate(start)
	require.NoError(t, err)
	e, err := ParseFlexibleDate(end)
	require.NoError(t, err)
	return model.Window{StartDate: s, EndDate: e, Time: clock}
}

func assertWindows(t *testing.T, got []model.Window, want []model.Window) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, FormatDay(want[i].StartDate), FormatDay(got[i].StartDate), "window %d start", i)
		assert.Equal(t, FormatDay(want[i].EndDate), FormatDay(got[i].EndDate), "window %d end", i)
		assert.Equal(t, want[i].Time, got[i].Time, "window %d time", i)
	}
}

func TestSplitAndReplaceMiddle(t *testing.T) {
	existing := []model.Window{win(t, "2024-01-01", "2024-01-10", "05:30")}
	next := win(t, "2024-01-05", "2024-01-07", "05:45")

	got := splitAndReplace(existing, next)

	assertWindows(t, got, []model.Window{
		win(t, "2024-01-01", "2024-01-04", "05:30"),
		win(t, "2024-01-05", "2024-01-07", "05:45"),
		win(t, "2024-01-08", "2024-01-10", "05:30"),
	})
}

func TestSplitAndReplaceLeftAndRightPartial(t *testing.T) {
	existing := []model.Window{
		win(t, "2024-01-01", "2024-01-05", "05:30"),
		win(t, "2024-01-10", "2024-01-20", "05:40"),
	}
	next := win(t, "2024-01-04", "2024-01-12", "06:00")

	got := splitAndReplace(existing, next)

	assertWindows(t, got, []model.Window{
		win(t, "2024-01-01", "2024-01-03", "05:30"),
		win(t, "2024-01-04", "2024-01-12", "06:00"),
		win(t, "2024-01-13", "2024-01-20", "05:40"),
	})
}

func TestSplitAndReplaceSwallowsCoveredWindows(t *testing.T) {
	existing := []model.Window{
		win(t, "2024-01-03", "2024-01-04", "05:30"),
		win(t, "2024-01-06", "2024-01-08", "05:45"),
	}
	next := win(t, "2024-01-01", "2024-01-31", "06:00")

	got := splitAndReplace(existing, next)

	assertWindows(t, got, []model.Window{next})
}

func TestMergeAdjacentSameTime(t *testing.T) {
	got := mergeAdjacent([]model.Window{
		win(t, "2024-01-08", "2024-01-14", "05:30"),
		win(t, "2024-01-01", "2024-01-07", "05:30"),
	})
	assertWindows(t, got, []model.Window{win(t, "2024-01-01", "2024-01-14", "05:30")})
}

func TestMergeAdjacentKeepsDifferentTimeOrGappedWindows(t *testing.T) {
	// contiguous but different time
	got := mergeAdjacent([]model.Window{
		win(t, "2024-01-01", "2024-01-07", "05:30"),
		win(t, "2024-01-08", "2024-01-14", "05:45"),
	})
	assert.Len(t, got, 2)

	// same time but one-day gap
	got = mergeAdjacent([]model.Window{
		win(t, "2024-01-01", "2024-01-07", "05:30"),
		win(t, "2024-01-09", "2024-01-14", "05:30"),
	})
	assert.Len(t, got, 2)
}

func TestCarveOut(t *testing.T) {
	existing := []model.Window{
		win(t, "2024-01-01", "2024-01-04", "05:30"),
		win(t, "2024-01-05", "2024-01-07", "05:45"),
		win(t, "2024-01-08", "2024-01-10", "05:30"),
	}

	delStart, _ := ParseFlexibleDate("2024-01-03")
	delEnd, _ := ParseFlexibleDate("2024-01-06")
	got := carveOut(existing, delStart, delEnd, "")

	assertWindows(t, got, []model.Window{
		win(t, "2024-01-01", "2024-01-02", "05:30"),
		win(t, "2024-01-07", "2024-01-07", "05:45"),
		win(t, "2024-01-08", "2024-01-10", "05:30"),
	})
}

func TestCarveOutTimeFilterImmunity(t *testing.T) {
	existing := []model.Window{
		win(t, "2024-01-01", "2024-01-10", "13:00"),
		win(t, "2024-01-01", "2024-01-10", "14:00"),
	}

	delStart, _ := ParseFlexibleDate("2024-01-01")
	delEnd, _ := ParseFlexibleDate("2024-01-10")
	got := carveOut(existing, delStart, delEnd, "14:00")

	assertWindows(t, got, []model.Window{win(t, "2024-01-01", "2024-01-10", "13:00")})
}

func TestClipToWindow(t *testing.T) {
	start, end := monthBounds(2024, 1)
	got := clipToWindow([]model.Window{
		win(t, "2023-12-20", "2024-01-05", "05:30"),
		win(t, "2024-01-10", "2024-01-15", "05:45"),
		win(t, "2024-01-20", "2024-02-10", "06:00"),
		win(t, "2024-02-11", "2024-02-20", "06:15"),
	}, start, end)

	assertWindows(t, got, []model.Window{
		win(t, "2024-01-01", "2024-01-05", "05:30"),
		win(t, "2024-01-10", "2024-01-15", "05:45"),
		win(t, "2024-01-20", "2024-01-31", "06:00"),
	})
}

func TestResolveTimeLatestStartWins(t *testing.T) {
	// overlapping windows should not occur for single-value categories, but
	// the resolver tolerates them: the most recently defined override wins
	ws := []model.Window{
		win(t, "2024-01-01", "2024-01-31", "05:30"),
		win(t, "2024-01-10", "2024-01-20", "05:45"),
	}
	d, _ := ParseFlexibleDate("2024-01-15")
	got, ok := resolveTime(ws, d)
	require.True(t, ok)
	assert.Equal(t, "05:45", got)

	d, _ = ParseFlexibleDate("2024-01-05")
	got, ok = resolveTime(ws, d)
	require.True(t, ok)
	assert.Equal(t, "05:30", got)

	d, _ = ParseFlexibleDate("2024-02-01")
	_, ok = resolveTime(ws, d)
	assert.False(t, ok)
}

func TestResolveJumuah(t *testing.T) {
	ws := []model.Window{
		win(t, "2024-01-01", "2024-01-31", "14:00"),
		win(t, "2024-01-01", "2024-01-31", "13:00"),
	}
	d, _ := ParseFlexibleDate("2024-01-15")
	assert.Equal(t, []string{"13:00", "14:00"}, resolveJumuah(ws, d, MissingTime))

	d, _ = ParseFlexibleDate("2024-02-15")
	assert.Equal(t, []string{MissingTime}, resolveJumuah(ws, d, MissingTime))
}

func TestPruneExpired(t *testing.T) {
	today, _ := ParseFlexibleDate("2024-06-01")
	kept := pruneExpired([]model.Window{
		win(t, "2024-01-01", "2024-05-31", "05:30"), // ended yesterday
		win(t, "2024-05-01", "2024-06-01", "05:45"), // ends today, still live
		win(t, "2024-07-01", "2024-07-31", "06:00"),
	}, today)

	assertWindows(t, kept, []model.Window{
		win(t, "2024-05-01", "2024-06-01", "05:45"),
		win(t, "2024-07-01", "2024-07-31", "06:00"),
	})
}
