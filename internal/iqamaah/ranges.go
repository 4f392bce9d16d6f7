package iqamaah

import (
	"sort"
	"time"

	"github.com/minbar-labs/minbar/internal/model"
)

// overlaps reports whether two inclusive date ranges share at least one day.
func overlaps(a, b model.Window) bool {
	return !a.EndDate.Before(b.StartDate) && !a.StartDate.After(b.EndDate)
}

// contains reports whether day d falls inside w's inclusive bounds.
func contains(w model.Window, d time.Time) bool {
	return !w.StartDate.After(d) && !w.EndDate.Before(d)
}

// sortWindows orders a sequence ascending by start date, ties broken by end
// date. Returns a new slice; the input is left alone.
func sortWindows(ws []model.Window) []model.Window {
	out := make([]model.Window, len(ws))
	copy(out, ws)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].EndDate.Before(out[j].EndDate)
	})
	return out
}

// mergeAdjacent coalesces consecutive windows that carry the same time and
// whose date spans are contiguous (one ends the day before the next starts).
func mergeAdjacent(ws []model.Window) []model.Window {
	if len(ws) == 0 {
		return []model.Window{}
	}
	sorted := sortWindows(ws)
	merged := []model.Window{sorted[0]}

	for _, cur := range sorted[1:] {
		prev := &merged[len(merged)-1]
		contiguous := AddDays(prev.EndDate, 1).Equal(cur.StartDate)
		if prev.Time == cur.Time && contiguous {
			prev.EndDate = cur.EndDate
			continue
		}
		merged = append(merged, cur)
	}
	return merged
}

// splitAndReplace inserts next into existing, carving every overlapped window
// down to its non-contested remainder. The new window wins any contested day.
func splitAndReplace(existing []model.Window, next model.Window) []model.Window {
	result := make([]model.Window, 0, len(existing)+1)

	for _, r := range existing {
		if !overlaps(r, next) {
			result = append(result, r)
			continue
		}
		if r.StartDate.Before(next.StartDate) {
			result = append(result, model.Window{
				StartDate: r.StartDate,
				EndDate:   AddDays(next.StartDate, -1),
				Time:      r.Time,
			})
		}
		if r.EndDate.After(next.EndDate) {
			result = append(result, model.Window{
				StartDate: AddDays(next.EndDate, 1),
				EndDate:   r.EndDate,
				Time:      r.Time,
			})
		}
	}

	result = append(result, next)
	return mergeAdjacent(result)
}

// carveOut removes [delStart, delEnd] from every window it overlaps, keeping
// left/right remainders. A non-empty timeFilter makes windows with a different
// time immune to the carve.
func carveOut(existing []model.Window, delStart, delEnd time.Time, timeFilter string) []model.Window {
	span := model.Window{StartDate: delStart, EndDate: delEnd}
	result := make([]model.Window, 0, len(existing))

	for _, r := range existing {
		if timeFilter != "" && r.Time != timeFilter {
			result = append(result, r)
			continue
		}
		if !overlaps(r, span) {
			result = append(result, r)
			continue
		}
		if r.StartDate.Before(delStart) {
			result = append(result, model.Window{
				StartDate: r.StartDate,
				EndDate:   AddDays(delStart, -1),
				Time:      r.Time,
			})
		}
		if r.EndDate.After(delEnd) {
			result = append(result, model.Window{
				StartDate: AddDays(delEnd, 1),
				EndDate:   r.EndDate,
				Time:      r.Time,
			})
		}
	}

	return mergeAdjacent(result)
}

// pruneExpired drops windows that ended strictly before today.
func pruneExpired(ws []model.Window, today time.Time) []model.Window {
	kept := make([]model.Window, 0, len(ws))
	for _, r := range ws {
		if !r.EndDate.Before(today) {
			kept = append(kept, r)
		}
	}
	return kept
}

// clipToWindow drops windows with no overlap with [start, end] and truncates
// the rest to the boundaries.
func clipToWindow(ws []model.Window, start, end time.Time) []model.Window {
	out := make([]model.Window, 0, len(ws))
	for _, r := range ws {
		if r.EndDate.Before(start) || r.StartDate.After(end) {
			continue
		}
		c := r
		if c.StartDate.Before(start) {
			c.StartDate = start
		}
		if c.EndDate.After(end) {
			c.EndDate = end
		}
		out = append(out, c)
	}
	return out
}

// resolveTime picks the time in effect on day d for a single-value category.
// Should several windows cover d, the one defined latest (greatest start date)
// wins.
func resolveTime(ws []model.Window, d time.Time) (string, bool) {
	var best model.Window
	found := false
	for _, r := range ws {
		if !contains(r, d) {
			continue
		}
		if !found || r.StartDate.After(best.StartDate) {
			best = r
			found = true
		}
	}
	return best.Time, found
}

// resolveJumuah collects every time valid on day d, sorted ascending,
// duplicates kept. An empty day resolves to [missing].
func resolveJumuah(ws []model.Window, d time.Time, missing string) []string {
	times := make([]string, 0, len(ws))
	for _, r := range ws {
		if contains(r, d) {
			times = append(times, r.Time)
		}
	}
	if len(times) == 0 {
		return []string{missing}
	}
	sort.Strings(times)
	return times
}
