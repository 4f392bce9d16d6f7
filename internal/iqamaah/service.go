// Package iqamaah implements the congregation-time interval engine: per-prayer
// validity windows with authoritative insert, hole-carving delete, adjacency
// merging, expiry pruning and monthly projection.
package iqamaah

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/minbar-labs/minbar/internal/model"
)

// MissingTime is emitted for days no window covers.
const MissingTime = "--:--"

// writes are retried this many times on a lost optimistic-concurrency race
const maxWriteAttempts = 5

// Repository persists the singleton aggregate. Get reports ErrNotFound when no
// aggregate exists yet; Put with the revision returned by Get (zero for a
// fresh aggregate) reports ErrRevisionConflict when another writer got there
// first.
type Repository interface {
	GetIqamaahTimes(ctx context.Context) (*model.IqamaahTimes, int64, error)
	PutIqamaahTimes(ctx context.Context, doc *model.IqamaahTimes, expectedRevision int64) error
	DeleteIqamaahTimes(ctx context.Context) error
}

// WindowInput is one submitted validity window, dates still in wire form.
type WindowInput struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Time      string `json:"time"`
}

// RangeInput is a single-range operation target.
type RangeInput struct {
	Prayer    string
	StartDate string
	EndDate   string
	Time      string
}

// UpdateInput optionally pins the exact window being replaced. When any Old
// field is set the update runs in targeted mode.
type UpdateInput struct {
	RangeInput
	OldTime      string
	OldStartDate string
	OldEndDate   string
}

// DeleteInput carves [StartDate, EndDate] out of a category. A non-empty Time
// restricts the carve to windows with that exact time.
type DeleteInput struct {
	Prayer    string
	StartDate string
	EndDate   string
	Time      string
}

// Service runs every aggregate operation behind a process-local mutex and an
// optimistic-revision write, so concurrent mutations are serialized rather
// than silently clobbering each other.
type Service struct {
	repo Repository
	mu   sync.Mutex
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// load fetches the current aggregate, treating absence as an empty one.
func (s *Service) load(ctx context.Context) (*model.IqamaahTimes, int64, bool, error) {
	doc, rev, err := s.repo.GetIqamaahTimes(ctx)
	if errors.Is(err, ErrNotFound) {
		return &model.IqamaahTimes{}, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}
	return doc, rev, true, nil
}

// mutate runs a read-modify-write cycle, retrying when the optimistic write
// loses a race with another writer.
func (s *Service) mutate(ctx context.Context, apply func(doc *model.IqamaahTimes, found bool) error) (*model.IqamaahTimes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		doc, rev, found, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		if err := apply(doc, found); err != nil {
			return nil, err
		}
		err = s.repo.PutIqamaahTimes(ctx, doc, rev)
		if errors.Is(err, ErrRevisionConflict) {
			log.Warn().Int("attempt", attempt).Msg("iqamaah write conflict, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
	return nil, ErrRevisionConflict
}

// parseWindow validates a submitted window and converts it to storage form.
func parseWindow(in WindowInput) (model.Window, error) {
	start, err := ParseFlexibleDate(in.StartDate)
	if err != nil {
		return model.Window{}, err
	}
	end, err := ParseFlexibleDate(in.EndDate)
	if err != nil {
		return model.Window{}, err
	}
	if start.After(end) {
		return model.Window{}, ErrInvalidRange
	}
	if !ValidClock(in.Time) {
		return model.Window{}, ErrInvalidTime
	}
	return model.Window{StartDate: start, EndDate: end, Time: NormalizeClock(in.Time)}, nil
}

// BulkReplace overwrites the stored sequence of every category with the
// submitted windows. Keys may use legacy prayer spellings; a category absent
// from the payload is cleared. Already-expired windows are dropped on the way
// in.
func (s *Service) BulkReplace(ctx context.Context, payload map[string][]WindowInput) (*model.IqamaahTimes, error) {
	next := map[model.PrayerKey][]model.Window{}
	for raw, ins := range payload {
		key, err := ParsePrayerKey(raw)
		if err != nil {
			return nil, err
		}
		ws := make([]model.Window, 0, len(ins))
		for _, in := range ins {
			w, err := parseWindow(in)
			if err != nil {
				return nil, err
			}
			ws = append(ws, w)
		}
		next[key] = ws
	}

	today := todayUTC(s.now())
	return s.mutate(ctx, func(doc *model.IqamaahTimes, _ bool) error {
		for _, key := range model.AllPrayers {
			doc.SetWindows(key, sortWindows(pruneExpired(next[key], today)))
		}
		return nil
	})
}

// InsertRange inserts one window. For single-value categories the new window
// is authoritative: overlapped windows are split around it and contiguous
// equal-time neighbors merged. Jumuah windows are simply appended.
func (s *Service) InsertRange(ctx context.Context, in RangeInput) (*model.IqamaahTimes, error) {
	key, err := ParsePrayerKey(in.Prayer)
	if err != nil {
		return nil, err
	}
	next, err := parseWindow(WindowInput{StartDate: in.StartDate, EndDate: in.EndDate, Time: in.Time})
	if err != nil {
		return nil, err
	}

	today := todayUTC(s.now())
	return s.mutate(ctx, func(doc *model.IqamaahTimes, _ bool) error {
		current := pruneExpired(doc.Windows(key), today)
		if key == model.PrayerJumuah {
			doc.SetWindows(key, sortWindows(append(current, next)))
		} else {
			doc.SetWindows(key, splitAndReplace(current, next))
		}
		return nil
	})
}

// UpdateRange replaces one window. In targeted mode (any Old field set) only
// windows exactly matching the old bounds, and old time when given, are
// removed. In default mode a single candidate window is removed: the one
// containing the new start date, else the first one overlapping the new
// window at all. Neither mode re-splits neighbors, so a partial overlap with
// a window that was not chosen for removal is deliberately left in place.
func (s *Service) UpdateRange(ctx context.Context, in UpdateInput) (*model.IqamaahTimes, error) {
	key, err := ParsePrayerKey(in.Prayer)
	if err != nil {
		return nil, err
	}
	next, err := parseWindow(WindowInput{StartDate: in.StartDate, EndDate: in.EndDate, Time: in.Time})
	if err != nil {
		return nil, err
	}

	targeted := in.OldTime != "" || in.OldStartDate != "" || in.OldEndDate != ""
	var oldStart, oldEnd time.Time
	if targeted {
		rawStart, rawEnd := in.OldStartDate, in.OldEndDate
		if rawStart == "" {
			rawStart = in.StartDate
		}
		if rawEnd == "" {
			rawEnd = in.EndDate
		}
		if oldStart, err = ParseFlexibleDate(rawStart); err != nil {
			return nil, err
		}
		if oldEnd, err = ParseFlexibleDate(rawEnd); err != nil {
			return nil, err
		}
		if oldStart.After(oldEnd) {
			return nil, ErrInvalidRange
		}
		if in.OldTime != "" && !ValidClock(in.OldTime) {
			return nil, ErrInvalidTime
		}
	}

	today := todayUTC(s.now())
	return s.mutate(ctx, func(doc *model.IqamaahTimes, _ bool) error {
		current := pruneExpired(doc.Windows(key), today)

		var kept []model.Window
		if targeted {
			oldTime := NormalizeClock(in.OldTime)
			for _, r := range current {
				sameWindow := r.StartDate.Equal(oldStart) && r.EndDate.Equal(oldEnd)
				if sameWindow && (in.OldTime == "" || r.Time == oldTime) {
					continue
				}
				kept = append(kept, r)
			}
		} else {
			idx := -1
			for i, r := range current {
				if contains(r, next.StartDate) {
					idx = i
					break
				}
			}
			if idx == -1 {
				for i, r := range current {
					if overlaps(r, next) {
						idx = i
						break
					}
				}
			}
			for i, r := range current {
				if i != idx {
					kept = append(kept, r)
				}
			}
		}

		doc.SetWindows(key, sortWindows(append(kept, next)))
		return nil
	})
}

// DeleteRange carves the given span out of a category, leaving remainders on
// either side. Fails with ErrNotFound when no aggregate exists.
func (s *Service) DeleteRange(ctx context.Context, in DeleteInput) (*model.IqamaahTimes, error) {
	key, err := ParsePrayerKey(in.Prayer)
	if err != nil {
		return nil, err
	}
	delStart, err := ParseFlexibleDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	delEnd, err := ParseFlexibleDate(in.EndDate)
	if err != nil {
		return nil, err
	}
	if delStart.After(delEnd) {
		return nil, ErrInvalidRange
	}
	if in.Time != "" && !ValidClock(in.Time) {
		return nil, ErrInvalidTime
	}

	today := todayUTC(s.now())
	return s.mutate(ctx, func(doc *model.IqamaahTimes, found bool) error {
		if !found {
			return ErrNotFound
		}
		current := pruneExpired(doc.Windows(key), today)
		doc.SetWindows(key, carveOut(current, delStart, delEnd, NormalizeClock(in.Time)))
		return nil
	})
}

// Get returns the stored aggregate with expired windows excluded. The pruned
// view is never written back on reads.
func (s *Service) Get(ctx context.Context) (*model.IqamaahTimes, error) {
	doc, _, err := s.repo.GetIqamaahTimes(ctx)
	if err != nil {
		return nil, err
	}
	today := todayUTC(s.now())
	out := &model.IqamaahTimes{}
	for _, key := range model.AllPrayers {
		out.SetWindows(key, sortWindows(pruneExpired(doc.Windows(key), today)))
	}
	return out, nil
}

// Clear removes the aggregate entirely.
func (s *Service) Clear(ctx context.Context) error {
	return s.repo.DeleteIqamaahTimes(ctx)
}

func checkMonth(year, month int) error {
	if year < 1900 || year > 3000 {
		return ErrInvalidYear
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// monthView loads the aggregate, prunes expired windows in memory and clips
// every category to the month's boundaries. An absent aggregate projects as
// empty rather than failing.
func (s *Service) monthView(ctx context.Context, year, month int) (*model.IqamaahTimes, time.Time, time.Time, error) {
	if err := checkMonth(year, month); err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	doc, _, _, err := s.load(ctx)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}

	today := todayUTC(s.now())
	start, end := monthBounds(year, month)
	clipped := &model.IqamaahTimes{}
	for _, key := range model.AllPrayers {
		live := pruneExpired(doc.Windows(key), today)
		clipped.SetWindows(key, clipToWindow(live, start, end))
	}
	return clipped, start, end, nil
}

// MonthSchedule resolves the per-day table for one calendar month.
func (s *Service) MonthSchedule(ctx context.Context, year, month int) ([]model.IqamaahDayRow, error) {
	clipped, start, end, err := s.monthView(ctx, year, month)
	if err != nil {
		return nil, err
	}

	rows := make([]model.IqamaahDayRow, 0, 31)
	for d := start; !d.After(end); d = AddDays(d, 1) {
		row := model.IqamaahDayRow{
			Date:   FormatDay(d),
			Fajr:   MissingTime,
			Dhuhr:  MissingTime,
			Asr:    MissingTime,
			Isha:   MissingTime,
			Jumuah: resolveJumuah(clipped.Jumuah, d, MissingTime),
		}
		if t, ok := resolveTime(clipped.Fajr, d); ok {
			row.Fajr = t
		}
		if t, ok := resolveTime(clipped.Dhuhr, d); ok {
			row.Dhuhr = t
		}
		if t, ok := resolveTime(clipped.Asr, d); ok {
			row.Asr = t
		}
		if t, ok := resolveTime(clipped.Isha, d); ok {
			row.Isha = t
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MonthRanges returns the clipped raw window listing for one calendar month,
// for clients that render ranges instead of per-day values.
func (s *Service) MonthRanges(ctx context.Context, year, month int) (*model.IqamaahTimes, error) {
	clipped, _, _, err := s.monthView(ctx, year, month)
	if err != nil {
		return nil, err
	}

	out := &model.IqamaahTimes{}
	for _, key := range model.AllPrayers {
		if key == model.PrayerJumuah {
			out.SetWindows(key, sortWindows(clipped.Windows(key)))
		} else {
			out.SetWindows(key, mergeAdjacent(clipped.Windows(key)))
		}
	}
	return out, nil
}
