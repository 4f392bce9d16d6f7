package iqamaah

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbar-labs/minbar/internal/model"
)

// memRepo is an in-memory Repository with the same optimistic-revision
// semantics the Postgres adapter has.
type memRepo struct {
	mu  sync.Mutex
	doc *model.IqamaahTimes
	rev int64
}

func copyDoc(doc *model.IqamaahTimes) *model.IqamaahTimes {
	out := &model.IqamaahTimes{}
	for _, key := range model.AllPrayers {
		ws := doc.Windows(key)
		cp := make([]model.Window, len(ws))
		copy(cp, ws)
		out.SetWindows(key, cp)
	}
	return out
}

func (m *memRepo) GetIqamaahTimes(ctx context.Context) (*model.IqamaahTimes, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil, 0, ErrNotFound
	}
	return copyDoc(m.doc), m.rev, nil
}

func (m *memRepo) PutIqamaahTimes(ctx context.Context, doc *model.IqamaahTimes, expectedRevision int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if expectedRevision != m.rev {
		return ErrRevisionConflict
	}
	m.doc = copyDoc(doc)
	m.rev++
	return nil
}

func (m *memRepo) DeleteIqamaahTimes(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return ErrNotFound
	}
	m.doc = nil
	m.rev = 0
	return nil
}

var testToday = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

func newTestService(repo *memRepo) *Service {
	s := NewService(repo)
	s.now = func() time.Time { return testToday }
	return s
}

func rangeInput(prayer, start, end, clock string) RangeInput {
	return RangeInput{Prayer: prayer, StartDate: start, EndDate: end, Time: clock}
}

func TestInsertSplitsOverlappedWindow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepo{})

	_, err := svc.InsertRange(ctx, rangeInput("fajr", "2024-01-01", "2024-01-10", "05:30"))
	require.NoError(t, err)
	doc, err := svc.InsertRange(ctx, rangeInput("fajr", "2024-01-05", "2024-01-07", "05:45"))
	require.NoError(t, err)

	assertWindows(t, doc.Fajr, []model.Window{
		win(t, "2024-01-01", "2024-01-04", "05:30"),
		win(t, "2024-01-05", "2024-01-07", "05:45"),
		win(t, "2024-01-08", "2024-01-10", "05:30"),
	})
}

func TestInsertMergesContiguousEqualTime(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepo{})

	_, err := svc.InsertRange(ctx, rangeInput("isha", "2024-01-01", "2024-01-07", "20:15"))
	require.NoError(t, err)
	doc, err := svc.InsertRange(ctx, rangeInput("isha", "2024-01-08", "2024-01-14", "20:15"))
	require.NoError(t, err)

	assertWindows(t, doc.Isha, []model.Window{win(t, "2024-01-01", "2024-01-14", "20:15")})
}

func TestInsertJumuahKeepsMultiplicity(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepo{})

	_, err := svc.InsertRange(ctx, rangeInput("jumuah", "2024-01-01", "2024-01-31", "13:00"))
	require.NoError(t, err)
	doc, err := svc.InsertRange(ctx, rangeInput("jumuah", "2024-01-01", "2024-01-31", "14:00"))
	require.NoError(t, err)

	// fully overlapping windows are both retained for jumuah
	require.Len(t, doc.Jumuah, 2)

	rows, err := svc.MonthSchedule(ctx, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", rows[14].Date)
	assert.Equal(t, []string{"13:00", "14:00"}, rows[14].Jumuah)
}

func TestMonthScheduleSentinels(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepo{})

	_, err := svc.InsertRange(ctx, rangeInput("fajr", "2024-01-10", "2024-01-20", "5:30"))
	require.NoError(t, err)

	rows, err := svc.MonthSchedule(ctx, 2024, 1)
	require.NoError(t, err)
	require.Len(t, rows, 31)

	assert.Equal(t, MissingTime, rows[0].Fajr)
	assert.Equal(t, "05:30", rows[9].Fajr) // normalized from 5:30
	assert.Equal(t, MissingTime, rows[25].Fajr)
	assert.Equal(t, MissingTime, rows[0].Dhuhr)
	assert.Equal(t, []string{MissingTime}, rows[0].Jumuah)
}

func TestDeleteCarvesHole(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepo{})

	_, err := svc.InsertRange(ctx, rangeInput("fajr", "2024-01-01", "2024-01-10", "05:30"))
	require.NoError(t, err)
	_, err = svc.InsertRange(ctx, rangeInput("fajr", "2024-01-05", "2024-01-07", "05:45"))
	require.NoError(t, err)

	doc, err := svc.DeleteRange(ctx, DeleteInput{Prayer: "fajr", StartDate: "2024-01-03", EndDate: "2024-01-06"})
	require.NoError(t, err)

	assertWindows(t, doc.Fajr, []model.Window{
		win(t, "2024-01-01", "2024-01-02", "05:30"),
		win(t, "2024-01-07", "2024-01-07", "05:45"),
		win(t, "2024-01-08", "2024-01-10", "05:30"),
	})
}

func TestDeleteTimeFilterProtectsOtherTimes(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepo{})

	_, err := svc.InsertRange(ctx, rangeInput("jumuah", "2024-01-01", "2024-01-31", "13:00"))
	require.NoError(t, err)
	_, err = svc.InsertRange(ctx, rangeInput("jumuah", "2024-01-01", "2024-01-31", "14:00"))
	require.NoError(t, err)

	doc, err := svc.DeleteRange(ctx, DeleteInput{Prayer: "jumuah", StartDate: "2024-01-01", EndDate: "2024-01-31", Time: "14:00"})
	require.NoError(t, err)

	assertWindows(t, doc.Jumuah, []model.Window{win(t, "2024-01-01", "2024-01-31", "13:00")})
}

func TestDeleteAgainstAbsentAggregate(t *testing.T) {
	svc := newTestService(&memRepo{})
	_, err := svc.DeleteRange(context.Background(), DeleteInput{Prayer: "fajr", StartDate: "2024-01-01", EndDate: "2024-01-02"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTargetedMode(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepo{})

	_, err := svc.InsertRange(ctx, rangeInput("dhuhr", "2024-01-01", "2024-01-10", "13:15"))
	require.NoError(t, err)
	_, err = svc.InsertRange(ctx, rangeInput("dhuhr", "2024-01-11", "2024-01-20", "13:30"))
	require.NoError(t, err)

	doc, err := svc.UpdateRange(ctx, UpdateInput{
		RangeInput:   rangeInput("dhuhr", "2024-01-11", "2024-01-18", "13:45"),
		OldStartDate: "2024-01-11",
		OldEndDate:   "2024-01-20",
	})
	require.NoError(t, err)

	assertWindows(t, doc.Dhuhr, []model.Window{
		win(t, "2024-01-01", "2024-01-10", "13:15"),
		win(t, "2024-01-11", "2024-01-18", "13:45"),
	})
}

func TestUpdateTargetedModeOldTimeMismatchRemovesNothing(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepo{})

	_, err := svc.InsertRange(ctx, rangeInput("jumuah", "2024-01-01", "2024-01-31", "13:00"))
	require.NoError(t, err)

	doc, err := svc.UpdateRange(ctx, UpdateInput{
		RangeInput: rangeInput("jumuah", "2024-01-01", "2024-01-31", "14:30"),
		OldTime:    "14:00", // no stored window carries this time
	})
	require.NoError(t, err)

	// old window untouched, new one simply added
	require.Len(t, doc.Jumuah, 2)
}

func TestUpdateDefaultModeRemovesSingleWindow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepo{})

	_, err := svc.InsertRange(ctx, rangeInput("asr", "2024-01-01", "2024-01-10", "16:30"))
	require.NoError(t, err)

	doc, err := svc.UpdateRange(ctx, UpdateInput{
		RangeInput: rangeInput("asr", "2024-01-03", "2024-01-08", "16:45"),
	})
	require.NoError(t, err)

	assertWindows(t, doc.Asr, []model.Window{win(t, "2024-01-03", "2024-01-08", "16:45")})
}

// A default-mode update removes exactly one window and never re-splits its
// neighbors, so a partial overlap with a window that was not chosen for
// removal stays in storage. That leftover is intentional: re-splitting here
// could cascade into deleting data the caller never referenced. The month
// resolver still shows a deterministic value because the latest start date
// wins.
func TestUpdateDefaultModeLeavesResidualNeighborOverlap(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepo{})

	_, err := svc.InsertRange(ctx, rangeInput("asr", "2024-01-01", "2024-01-10", "16:30"))
	require.NoError(t, err)
	_, err = svc.InsertRange(ctx, rangeInput("asr", "2024-01-11", "2024-01-20", "16:40"))
	require.NoError(t, err)

	// new window starts inside the first window but reaches into the second;
	// only the first (containing the new start) is removed
	doc, err := svc.UpdateRange(ctx, UpdateInput{
		RangeInput: rangeInput("asr", "2024-01-05", "2024-01-15", "16:50"),
	})
	require.NoError(t, err)

	assertWindows(t, doc.Asr, []model.Window{
		win(t, "2024-01-05", "2024-01-15", "16:50"),
		win(t, "2024-01-11", "2024-01-20", "16:40"),
	})

	// the overlap days resolve to the later-defined window
	rows, err := svc.MonthSchedule(ctx, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, "16:40", rows[12].Asr) // 2024-01-13
}

func TestBulkReplaceOverwritesAndDropsExpired(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepo{})

	_, err := svc.InsertRange(ctx, rangeInput("fajr", "2024-02-01", "2024-02-10", "05:30"))
	require.NoError(t, err)

	doc, err := svc.BulkReplace(ctx, map[string][]WindowInput{
		"fajr": {
			{StartDate: "2023-12-01", EndDate: "2023-12-31", Time: "05:00"}, // expired
			{StartDate: "2024-03-01", EndDate: "2024-03-31", Time: "05:15"},
		},
		"jumuah": {
			{StartDate: "2024-01-01", EndDate: "2024-12-31", Time: "13:30"},
		},
	})
	require.NoError(t, err)

	// full overwrite: prior February window gone, expired December window dropped
	assertWindows(t, doc.Fajr, []model.Window{win(t, "2024-03-01", "2024-03-31", "05:15")})
	assertWindows(t, doc.Jumuah, []model.Window{win(t, "2024-01-01", "2024-12-31", "13:30")})
	assert.Empty(t, doc.Dhuhr)
	assert.Empty(t, doc.Asr)
	assert.Empty(t, doc.Isha)
}

func TestBulkReplaceAcceptsLegacyKeys(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepo{})

	doc, err := svc.BulkReplace(ctx, map[string][]WindowInput{
		"fajar":  {{StartDate: "2024-01-01", EndDate: "2024-01-31", Time: "05:30"}},
		"zuhr":   {{StartDate: "2024-01-01", EndDate: "2024-01-31", Time: "13:15"}},
		"jummah": {{StartDate: "2024-01-01", EndDate: "2024-01-31", Time: "13:45"}},
	})
	require.NoError(t, err)

	assert.Len(t, doc.Fajr, 1)
	assert.Len(t, doc.Dhuhr, 1)
	assert.Len(t, doc.Jumuah, 1)
}

func TestValidationErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepo{})

	_, err := svc.InsertRange(ctx, rangeInput("maghrib", "2024-01-01", "2024-01-02", "18:00"))
	assert.ErrorIs(t, err, ErrUnknownPrayer)

	_, err = svc.InsertRange(ctx, rangeInput("fajr", "01.01.2024", "2024-01-02", "05:30"))
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	_, err = svc.InsertRange(ctx, rangeInput("fajr", "2024-01-05", "2024-01-02", "05:30"))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.InsertRange(ctx, rangeInput("fajr", "2024-01-01", "2024-01-02", "25:30"))
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = svc.MonthSchedule(ctx, 1500, 1)
	assert.ErrorIs(t, err, ErrInvalidYear)

	_, err = svc.MonthSchedule(ctx, 2024, 13)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestPrayerAliasRouting(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepo{})

	doc, err := svc.InsertRange(ctx, rangeInput("Fajar", "2024-01-01", "2024-01-31", "05:30"))
	require.NoError(t, err)
	assert.Len(t, doc.Fajr, 1)

	doc, err = svc.InsertRange(ctx, rangeInput("jumu'ah", "2024-01-01", "2024-01-31", "13:30"))
	require.NoError(t, err)
	assert.Len(t, doc.Jumuah, 1)
}

func TestExpiredWindowsExcludedFromProjectionsWithoutWriteback(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	svc := newTestService(repo)

	// seed storage directly with an already-expired window alongside a live one
	repo.doc = &model.IqamaahTimes{
		Fajr: []model.Window{
			win(t, "2023-12-01", "2023-12-31", "05:00"),
			win(t, "2024-01-10", "2024-01-20", "05:30"),
		},
	}
	repo.rev = 1

	rows, err := svc.MonthSchedule(ctx, 2023, 12)
	require.NoError(t, err)
	for _, row := range rows {
		assert.Equal(t, MissingTime, row.Fajr, "expired window leaked into %s", row.Date)
	}

	ranges, err := svc.MonthRanges(ctx, 2023, 12)
	require.NoError(t, err)
	assert.Empty(t, ranges.Fajr)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assertWindows(t, got.Fajr, []model.Window{win(t, "2024-01-10", "2024-01-20", "05:30")})

	// pure reads never shrink persisted state
	assert.Len(t, repo.doc.Fajr, 2)
	assert.EqualValues(t, 1, repo.rev)
}

func TestMonthRangesClipsToBoundaries(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepo{})

	_, err := svc.InsertRange(ctx, rangeInput("isha", "2024-01-20", "2024-02-10", "20:00"))
	require.NoError(t, err)

	ranges, err := svc.MonthRanges(ctx, 2024, 2)
	require.NoError(t, err)
	assertWindows(t, ranges.Isha, []model.Window{win(t, "2024-02-01", "2024-02-10", "20:00")})
}

func TestNonOverlapInvariantAfterMixedOperations(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepo{})

	ops := []RangeInput{
		rangeInput("fajr", "2024-01-01", "2024-03-31", "05:30"),
		rangeInput("fajr", "2024-02-01", "2024-02-15", "05:45"),
		rangeInput("fajr", "2024-02-10", "2024-03-10", "05:15"),
		rangeInput("fajr", "2024-01-15", "2024-01-20", "05:30"),
	}
	for _, op := range ops {
		_, err := svc.InsertRange(ctx, op)
		require.NoError(t, err)
	}
	_, err := svc.DeleteRange(ctx, DeleteInput{Prayer: "fajr", StartDate: "2024-02-05", EndDate: "2024-02-12"})
	require.NoError(t, err)

	doc, err := svc.Get(ctx)
	require.NoError(t, err)
	ws := doc.Fajr
	for i := 0; i < len(ws); i++ {
		for j := i + 1; j < len(ws); j++ {
			assert.False(t, overlaps(ws[i], ws[j]),
				"windows %s..%s and %s..%s overlap",
				FormatDay(ws[i].StartDate), FormatDay(ws[i].EndDate),
				FormatDay(ws[j].StartDate), FormatDay(ws[j].EndDate))
		}
	}
	// and sorted ascending by start
	for i := 1; i < len(ws); i++ {
		assert.False(t, ws[i].StartDate.Before(ws[i-1].StartDate))
	}
}

// Two writers racing on the same category must both land; the second write
// may lose the optimistic revision check but has to retry, not clobber.
func TestConcurrentInsertsBothReflected(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}

	// separate Service instances so the in-process mutex does not serialize
	// them and the revision check actually has to do its job
	s1 := newTestService(repo)
	s2 := newTestService(repo)

	var wg sync.WaitGroup
	wg.Add(2)
	var err1, err2 error
	go func() {
		defer wg.Done()
		_, err1 = s1.InsertRange(ctx, rangeInput("fajr", "2024-01-01", "2024-01-31", "05:30"))
	}()
	go func() {
		defer wg.Done()
		_, err2 = s2.InsertRange(ctx, rangeInput("fajr", "2024-02-01", "2024-02-29", "05:45"))
	}()
	wg.Wait()

	require.NoError(t, err1)
	require.NoError(t, err2)

	doc, err := newTestService(repo).Get(ctx)
	require.NoError(t, err)
	assertWindows(t, doc.Fajr, []model.Window{
		win(t, "2024-01-01", "2024-01-31", "05:30"),
		win(t, "2024-02-01", "2024-02-29", "05:45"),
	})
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepo{})

	_, err := svc.InsertRange(ctx, rangeInput("fajr", "2024-01-01", "2024-01-31", "05:30"))
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx))

	_, err = svc.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Clear(ctx), ErrNotFound)
}
