package endpoints

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbar-labs/minbar/internal/http/api"
	"github.com/minbar-labs/minbar/internal/http/api/admin/packets"
	"github.com/minbar-labs/minbar/internal/iqamaah"
	"github.com/minbar-labs/minbar/internal/model"
)

// memRepo mirrors the optimistic-revision semantics of the Postgres adapter.
type memRepo struct {
	mu  sync.Mutex
	doc *model.IqamaahTimes
	rev int64
}

func (m *memRepo) GetIqamaahTimes(ctx context.Context) (*model.IqamaahTimes, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil, 0, iqamaah.ErrNotFound
	}
	cp := *m.doc
	return &cp, m.rev, nil
}

func (m *memRepo) PutIqamaahTimes(ctx context.Context, doc *model.IqamaahTimes, expectedRevision int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if expectedRevision != m.rev {
		return iqamaah.ErrRevisionConflict
	}
	cp := *doc
	m.doc = &cp
	m.rev++
	return nil
}

func (m *memRepo) DeleteIqamaahTimes(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return iqamaah.ErrNotFound
	}
	m.doc = nil
	m.rev = 0
	return nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := iqamaah.NewService(&memRepo{})
	r := gin.New()

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Middleware: []gin.HandlerFunc{
			func(c *gin.Context) {
				c.Set("currentUser", &model.User{ID: 1, Email: "admin@example.com"})
				c.Next()
			},
		},
	},
		IqamaahModule(svc, nil),
	)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeTimes(t *testing.T, w *httptest.ResponseRecorder) packets.IqamaahTimesResponse {
	t.Helper()
	var envelope struct {
		Data packets.IqamaahTimesResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestInsertRangeSplitsExistingWindow(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/admin/iqamaah/range",
		`{"prayer":"fajr","startDate":"2030-01-01","endDate":"2030-12-31","time":"05:30"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/admin/iqamaah/range",
		`{"prayer":"fajr","startDate":"2030-03-01","endDate":"2030-03-31","time":"05:45"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := decodeTimes(t, w)
	require.Len(t, got.Fajr, 3)
	assert.Equal(t, packets.IqamaahRangeResponse{StartDate: "2030-01-01", EndDate: "2030-02-28", Time: "05:30"}, got.Fajr[0])
	assert.Equal(t, packets.IqamaahRangeResponse{StartDate: "2030-03-01", EndDate: "2030-03-31", Time: "05:45"}, got.Fajr[1])
	assert.Equal(t, packets.IqamaahRangeResponse{StartDate: "2030-04-01", EndDate: "2030-12-31", Time: "05:30"}, got.Fajr[2])
}

func TestInsertRangeAcceptsLegacyPrayerNames(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/admin/iqamaah/range",
		`{"prayer":"fajar","startDate":"1/1/2030","endDate":"1/31/2030","time":"06:00"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := decodeTimes(t, w)
	require.Len(t, got.Fajr, 1)
	assert.Equal(t, "2030-01-01", got.Fajr[0].StartDate)
	assert.Equal(t, "2030-01-31", got.Fajr[0].EndDate)
}

func TestInsertRangeRejectsBadInput(t *testing.T) {
	r := newTestRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"unknown prayer", `{"prayer":"maghrib","startDate":"2030-01-01","endDate":"2030-01-31","time":"19:00"}`},
		{"bad date", `{"prayer":"fajr","startDate":"Jan 1 2030","endDate":"2030-01-31","time":"05:30"}`},
		{"inverted range", `{"prayer":"fajr","startDate":"2030-02-01","endDate":"2030-01-01","time":"05:30"}`},
		{"bad time", `{"prayer":"fajr","startDate":"2030-01-01","endDate":"2030-01-31","time":"25:00"}`},
		{"missing field", `{"prayer":"fajr","startDate":"2030-01-01"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/admin/iqamaah/range", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestBulkReplacePrefersCanonicalKeyOverAlias(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/admin/iqamaah", `{
		"fajr":  [{"startDate":"2030-01-01","endDate":"2030-06-30","time":"05:30"}],
		"fajar": [{"startDate":"2030-01-01","endDate":"2030-06-30","time":"04:00"}],
		"zuhr":  [{"startDate":"2030-01-01","endDate":"2030-06-30","time":"13:30"}]
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := decodeTimes(t, w)
	require.Len(t, got.Fajr, 1)
	assert.Equal(t, "05:30", got.Fajr[0].Time)
	require.Len(t, got.Dhuhr, 1)
	assert.Equal(t, "13:30", got.Dhuhr[0].Time)
	assert.Empty(t, got.Asr)
}

func TestDeleteRangeCarvesWindow(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/admin/iqamaah/range",
		`{"prayer":"asr","startDate":"2030-01-01","endDate":"2030-12-31","time":"16:30"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodDelete, "/api/admin/iqamaah/range",
		`{"prayer":"asr","startDate":"2030-06-01","endDate":"2030-06-30"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := decodeTimes(t, w)
	require.Len(t, got.Asr, 2)
	assert.Equal(t, "2030-05-31", got.Asr[0].EndDate)
	assert.Equal(t, "2030-07-01", got.Asr[1].StartDate)
}

func TestDeleteRangeOnEmptyAggregateIs404(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodDelete, "/api/admin/iqamaah/range",
		`{"prayer":"asr","startDate":"2030-06-01","endDate":"2030-06-30"}`)
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestMonthScheduleProjection(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/admin/iqamaah/range",
		`{"prayer":"jumuah","startDate":"2030-03-01","endDate":"2030-03-31","time":"13:30"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/admin/iqamaah/month?year=2030&month=3", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp packets.MonthScheduleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2030, resp.Year)
	assert.Equal(t, 3, resp.Month)
	require.Len(t, resp.Data, 31)
	assert.Equal(t, "2030-03-01", resp.Data[0].Date)
	assert.Equal(t, []string{"13:30"}, resp.Data[0].Jumuah)
	assert.Equal(t, iqamaah.MissingTime, resp.Data[0].Fajr)
}

func TestMonthScheduleRejectsBadMonth(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/admin/iqamaah/month?year=2030&month=13", "")
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/admin/iqamaah/month?year=2030", "")
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestClearThenGetReturnsEmptyDocument(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/admin/iqamaah/range",
		`{"prayer":"isha","startDate":"2030-01-01","endDate":"2030-12-31","time":"20:00"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodDelete, "/api/admin/iqamaah", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/admin/iqamaah", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decodeTimes(t, w)
	assert.Empty(t, got.Isha)
}
