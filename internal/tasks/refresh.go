// Package tasks runs background jobs, currently the daily refresh of the
// cached upstream prayer-time calculations.
package tasks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/adhocore/gronx"
	"github.com/rs/zerolog/log"

	"github.com/minbar-labs/minbar/internal/db"
	"github.com/minbar-labs/minbar/internal/model"
)

// DefaultRefreshCron fires shortly after midnight so the board always has the
// current month on the first of the month.
const DefaultRefreshCron = "10 0 * * *"

// TimingsRefresher pulls one month of calculated prayer times from the
// upstream calendar API and caches it in the database.
type TimingsRefresher struct {
	store   db.Store
	baseURL string
	cron    string
	client  *http.Client
}

func NewTimingsRefresher(store db.Store, baseURL, cronExpr string) *TimingsRefresher {
	if cronExpr == "" {
		cronExpr = DefaultRefreshCron
	}
	return &TimingsRefresher{
		store:   store,
		baseURL: baseURL,
		cron:    cronExpr,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Refresh fetches and stores the timings for year/month. Zero year or month
// means "current month in the masjid's configured timezone".
func (t *TimingsRefresher) Refresh(ctx context.Context, year, month int) error {
	if t == nil || t.baseURL == "" {
		return nil
	}

	cfg, err := t.store.GetMasjidConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load masjid config: %w", err)
	}
	if cfg == nil || cfg.Address == "" {
		return fmt.Errorf("masjid config has no address, cannot refresh timings")
	}

	if year == 0 || month == 0 {
		now := time.Now()
		if loc, lerr := time.LoadLocation(cfg.TimeZone); lerr == nil {
			now = now.In(loc)
		}
		year, month = now.Year(), int(now.Month())
	}

	body, err := t.fetchMonth(ctx, cfg, year, month)
	if err != nil {
		return err
	}

	if err := t.store.UpsertMonthTimings(ctx, year, month, cfg.Address, body); err != nil {
		return fmt.Errorf("failed to store month timings: %w", err)
	}

	log.Info().Int("year", year).Int("month", month).Str("address", cfg.Address).
		Msg("refreshed month timings")
	return nil
}

func (t *TimingsRefresher) fetchMonth(ctx context.Context, cfg *model.MasjidConfig, year, month int) ([]byte, error) {
	q := url.Values{}
	q.Set("address", cfg.Address)
	q.Set("method", strconv.Itoa(cfg.Method))
	q.Set("school", strconv.Itoa(cfg.School))
	q.Set("midnightMode", strconv.Itoa(cfg.MidnightMode))
	if cfg.Shafaq != "" {
		q.Set("shafaq", cfg.Shafaq)
	}
	if cfg.CalendarMethod != "" {
		q.Set("calendarMethod", cfg.CalendarMethod)
	}
	if cfg.LatitudeAdjustmentMethod != nil {
		q.Set("latitudeAdjustmentMethod", strconv.Itoa(*cfg.LatitudeAdjustmentMethod))
	}
	if cfg.Tune != nil {
		q.Set("tune", *cfg.Tune)
	}
	if cfg.Adjustment != nil {
		q.Set("adjustment", *cfg.Adjustment)
	}

	endpoint := fmt.Sprintf("%s/%d/%d?%s", t.baseURL, year, month, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build timings request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timings API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read timings response: %w", err)
	}
	return body, nil
}

// Start runs the cron loop until ctx is cancelled. The schedule is checked
// once a minute against the configured cron expression.
func (t *TimingsRefresher) Start(ctx context.Context) {
	if t == nil || t.baseURL == "" {
		log.Info().Msg("timings API not configured, refresh task disabled")
		return
	}

	gron := gronx.New()
	if !gron.IsValid(t.cron) {
		log.Error().Str("cron", t.cron).Msg("invalid timings refresh cron expression")
		return
	}

	log.Info().Str("cron", t.cron).Msg("timings refresh task started")

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			due, err := gron.IsDue(t.cron, time.Now())
			if err != nil || !due {
				continue
			}
			if err := t.Refresh(ctx, 0, 0); err != nil {
				log.Error().Err(err).Msg("scheduled timings refresh failed")
			}
		}
	}
}
