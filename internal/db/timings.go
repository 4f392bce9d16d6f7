package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/minbar-labs/minbar/internal/model"
)

// UpsertMonthTimings stores one month of upstream prayer-time data for an
// address, replacing any previous payload for the same month.
func (s *pgStore) UpsertMonthTimings(ctx context.Context, year, month int, address string, data json.RawMessage) error {
	const q = `
	INSERT INTO month_timings (year, month, address, data, updated_at)
	VALUES ($1, $2, $3, $4, now())
	ON CONFLICT (year, month, address)
	DO UPDATE SET data = EXCLUDED.data, updated_at = now();`
	_, err := s.db.ExecContext(ctx, q, year, month, address, []byte(data))
	if err != nil {
		log.Error().Err(err).Int("year", year).Int("month", month).Msg("UpsertMonthTimings failed")
	}
	return err
}

// GetLatestMonthTimings returns the most recently refreshed cached month.
func (s *pgStore) GetLatestMonthTimings(ctx context.Context) (*model.MonthTimings, error) {
	var t model.MonthTimings
	const q = `
	SELECT id, year, month, address, data, updated_at
	  FROM month_timings
	 ORDER BY updated_at DESC
	 LIMIT 1;`
	err := s.db.GetContext(ctx, &t, q)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		log.Error().Err(err).Msg("GetLatestMonthTimings failed")
		return nil, err
	}
	return &t, nil
}
