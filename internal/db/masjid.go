package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/minbar-labs/minbar/internal/model"
)

// GetMasjidConfig returns the singleton config, or (nil, nil) when none has
// been saved yet.
func (s *pgStore) GetMasjidConfig(ctx context.Context) (*model.MasjidConfig, error) {
	var raw []byte
	err := s.db.GetContext(ctx, &raw, `SELECT doc FROM masjid_config WHERE id = 1;`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error().Err(err).Msg("GetMasjidConfig failed")
		return nil, err
	}

	var cfg model.MasjidConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		log.Error().Err(err).Msg("GetMasjidConfig: corrupt config document")
		return nil, fmt.Errorf("decode masjid config: %w", err)
	}
	return &cfg, nil
}

// PutMasjidConfig upserts the singleton config row.
func (s *pgStore) PutMasjidConfig(ctx context.Context, cfg *model.MasjidConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode masjid config: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
	INSERT INTO masjid_config (id, doc, updated_at)
	VALUES (1, $1, now())
	ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now();`, raw)
	if err != nil {
		log.Error().Err(err).Msg("PutMasjidConfig failed")
	}
	return err
}
