package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/minbar-labs/minbar/internal/iqamaah"
	"github.com/minbar-labs/minbar/internal/model"
)

// The aggregate lives in a single fixed row; the revision column backs the
// optimistic-concurrency check the iqamaah service relies on.

type iqamaahRow struct {
	Doc      []byte `db:"doc"`
	Revision int64  `db:"revision"`
}

func (s *pgStore) GetIqamaahTimes(ctx context.Context) (*model.IqamaahTimes, int64, error) {
	var row iqamaahRow
	err := s.db.GetContext(ctx, &row, `SELECT doc, revision FROM iqamaah_times WHERE id = 1;`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, iqamaah.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Msg("GetIqamaahTimes failed")
		return nil, 0, err
	}

	var doc model.IqamaahTimes
	if err := json.Unmarshal(row.Doc, &doc); err != nil {
		log.Error().Err(err).Msg("GetIqamaahTimes: corrupt aggregate document")
		return nil, 0, fmt.Errorf("decode iqamaah aggregate: %w", err)
	}
	return &doc, row.Revision, nil
}

func (s *pgStore) PutIqamaahTimes(ctx context.Context, doc *model.IqamaahTimes, expectedRevision int64) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode iqamaah aggregate: %w", err)
	}

	if expectedRevision == 0 {
		res, err := s.db.ExecContext(ctx, `
		INSERT INTO iqamaah_times (id, doc, revision, updated_at)
		VALUES (1, $1, 1, now())
		ON CONFLICT (id) DO NOTHING;`, raw)
		if err != nil {
			log.Error().Err(err).Msg("PutIqamaahTimes insert failed")
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			// someone created the aggregate between our read and write
			return iqamaah.ErrRevisionConflict
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx, `
	UPDATE iqamaah_times
	   SET doc = $1, revision = revision + 1, updated_at = now()
	 WHERE id = 1 AND revision = $2;`, raw, expectedRevision)
	if err != nil {
		log.Error().Err(err).Msg("PutIqamaahTimes update failed")
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return iqamaah.ErrRevisionConflict
	}
	return nil
}

func (s *pgStore) DeleteIqamaahTimes(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM iqamaah_times WHERE id = 1;`)
	if err != nil {
		log.Error().Err(err).Msg("DeleteIqamaahTimes failed")
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return iqamaah.ErrNotFound
	}
	return nil
}
