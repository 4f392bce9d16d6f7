package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/minbar-labs/minbar/internal/model"
)

func (s *pgStore) CreateBanner(filename, mimeType string, size int64, url string) (model.Banner, error) {
	var b model.Banner
	const q = `
	INSERT INTO banners (filename, mime_type, size, url, created_at)
	VALUES ($1, $2, $3, $4, now())
	RETURNING id, filename, mime_type, size, url, created_at;`
	if err := s.db.Get(&b, q, filename, mimeType, size, url); err != nil {
		log.Error().Err(err).Msg("CreateBanner failed")
		return model.Banner{}, err
	}
	return b, nil
}

func (s *pgStore) ListBanners() ([]model.Banner, error) {
	var out []model.Banner
	const q = `SELECT id, filename, mime_type, size, url, created_at FROM banners ORDER BY id;`
	if err := s.db.Select(&out, q); err != nil {
		log.Error().Err(err).Msg("ListBanners failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) GetBannerByID(id int) (*model.Banner, error) {
	var b model.Banner
	err := s.db.Get(&b, `SELECT id, filename, mime_type, size, url, created_at FROM banners WHERE id = $1;`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		log.Error().Err(err).Int("banner_id", id).Msg("GetBannerByID failed")
		return nil, err
	}
	return &b, nil
}

func (s *pgStore) DeleteBanner(id int) error {
	_, err := s.db.Exec(`DELETE FROM banners WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("banner_id", id).Msg("DeleteBanner failed")
	}
	return err
}
