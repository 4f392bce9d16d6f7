package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/minbar-labs/minbar/internal/model"
)

func (s *pgStore) CreateAnnouncement(text string, audioURL *string, useMobileTTS bool) (model.Announcement, error) {
	var a model.Announcement
	const q = `
	INSERT INTO announcements (text, audio_url, use_mobile_tts, created_at, updated_at)
	VALUES ($1, $2, $3, now(), now())
	RETURNING id, text, audio_url, use_mobile_tts, tts_error, created_at, updated_at;`
	if err := s.db.Get(&a, q, text, audioURL, useMobileTTS); err != nil {
		log.Error().Err(err).Msg("CreateAnnouncement failed")
		return model.Announcement{}, err
	}
	return a, nil
}

func (s *pgStore) ListAnnouncements() ([]model.Announcement, error) {
	var out []model.Announcement
	const q = `
	SELECT id, text, audio_url, use_mobile_tts, tts_error, created_at, updated_at
	  FROM announcements
	 ORDER BY created_at DESC;`
	if err := s.db.Select(&out, q); err != nil {
		log.Error().Err(err).Msg("ListAnnouncements failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) GetAnnouncementByID(id int) (*model.Announcement, error) {
	var a model.Announcement
	err := s.db.Get(&a, `
	SELECT id, text, audio_url, use_mobile_tts, tts_error, created_at, updated_at
	  FROM announcements WHERE id = $1;`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		log.Error().Err(err).Int("announcement_id", id).Msg("GetAnnouncementByID failed")
		return nil, err
	}
	return &a, nil
}

func (s *pgStore) UpdateAnnouncement(id int, text *string, audioURL *string, useMobileTTS *bool) error {
	const q = `
	UPDATE announcements
	   SET text = COALESCE($2, text),
	       audio_url = COALESCE($3, audio_url),
	       use_mobile_tts = COALESCE($4, use_mobile_tts),
	       updated_at = now()
	 WHERE id = $1;`
	res, err := s.db.Exec(q, id, text, audioURL, useMobileTTS)
	if err != nil {
		log.Error().Err(err).Int("announcement_id", id).Msg("UpdateAnnouncement failed")
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *pgStore) DeleteAnnouncement(id int) error {
	_, err := s.db.Exec(`DELETE FROM announcements WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("announcement_id", id).Msg("DeleteAnnouncement failed")
	}
	return err
}
