package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/minbar-labs/minbar/internal/model"
)

// pageRow carries the JSONB columns alongside the flat ones.
type pageRow struct {
	model.Page
	SlidesJSON    []byte `db:"slides"`
	SchedulesJSON []byte `db:"schedules"`
}

func (r *pageRow) toPage() (model.Page, error) {
	p := r.Page
	if len(r.SlidesJSON) > 0 {
		if err := json.Unmarshal(r.SlidesJSON, &p.Slides); err != nil {
			return model.Page{}, fmt.Errorf("decode page slides: %w", err)
		}
	}
	if len(r.SchedulesJSON) > 0 {
		if err := json.Unmarshal(r.SchedulesJSON, &p.Schedules); err != nil {
			return model.Page{}, fmt.Errorf("decode page schedules: %w", err)
		}
	}
	return p, nil
}

func marshalPageJSON(p model.Page) (slides, schedules []byte, err error) {
	if slides, err = json.Marshal(p.Slides); err != nil {
		return nil, nil, fmt.Errorf("encode page slides: %w", err)
	}
	if schedules, err = json.Marshal(p.Schedules); err != nil {
		return nil, nil, fmt.Errorf("encode page schedules: %w", err)
	}
	return slides, schedules, nil
}

const pageColumns = `id, title, page_type, content, image, slides, page_duration, position, schedules, is_active, created_at, updated_at`

func (s *pgStore) CreatePage(p model.Page) (model.Page, error) {
	slides, schedules, err := marshalPageJSON(p)
	if err != nil {
		return model.Page{}, err
	}

	var row pageRow
	q := `
	INSERT INTO pages (title, page_type, content, image, slides, page_duration, position, schedules, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
	RETURNING ` + pageColumns + `;`
	if err := s.db.Get(&row, q, p.Title, p.PageType, p.Content, p.Image, slides, p.PageDuration, p.Position, schedules, p.IsActive); err != nil {
		log.Error().Err(err).Msg("CreatePage failed")
		return model.Page{}, err
	}
	return row.toPage()
}

func (s *pgStore) ListPages(activeOnly bool) ([]model.Page, error) {
	q := `SELECT ` + pageColumns + ` FROM pages`
	if activeOnly {
		q += ` WHERE is_active`
	}
	q += ` ORDER BY position, id;`

	var rows []pageRow
	if err := s.db.Select(&rows, q); err != nil {
		log.Error().Err(err).Msg("ListPages failed")
		return nil, err
	}

	out := make([]model.Page, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toPage()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *pgStore) GetPageByID(id int) (*model.Page, error) {
	var row pageRow
	err := s.db.Get(&row, `SELECT `+pageColumns+` FROM pages WHERE id = $1;`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		log.Error().Err(err).Int("page_id", id).Msg("GetPageByID failed")
		return nil, err
	}
	p, err := row.toPage()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *pgStore) UpdatePage(p model.Page) error {
	slides, schedules, err := marshalPageJSON(p)
	if err != nil {
		return err
	}

	const q = `
	UPDATE pages
	   SET title = $2, page_type = $3, content = $4, image = $5, slides = $6,
	       page_duration = $7, position = $8, schedules = $9, is_active = $10,
	       updated_at = now()
	 WHERE id = $1;`
	res, err := s.db.Exec(q, p.ID, p.Title, p.PageType, p.Content, p.Image, slides, p.PageDuration, p.Position, schedules, p.IsActive)
	if err != nil {
		log.Error().Err(err).Int("page_id", p.ID).Msg("UpdatePage failed")
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

func (s *pgStore) DeletePage(id int) error {
	_, err := s.db.Exec(`DELETE FROM pages WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("page_id", id).Msg("DeletePage failed")
	}
	return err
}
