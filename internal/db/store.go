// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"github.com/minbar-labs/minbar/internal/model"
)

type Store interface {
	// admin users
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error

	// iqamaah singleton aggregate (revision-checked writes)
	GetIqamaahTimes(ctx context.Context) (*model.IqamaahTimes, int64, error)
	PutIqamaahTimes(ctx context.Context, doc *model.IqamaahTimes, expectedRevision int64) error
	DeleteIqamaahTimes(ctx context.Context) error

	// masjid config singleton
	GetMasjidConfig(ctx context.Context) (*model.MasjidConfig, error)
	PutMasjidConfig(ctx context.Context, cfg *model.MasjidConfig) error

	// announcements
	CreateAnnouncement(text string, audioURL *string, useMobileTTS bool) (model.Announcement, error)
	ListAnnouncements() ([]model.Announcement, error)
	GetAnnouncementByID(id int) (*model.Announcement, error)
	UpdateAnnouncement(id int, text *string, audioURL *string, useMobileTTS *bool) error
	DeleteAnnouncement(id int) error

	// pages
	CreatePage(p model.Page) (model.Page, error)
	ListPages(activeOnly bool) ([]model.Page, error)
	GetPageByID(id int) (*model.Page, error)
	UpdatePage(p model.Page) error
	DeletePage(id int) error

	// banners
	CreateBanner(filename, mimeType string, size int64, url string) (model.Banner, error)
	ListBanners() ([]model.Banner, error)
	GetBannerByID(id int) (*model.Banner, error)
	DeleteBanner(id int) error

	// prayer-timings cache
	UpsertMonthTimings(ctx context.Context, year, month int, address string, data json.RawMessage) error
	GetLatestMonthTimings(ctx context.Context) (*model.MonthTimings, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(db *sqlx.DB) Store {
	if db == nil {
		db = DB
	}
	return &pgStore{db: db}
}
