// Package endpoints serves the unauthenticated feed that display boards poll.
package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/minbar-labs/minbar/internal/db"
	"github.com/minbar-labs/minbar/internal/http/api"
	"github.com/minbar-labs/minbar/internal/http/api/admin/packets"
	"github.com/minbar-labs/minbar/internal/iqamaah"
	"github.com/minbar-labs/minbar/internal/model"
	"github.com/minbar-labs/minbar/internal/redis"
)

// Cache keys share prefixes with the admin-side invalidation so mutations
// evict the board feed too.
const (
	iqamaahCachePrefix = "minbar:iqamaah:"
	displayCachePrefix = "minbar:display:"
	timingsCachePrefix = "minbar:timings:"
)

type DisplayController struct {
	store db.Store
	svc   *iqamaah.Service
}

func DisplayModule(store db.Store, svc *iqamaah.Service) api.Module {
	ctl := &DisplayController{store: store, svc: svc}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/display", ctl.getDisplay)
		c.PUBLIC_GET("/iqamaah/month", ctl.getMonthSchedule)
		c.PUBLIC_GET("/timings", ctl.getTimings)
	})
}

// displayPayload is everything a board needs to render, in one response.
type displayPayload struct {
	Config        *model.MasjidConfig  `json:"config"`
	Pages         []model.Page         `json:"pages"`
	Banners       []model.Banner       `json:"banners"`
	Announcements []model.Announcement `json:"announcements"`
}

func (d *DisplayController) getDisplay(ctx *gin.Context) (any, *api.APIError) {
	cacheKey := displayCachePrefix + "payload"
	var cached displayPayload
	if redis.GetJSON(ctx.Request.Context(), cacheKey, &cached) {
		return gin.H{"data": cached}, nil
	}

	cfg, err := d.store.GetMasjidConfig(ctx.Request.Context())
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load board config"}
	}

	pages, err := d.store.ListPages(true)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load pages"}
	}

	banners, err := d.store.ListBanners()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load banners"}
	}

	announcements, err := d.store.ListAnnouncements()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load announcements"}
	}

	payload := displayPayload{
		Config:        cfg,
		Pages:         pages,
		Banners:       banners,
		Announcements: announcements,
	}

	redis.SetJSON(ctx.Request.Context(), cacheKey, payload, 5*time.Minute)
	return gin.H{"data": payload}, nil
}

func (d *DisplayController) getMonthSchedule(ctx *gin.Context) (any, *api.APIError) {
	var query packets.MonthQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	cacheKey := fmt.Sprintf("%smonth:%d:%d", iqamaahCachePrefix, query.Year, query.Month)
	var cached packets.MonthScheduleResponse
	if redis.GetJSON(ctx.Request.Context(), cacheKey, &cached) {
		return cached, nil
	}

	rows, err := d.svc.MonthSchedule(ctx.Request.Context(), query.Year, query.Month)
	if err != nil {
		if errors.Is(err, iqamaah.ErrInvalidYear) || errors.Is(err, iqamaah.ErrInvalidMonth) {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
		}
		log.Error().Err(err).Msg("could not build month schedule")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not build month schedule"}
	}

	resp := packets.MonthScheduleResponse{Year: query.Year, Month: query.Month, Data: rows}
	redis.SetJSON(ctx.Request.Context(), cacheKey, resp, 15*time.Minute)
	return resp, nil
}

func (d *DisplayController) getTimings(ctx *gin.Context) (any, *api.APIError) {
	cacheKey := timingsCachePrefix + "latest"
	var cached model.MonthTimings
	if redis.GetJSON(ctx.Request.Context(), cacheKey, &cached) {
		return gin.H{"data": cached}, nil
	}

	timings, err := d.store.GetLatestMonthTimings(ctx.Request.Context())
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "no cached timings"}
	}

	redis.SetJSON(ctx.Request.Context(), cacheKey, timings, time.Hour)
	return gin.H{"data": timings}, nil
}
