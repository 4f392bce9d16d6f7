package endpoints

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/minbar-labs/minbar/internal/db"
	"github.com/minbar-labs/minbar/internal/http/api"
	"github.com/minbar-labs/minbar/internal/http/api/admin/packets"
	"github.com/minbar-labs/minbar/internal/model"
	"github.com/minbar-labs/minbar/internal/notify"
	"github.com/minbar-labs/minbar/internal/redis"
	"github.com/minbar-labs/minbar/internal/tasks"
)

const TimingsCachePrefix = "minbar:timings:"

type TimingsController struct {
	store     db.Store
	refresher *tasks.TimingsRefresher
	notifier  *notify.Publisher
}

func TimingsModule(store db.Store, refresher *tasks.TimingsRefresher, notifier *notify.Publisher) api.Module {
	ctl := &TimingsController{store: store, refresher: refresher, notifier: notifier}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/timings", ctl.getTimings)
		c.POST("/timings/refresh", ctl.refreshTimings)
	})
}

func (t *TimingsController) getTimings(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	cacheKey := TimingsCachePrefix + "latest"
	var cached model.MonthTimings
	if redis.GetJSON(ctx.Request.Context(), cacheKey, &cached) {
		return gin.H{"data": cached}, nil
	}

	timings, err := t.store.GetLatestMonthTimings(ctx.Request.Context())
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "no cached timings"}
	}

	redis.SetJSON(ctx.Request.Context(), cacheKey, timings, time.Hour)
	return gin.H{"data": timings}, nil
}

func (t *TimingsController) refreshTimings(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	if t.refresher == nil {
		return nil, &api.APIError{Code: http.StatusServiceUnavailable, Message: "timings API not configured"}
	}

	// an empty body means "current month"
	var request packets.RefreshTimingsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	var year, month int
	if request.Year != nil {
		year = *request.Year
	}
	if request.Month != nil {
		month = *request.Month
	}

	if err := t.refresher.Refresh(ctx.Request.Context(), year, month); err != nil {
		log.Error().Err(err).Msg("manual timings refresh failed")
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: "could not refresh timings"}
	}

	redis.InvalidatePrefix(ctx.Request.Context(), TimingsCachePrefix)
	redis.InvalidatePrefix(ctx.Request.Context(), DisplayCachePrefix)
	t.notifier.BoardRefresh("timings")

	return gin.H{"message": "refreshed"}, nil
}
