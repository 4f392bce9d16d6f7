package endpoints

import (
	"context"
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

type MasjidController struct {
	store     db.Store
	notifier  *notify.Publisher
	refresher *tasks.TimingsRefresher
}

func MasjidModule(store db.Store, notifier *notify.Publisher, refresher *tasks.TimingsRefresher) api.Module {
	ctl := &MasjidController{store: store, notifier: notifier, refresher: refresher}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/masjid-config", ctl.getConfig)
		c.POST("/masjid-config", ctl.upsertConfig)
		c.PATCH("/masjid-config", ctl.upsertConfig)
	})
}

func (m *MasjidController) getConfig(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	cfg, err := m.store.GetMasjidConfig(ctx.Request.Context())
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load masjid config"}
	}
	if cfg == nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "masjid config not set"}
	}
	return gin.H{"data": cfg}, nil
}

func (m *MasjidController) upsertConfig(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var request packets.UpsertMasjidConfigRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	existing, err := m.store.GetMasjidConfig(ctx.Request.Context())
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load masjid config"}
	}

	cfg := mergeConfig(existing, request)

	if err := m.store.PutMasjidConfig(ctx.Request.Context(), cfg); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save masjid config"}
	}

	redis.InvalidatePrefix(ctx.Request.Context(), TimingsCachePrefix)
	redis.InvalidatePrefix(ctx.Request.Context(), DisplayCachePrefix)
	m.notifier.BoardRefresh("config")

	// calculation parameters changed, re-pull the current month in the background
	if m.refresher != nil {
		go func() {
			rctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := m.refresher.Refresh(rctx, 0, 0); err != nil {
				log.Error().Err(err).Msg("timings refresh after config update failed")
			}
		}()
	}

	return gin.H{"data": cfg}, nil
}

// mergeConfig overlays the request onto the stored config so optional fields
// keep their previous values when omitted.
func mergeConfig(existing *model.MasjidConfig, request packets.UpsertMasjidConfigRequest) *model.MasjidConfig {
	cfg := &model.MasjidConfig{}
	if existing != nil {
		*cfg = *existing
	}

	now := time.Now().UTC()
	cfg.Year = now.Year()
	cfg.Month = int(now.Month())

	cfg.Address = request.Address
	cfg.TimeZone = request.TimeZone
	cfg.QRLink = request.QRLink
	if request.TickerText != nil {
		cfg.TickerText = request.TickerText
	}
	if request.MaghribSunsetAddition != nil {
		cfg.MaghribSunsetAddition = request.MaghribSunsetAddition
	}
	if request.Method != nil {
		cfg.Method = *request.Method
	}
	if request.Shafaq != nil {
		cfg.Shafaq = *request.Shafaq
	}
	if request.School != nil {
		cfg.School = *request.School
	}
	if request.MidnightMode != nil {
		cfg.MidnightMode = *request.MidnightMode
	}
	if request.CalendarMethod != nil {
		cfg.CalendarMethod = *request.CalendarMethod
	}
	if request.LatitudeAdjustmentMethod != nil {
		cfg.LatitudeAdjustmentMethod = request.LatitudeAdjustmentMethod
	}
	if request.Tune != nil {
		cfg.Tune = request.Tune
	}
	if request.Adjustment != nil {
		cfg.Adjustment = request.Adjustment
	}
	if request.AlwaysDisplayIqamaah != nil {
		cfg.AlwaysDisplayIqamaah = *request.AlwaysDisplayIqamaah
	}
	if request.DisplayTimerDuration != nil {
		cfg.DisplayTimerDuration = request.DisplayTimerDuration
	}
	if request.UseMobileTTS != nil {
		cfg.UseMobileTTS = *request.UseMobileTTS
	}
	if request.MonthAdjustment != nil {
		cfg.MonthAdjustment = *request.MonthAdjustment
	}
	if request.CustomAngles != nil {
		cfg.CustomAngles = request.CustomAngles
	}
	return cfg
}
