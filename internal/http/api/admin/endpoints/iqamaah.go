package endpoints

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minbar-labs/minbar/internal/http/api"
	"github.com/minbar-labs/minbar/internal/http/api/admin/packets"
	"github.com/minbar-labs/minbar/internal/iqamaah"
	"github.com/minbar-labs/minbar/internal/model"
	"github.com/minbar-labs/minbar/internal/notify"
	"github.com/minbar-labs/minbar/internal/redis"
)

// IqamaahCachePrefix covers every cached iqamaah projection; mutations drop
// the whole prefix.
const IqamaahCachePrefix = "minbar:iqamaah:"

type IqamaahController struct {
	svc      *iqamaah.Service
	notifier *notify.Publisher
}

func NewIqamaahController(svc *iqamaah.Service, notifier *notify.Publisher) *IqamaahController {
	return &IqamaahController{svc: svc, notifier: notifier}
}

func IqamaahModule(svc *iqamaah.Service, notifier *notify.Publisher) api.Module {
	ctl := NewIqamaahController(svc, notifier)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/iqamaah", ctl.getTimes)
		c.PUT("/iqamaah", ctl.bulkReplace)
		c.DELETE("/iqamaah", ctl.clearTimes)

		// single-range operations
		c.POST("/iqamaah/range", ctl.insertRange)
		c.PATCH("/iqamaah/range", ctl.updateRange)
		c.DELETE("/iqamaah/range", ctl.deleteRange)

		// monthly projections
		c.GET("/iqamaah/month", ctl.monthSchedule)
		c.GET("/iqamaah/month/ranges", ctl.monthRanges)
	})
}

// iqamaahError maps engine errors onto HTTP responses.
func iqamaahError(err error) *api.APIError {
	switch {
	case errors.Is(err, iqamaah.ErrNotFound):
		return &api.APIError{Code: http.StatusNotFound, Message: err.Error()}
	case errors.Is(err, iqamaah.ErrInvalidDateFormat),
		errors.Is(err, iqamaah.ErrInvalidRange),
		errors.Is(err, iqamaah.ErrInvalidTime),
		errors.Is(err, iqamaah.ErrUnknownPrayer),
		errors.Is(err, iqamaah.ErrInvalidYear),
		errors.Is(err, iqamaah.ErrInvalidMonth):
		return &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, iqamaah.ErrRevisionConflict):
		return &api.APIError{Code: http.StatusConflict, Message: "concurrent update, please retry"}
	}
	return &api.APIError{Code: http.StatusInternalServerError, Message: "failed to update iqamaah times"}
}

func (i *IqamaahController) invalidate(ctx *gin.Context) {
	redis.InvalidatePrefix(ctx.Request.Context(), IqamaahCachePrefix)
	i.notifier.BoardRefresh("iqamaah")
}

func (i *IqamaahController) getTimes(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	doc, err := i.svc.Get(ctx.Request.Context())
	if err != nil {
		return nil, iqamaahError(err)
	}
	return gin.H{"data": packets.NewIqamaahTimesResponse(doc)}, nil
}

func (i *IqamaahController) bulkReplace(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var request packets.BulkIqamaahRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	// legacy field spellings count only when the canonical one is absent
	payload := map[string][]iqamaah.WindowInput{
		"fajr":   toWindowInputs(request.Fajr),
		"dhuhr":  toWindowInputs(request.Dhuhr),
		"asr":    toWindowInputs(request.Asr),
		"isha":   toWindowInputs(request.Isha),
		"jumuah": toWindowInputs(request.Jumuah),
	}
	if request.Fajr == nil && request.Fajar != nil {
		payload["fajr"] = toWindowInputs(request.Fajar)
	}
	if request.Dhuhr == nil && request.Zuhr != nil {
		payload["dhuhr"] = toWindowInputs(request.Zuhr)
	}
	if request.Jumuah == nil && request.Jummah != nil {
		payload["jumuah"] = toWindowInputs(request.Jummah)
	}
	if request.Jumuah == nil && request.Jummah == nil && request.JumuahAlt != nil {
		payload["jumuah"] = toWindowInputs(request.JumuahAlt)
	}

	doc, err := i.svc.BulkReplace(ctx.Request.Context(), payload)
	if err != nil {
		return nil, iqamaahError(err)
	}

	i.invalidate(ctx)
	return gin.H{"data": packets.NewIqamaahTimesResponse(doc)}, nil
}

func (i *IqamaahController) clearTimes(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	if err := i.svc.Clear(ctx.Request.Context()); err != nil {
		return nil, iqamaahError(err)
	}
	i.invalidate(ctx)
	return gin.H{"message": "deleted"}, nil
}

func (i *IqamaahController) insertRange(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var request packets.InsertIqamaahRangeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	doc, err := i.svc.InsertRange(ctx.Request.Context(), iqamaah.RangeInput{
		Prayer:    request.Prayer,
		StartDate: request.StartDate,
		EndDate:   request.EndDate,
		Time:      request.Time,
	})
	if err != nil {
		return nil, iqamaahError(err)
	}

	i.invalidate(ctx)
	return gin.H{"data": packets.NewIqamaahTimesResponse(doc)}, nil
}

func (i *IqamaahController) updateRange(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var request packets.UpdateIqamaahRangeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	doc, err := i.svc.UpdateRange(ctx.Request.Context(), iqamaah.UpdateInput{
		RangeInput: iqamaah.RangeInput{
			Prayer:    request.Prayer,
			StartDate: request.StartDate,
			EndDate:   request.EndDate,
			Time:      request.Time,
		},
		OldTime:      request.OldTime,
		OldStartDate: request.OldStartDate,
		OldEndDate:   request.OldEndDate,
	})
	if err != nil {
		return nil, iqamaahError(err)
	}

	i.invalidate(ctx)
	return gin.H{"data": packets.NewIqamaahTimesResponse(doc)}, nil
}

func (i *IqamaahController) deleteRange(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var request packets.DeleteIqamaahRangeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	doc, err := i.svc.DeleteRange(ctx.Request.Context(), iqamaah.DeleteInput{
		Prayer:    request.Prayer,
		StartDate: request.StartDate,
		EndDate:   request.EndDate,
		Time:      request.Time,
	})
	if err != nil {
		return nil, iqamaahError(err)
	}

	i.invalidate(ctx)
	return gin.H{"data": packets.NewIqamaahTimesResponse(doc)}, nil
}

func (i *IqamaahController) monthSchedule(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var query packets.MonthQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	rows, err := i.svc.MonthSchedule(ctx.Request.Context(), query.Year, query.Month)
	if err != nil {
		return nil, iqamaahError(err)
	}

	return packets.MonthScheduleResponse{Year: query.Year, Month: query.Month, Data: rows}, nil
}

func (i *IqamaahController) monthRanges(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var query packets.MonthQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	doc, err := i.svc.MonthRanges(ctx.Request.Context(), query.Year, query.Month)
	if err != nil {
		return nil, iqamaahError(err)
	}

	return packets.MonthRangesResponse{
		Year:  query.Year,
		Month: query.Month,
		Data:  packets.NewIqamaahTimesResponse(doc),
	}, nil
}

func toWindowInputs(entries []packets.IqamaahRangeEntry) []iqamaah.WindowInput {
	out := make([]iqamaah.WindowInput, 0, len(entries))
	for _, e := range entries {
		out = append(out, iqamaah.WindowInput{StartDate: e.StartDate, EndDate: e.EndDate, Time: e.Time})
	}
	return out
}
