package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/minbar-labs/minbar/internal/db"
	"github.com/minbar-labs/minbar/internal/http/api"
	"github.com/minbar-labs/minbar/internal/http/api/admin/packets"
	"github.com/minbar-labs/minbar/internal/iqamaah"
	"github.com/minbar-labs/minbar/internal/model"
	"github.com/minbar-labs/minbar/internal/notify"
	"github.com/minbar-labs/minbar/internal/redis"
	"github.com/minbar-labs/minbar/internal/storage"
)

type PagesController struct {
	store    db.Store
	storage  storage.Storage
	notifier *notify.Publisher
}

func PagesModule(store db.Store, st storage.Storage, notifier *notify.Publisher) api.Module {
	ctl := &PagesController{store: store, storage: st, notifier: notifier}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/pages", ctl.listPages)
		c.GET("/pages/:id", ctl.getPage)
		c.POST("/pages", ctl.createPage)
		c.PUT("/pages/:id", ctl.updatePage)
		c.DELETE("/pages/:id", ctl.deletePage)

		// slide/page images arrive as multipart uploads, referenced by URL
		c.POST("/pages/media", ctl.uploadMedia)
	})
}

func (p *PagesController) invalidate(ctx *gin.Context) {
	redis.InvalidatePrefix(ctx.Request.Context(), DisplayCachePrefix)
	p.notifier.BoardRefresh("pages")
}

func (p *PagesController) listPages(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	activeOnly := ctx.Query("active") == "true"
	pages, err := p.store.ListPages(activeOnly)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list pages"}
	}
	return gin.H{"data": pages}, nil
}

func (p *PagesController) getPage(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid page id"}
	}
	page, err := p.store.GetPageByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "page not found"}
	}
	return gin.H{"data": page}, nil
}

func (p *PagesController) createPage(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var request packets.CreatePageRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	schedules, apiErr := toSchedules(request.Schedules)
	if apiErr != nil {
		return nil, apiErr
	}

	page := model.Page{
		Title:     request.Title,
		PageType:  request.PageType,
		Content:   request.Content,
		Image:     request.Image,
		Slides:    toSlides(request.Slides),
		Position:  request.Position,
		Schedules: schedules,
		IsActive:  true,
	}
	if request.PageDuration != nil {
		page.PageDuration = request.PageDuration
	}
	if request.IsActive != nil {
		page.IsActive = *request.IsActive
	}

	created, err := p.store.CreatePage(page)
	if err != nil {
		log.Error().Err(err).Msg("could not create page")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create page"}
	}

	p.invalidate(ctx)
	return gin.H{"data": created}, nil
}

func (p *PagesController) updatePage(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid page id"}
	}

	var request packets.UpdatePageRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	page, err := p.store.GetPageByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "page not found"}
	}

	if request.Title != nil {
		page.Title = *request.Title
	}
	if request.PageType != nil {
		page.PageType = *request.PageType
	}
	if request.Content != nil {
		page.Content = *request.Content
	}
	if request.Image != nil {
		page.Image = request.Image
	}
	if request.Slides != nil {
		page.Slides = toSlides(request.Slides)
	}
	if request.PageDuration != nil {
		page.PageDuration = request.PageDuration
	}
	if request.Position != nil {
		page.Position = *request.Position
	}
	if request.Schedules != nil {
		schedules, apiErr := toSchedules(request.Schedules)
		if apiErr != nil {
			return nil, apiErr
		}
		page.Schedules = schedules
	}
	if request.IsActive != nil {
		page.IsActive = *request.IsActive
	}

	if err := p.store.UpdatePage(*page); err != nil {
		log.Error().Err(err).Int("page_id", id).Msg("could not update page")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update page"}
	}

	updated, err := p.store.GetPageByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not fetch updated page"}
	}

	p.invalidate(ctx)
	return gin.H{"data": updated}, nil
}

func (p *PagesController) deletePage(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid page id"}
	}

	if err := p.store.DeletePage(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "page not found"}
	}

	p.invalidate(ctx)
	return gin.H{"message": "deleted"}, nil
}

func (p *PagesController) uploadMedia(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	fileHeader, err := ctx.FormFile("source")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "file is required"}
	}

	url, err := p.storage.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Msg("could not save page media")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save file"}
	}

	return gin.H{"url": url}, nil
}

func toSlides(entries []packets.SlideEntry) []model.Slide {
	out := make([]model.Slide, 0, len(entries))
	for _, e := range entries {
		s := model.Slide{Image: e.Image, Duration: e.Duration, IsActive: true}
		if e.IsActive != nil {
			s.IsActive = *e.IsActive
		}
		out = append(out, s)
	}
	return out
}

func toSchedules(entries []packets.PageScheduleEntry) ([]model.DisplaySchedule, *api.APIError) {
	out := make([]model.DisplaySchedule, 0, len(entries))
	for _, e := range entries {
		s := model.DisplaySchedule{
			Type:      e.Type,
			DayOfWeek: e.DayOfWeek,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
		}
		if e.StartDate != nil {
			d, err := iqamaah.ParseFlexibleDate(*e.StartDate)
			if err != nil {
				return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid schedule start_date"}
			}
			s.StartDate = &d
		}
		if e.EndDate != nil {
			d, err := iqamaah.ParseFlexibleDate(*e.EndDate)
			if err != nil {
				return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid schedule end_date"}
			}
			s.EndDate = &d
		}
		if s.StartDate != nil && s.EndDate != nil && s.EndDate.Before(*s.StartDate) {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "schedule end_date before start_date"}
		}
		out = append(out, s)
	}
	return out, nil
}
