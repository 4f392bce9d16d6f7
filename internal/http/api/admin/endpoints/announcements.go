package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/minbar-labs/minbar/internal/db"
	"github.com/minbar-labs/minbar/internal/http/api"
	"github.com/minbar-labs/minbar/internal/http/api/admin/packets"
	"github.com/minbar-labs/minbar/internal/model"
	"github.com/minbar-labs/minbar/internal/notify"
	"github.com/minbar-labs/minbar/internal/redis"
)

const DisplayCachePrefix = "minbar:display:"

type AnnouncementsController struct {
	store    db.Store
	notifier *notify.Publisher
}

func AnnouncementsModule(store db.Store, notifier *notify.Publisher) api.Module {
	ctl := &AnnouncementsController{store: store, notifier: notifier}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/announcements", ctl.listAnnouncements)
		c.GET("/announcements/:id", ctl.getAnnouncement)
		c.POST("/announcements", ctl.createAnnouncement)
		c.PUT("/announcements/:id", ctl.updateAnnouncement)
		c.DELETE("/announcements/:id", ctl.deleteAnnouncement)
	})
}

func (a *AnnouncementsController) invalidate(ctx *gin.Context) {
	redis.InvalidatePrefix(ctx.Request.Context(), DisplayCachePrefix)
	a.notifier.BoardRefresh("announcements")
}

func (a *AnnouncementsController) listAnnouncements(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	all, err := a.store.ListAnnouncements()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list announcements"}
	}
	return gin.H{"data": all}, nil
}

func (a *AnnouncementsController) getAnnouncement(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid announcement id"}
	}
	ann, err := a.store.GetAnnouncementByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "announcement not found"}
	}
	return gin.H{"data": ann}, nil
}

func (a *AnnouncementsController) createAnnouncement(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var request packets.CreateAnnouncementRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	ann, err := a.store.CreateAnnouncement(request.Text, request.AudioURL, request.UseMobileTTS)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create announcement"}
	}

	a.invalidate(ctx)
	return gin.H{"data": ann}, nil
}

func (a *AnnouncementsController) updateAnnouncement(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid announcement id"}
	}

	var request packets.UpdateAnnouncementRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if _, err := a.store.GetAnnouncementByID(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "announcement not found"}
	}

	if err := a.store.UpdateAnnouncement(id, request.Text, request.AudioURL, request.UseMobileTTS); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update announcement"}
	}

	updated, err := a.store.GetAnnouncementByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not fetch updated announcement"}
	}

	a.invalidate(ctx)
	return gin.H{"data": updated}, nil
}

func (a *AnnouncementsController) deleteAnnouncement(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid announcement id"}
	}

	if err := a.store.DeleteAnnouncement(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "announcement not found"}
	}

	a.invalidate(ctx)
	return gin.H{"message": "deleted"}, nil
}
