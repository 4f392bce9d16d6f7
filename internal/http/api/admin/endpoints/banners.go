package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/minbar-labs/minbar/internal/db"
	"github.com/minbar-labs/minbar/internal/http/api"
	"github.com/minbar-labs/minbar/internal/http/api/admin/packets"
	"github.com/minbar-labs/minbar/internal/model"
	"github.com/minbar-labs/minbar/internal/notify"
	"github.com/minbar-labs/minbar/internal/redis"
	"github.com/minbar-labs/minbar/internal/storage"
)

type BannersController struct {
	store    db.Store
	storage  storage.Storage
	notifier *notify.Publisher
}

func BannersModule(store db.Store, st storage.Storage, notifier *notify.Publisher) api.Module {
	ctl := &BannersController{store: store, storage: st, notifier: notifier}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/banners", ctl.listBanners)
		c.POST("/banners", ctl.uploadBanner)
		c.DELETE("/banners/:id", ctl.deleteBanner)
	})
}

func bannerResponse(b model.Banner) packets.BannerResponse {
	return packets.BannerResponse{
		ID:        b.ID,
		Filename:  b.Filename,
		MimeType:  b.MimeType,
		Size:      b.Size,
		URL:       b.URL,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

func (b *BannersController) invalidate(ctx *gin.Context) {
	redis.InvalidatePrefix(ctx.Request.Context(), DisplayCachePrefix)
	b.notifier.BoardRefresh("banners")
}

func (b *BannersController) listBanners(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	all, err := b.store.ListBanners()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list banners"}
	}
	out := make([]packets.BannerResponse, len(all))
	for i, x := range all {
		out[i] = bannerResponse(x)
	}
	return gin.H{"data": out}, nil
}

func (b *BannersController) uploadBanner(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	fileHeader, err := ctx.FormFile("source")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "file is required"}
	}

	url, err := b.storage.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Msg("could not save banner file")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save file"}
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	banner, err := b.store.CreateBanner(fileHeader.Filename, mimeType, fileHeader.Size, url)
	if err != nil {
		log.Error().Err(err).Msg("could not create banner record")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create banner"}
	}

	b.invalidate(ctx)
	return gin.H{"data": bannerResponse(banner)}, nil
}

func (b *BannersController) deleteBanner(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid banner id"}
	}

	if err := b.store.DeleteBanner(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "banner not found"}
	}

	b.invalidate(ctx)
	return gin.H{"message": "deleted"}, nil
}
