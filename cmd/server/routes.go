package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/minbar-labs/minbar/internal/db"
	"github.com/minbar-labs/minbar/internal/http/api"
	adminapi "github.com/minbar-labs/minbar/internal/http/api/admin/endpoints"
	boardapi "github.com/minbar-labs/minbar/internal/http/api/board/endpoints"
	"github.com/minbar-labs/minbar/internal/iqamaah"
	"github.com/minbar-labs/minbar/internal/notify"
	"github.com/minbar-labs/minbar/internal/storage"
	"github.com/minbar-labs/minbar/internal/tasks"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(
	r *gin.Engine,
	env Environment,
	store db.Store,
	storageSystem storage.Storage,
	svc *iqamaah.Service,
	notifier *notify.Publisher,
	refresher *tasks.TimingsRefresher,
) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		adminapi.AuthPublicModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: env.SecretKey,
		Store:     store,
	},
		adminapi.IqamaahModule(svc, notifier),
		adminapi.MasjidModule(store, notifier, refresher),
		adminapi.AnnouncementsModule(store, notifier),
		adminapi.PagesModule(store, storageSystem, notifier),
		adminapi.BannersModule(store, storageSystem, notifier),
		adminapi.TimingsModule(store, refresher, notifier),
		// session endpoints that require auth
		adminapi.AuthSessionModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/board",
	},
		boardapi.DisplayModule(store, svc),
	)

	// Static content
	if !env.UseSpaces {
		r.Static("/uploads", "./uploads")
	}
}
