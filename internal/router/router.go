package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mirasocial/mira-client/internal/handler"
	"github.com/mirasocial/mira-client/pkg/constants"
)

// New builds the local control API router.
func New(
	auth *handler.AuthHandler,
	posts *handler.PostHandler,
	streams *handler.StreamHandler,
	locations *handler.LocationHandler,
	notifications *handler.NotificationHandler,
	health *handler.HealthHandler,
) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET(constants.PathHealth, health.Health)
	r.GET(constants.PathReady, health.Ready)

	r.POST("/login", auth.Login)
	r.POST("/logout", auth.Logout)
	r.GET("/session", auth.Session)

	p := r.Group("/posts")
	{
		p.POST("", posts.Create)
		p.GET("/progress", posts.Progress)
	}

	s := r.Group("/stream")
	{
		s.POST("/start", streams.Start)
		s.POST("/stop", streams.Stop)
		s.GET("", streams.Info)
	}

	l := r.Group("/location")
	{
		l.GET("", locations.Current)
		l.GET("/last", locations.Last)
		l.GET("/distance", locations.Distance)
		l.POST("/watch", locations.StartWatch)
		l.DELETE("/watch", locations.StopWatch)
	}

	n := r.Group("/notifications")
	{
		n.GET("", notifications.List)
		n.POST("/:id/read", notifications.MarkRead)
		n.POST("/read-all", notifications.MarkAllRead)
	}

	return r
}
