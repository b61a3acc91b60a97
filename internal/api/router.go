package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/intakeserver/internal/app"
)

/*
SetupRouter wires every HTTP endpoint, using thin closure wrappers so
each handler receives the running *app.App instance.
*/
func SetupRouter(a *app.App) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	/* ---------- public endpoints ---------- */
	r.POST("/api/register", func(c *gin.Context) { handleUserRegistration(a, c) })
	r.POST("/api/login", func(c *gin.Context) { handleUserLogin(a, c) })

	/* ---------- protected endpoints ---------- */
	api := r.Group("/api")
	api.Use(authMiddleware(a.GetAuth()))
	{
		api.POST("/subscriptions", func(c *gin.Context) { handleCreateSubscription(a, c) })
		api.GET("/subscriptions", func(c *gin.Context) { handleListSubscriptions(a, c) })
		api.GET("/emails/recent", func(c *gin.Context) { handleRecentEmails(a, c) })
		api.POST("/emails/:emailId/mark-as-item",
			func(c *gin.Context) { handleMarkEmailAsItem(a, c) })
		api.POST("/emails/:emailId/reply",
			func(c *gin.Context) { handleReplyToEmail(a, c) })
	}

	return r
}
