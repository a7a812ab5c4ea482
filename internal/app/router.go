package app

import (
	"github.com/gin-gonic/gin"

	"github.com/provaloop/studyloop-backend/internal/http/middleware"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, handlerset Handlers, mw Middleware) *gin.Engine {
	log.Info("Wiring router...")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.AttachTraceContext())
	router.Use(middleware.RequestLogger(log))

	router.GET("/healthcheck", handlerset.Health.HealthCheck)

	api := router.Group("/api")
	api.Use(mw.Auth.RequireAuth())
	{
		api.POST("/sessions", handlerset.Session.Create)
		api.GET("/sessions", handlerset.Session.List)
		api.GET("/sessions/:id", handlerset.Session.Get)
		api.DELETE("/sessions/:id", handlerset.Session.Delete)
		api.POST("/sessions/:id/questions", handlerset.Session.GenerateQuestion)
		api.GET("/sessions/:id/report", handlerset.Session.Report)

		api.POST("/questions/:id/answer", handlerset.Question.Answer)
		api.POST("/questions/:id/disputes", handlerset.Dispute.Submit)
		api.GET("/questions/:id/disputes", handlerset.Dispute.History)
	}

	return router
}
