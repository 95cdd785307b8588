// Package httpserver wires the admin HTTP surface.
package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"supportpilot/internal/handler"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *handler.AuthHandler,
	knowledgeHandler *handler.KnowledgeHandler,
	auditHandler *handler.AuditHandler,
	triageHandler *handler.TriageHandler,
	accountHandler *handler.AccountHandler,
	jwtSecret string,
	db *pgxpool.Pool,
) *Router {
	r := gin.Default()
	r.Use(TraceMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/login", authHandler.Login)

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.GET("/knowledge/search", knowledgeHandler.Search)
		auth.POST("/knowledge/documents", knowledgeHandler.AddDocument)
		auth.GET("/knowledge/stats", knowledgeHandler.Stats)

		auth.GET("/audit/unhandled", auditHandler.ListUnhandled)
		auth.GET("/audit/refund-attempts", auditHandler.ListRefundAttempts)
		auth.GET("/audit/refund-attempts/count", auditHandler.CountRefundAttempts)
		auth.GET("/audit/outbox-failures", auditHandler.ListOutboxFailures)

		auth.POST("/triage/start", triageHandler.Start)
		auth.POST("/triage/stop", triageHandler.Stop)
		auth.GET("/triage/status", triageHandler.Status)

		auth.GET("/accounts", accountHandler.List)
		auth.POST("/accounts", accountHandler.Connect)
		auth.DELETE("/accounts/:email", accountHandler.Disconnect)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
