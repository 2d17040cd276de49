package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/safetrack/ppeorder/internal/metrics"
	"github.com/safetrack/ppeorder/internal/server/http/handlers"
	"github.com/safetrack/ppeorder/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.OrderingFacade, m *metrics.ServerMetrics, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.CollectMetrics(m))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	catalogHandler := handlers.NewCatalogHandler(facade)
	cartHandler := handlers.NewCartHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)

	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := engine.Group("/api")
	api.POST("/user/register", authHandler.Register)
	api.POST("/user/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.POST("/user/logout", authHandler.Logout)

	authed.GET("/catalog", catalogHandler.List)
	authed.GET("/catalog/:reference", catalogHandler.Get)

	authed.GET("/cart", cartHandler.Get)
	authed.POST("/cart/items", cartHandler.AddItem)
	authed.DELETE("/cart/items/:reference", cartHandler.RemoveItem)
	authed.DELETE("/cart", cartHandler.Clear)

	authed.POST("/orders", orderHandler.Submit)
	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.GET("/orders/:id/comments", orderHandler.Comments)
	authed.POST("/orders/:id/amend", orderHandler.Amend)
	authed.POST("/orders/:id/reassign", orderHandler.Reassign)
	authed.DELETE("/orders/:id", orderHandler.Delete)

	staff := authed.Group("")
	staff.Use(middleware.StaffRequired(facade))
	staff.GET("/staff/orders", orderHandler.ListAll)
	staff.POST("/orders/:id/claim", orderHandler.Claim)
	staff.POST("/orders/:id/process", orderHandler.Process)
	staff.POST("/orders/:id/deliver", orderHandler.Deliver)
	staff.POST("/orders/:id/approve", orderHandler.Approve)
	staff.POST("/orders/:id/reject", orderHandler.Reject)

	return engine
}
