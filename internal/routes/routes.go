package routes

import (
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fleet_inventory/internal/middleware"
)

// SetupRouter wires middleware and every route group onto one engine.
// The caller owns binding the engine to an address.
func SetupRouter() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())
	r.Use(middleware.RequestID())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	AuthRoutes(r)
	PathwayRoutes(r)
	NodeRoutes(r)
	BusRoutes(r)
	PlanRoutes(r)
	AdminRoutes(r)

	return r
}
