package routes

import (
	"github.com/gin-gonic/gin"

	"fleet_inventory/internal/controllers"
	"fleet_inventory/internal/middleware"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.GET("/users", controllers.ListUsers)
		admin.GET("/buses", controllers.ListBuses)
		admin.GET("/pathways", controllers.ListPathways)
	}
}
