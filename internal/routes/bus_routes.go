package routes

import (
	"github.com/gin-gonic/gin"

	"fleet_inventory/internal/controllers"
	"fleet_inventory/internal/middleware"
)

func BusRoutes(r *gin.Engine) {
	buses := r.Group("/buses")
	buses.Use(middleware.RequireAuth())
	{
		buses.GET("", controllers.ListBuses)
		buses.GET("/:id", controllers.GetBus)
	}

	planner := r.Group("/buses")
	planner.Use(middleware.RequireAuthWithRole("planner"))
	{
		planner.POST("", controllers.CreateBus)
		planner.PUT("/:id", controllers.UpdateBus)
		planner.PUT("/:id/assign", controllers.AssignBusToPathway)
		planner.DELETE("/:id", controllers.DeleteBus)
	}
}
