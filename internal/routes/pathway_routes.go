package routes

import (
	"github.com/gin-gonic/gin"

	"fleet_inventory/internal/controllers"
	"fleet_inventory/internal/middleware"
)

func PathwayRoutes(r *gin.Engine) {
	// Reads are open to any authenticated role
	pathways := r.Group("/pathways")
	pathways.Use(middleware.RequireAuth())
	{
		pathways.GET("", controllers.ListPathways)
		pathways.GET("/:id", controllers.GetPathway)
	}

	// Mutations need the planner role
	planner := r.Group("/pathways")
	planner.Use(middleware.RequireAuthWithRole("planner"))
	{
		planner.POST("", controllers.CreatePathway)
		planner.PUT("/:id", controllers.UpdatePathway)
		planner.DELETE("/:id", controllers.DeletePathway)

		planner.PUT("/:id/options/sync", controllers.BulkSyncOptions)
		planner.POST("/:id/options", controllers.CreateOption)
		planner.PUT("/:id/options/:optionId", controllers.UpdateOption)
		planner.DELETE("/:id/options/:optionId", controllers.DeleteOption)
	}
}
