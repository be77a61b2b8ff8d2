package routes

import (
	"github.com/gin-gonic/gin"

	"fleet_inventory/internal/controllers"
	"fleet_inventory/internal/middleware"
)

func NodeRoutes(r *gin.Engine) {
	nodes := r.Group("/nodes")
	nodes.Use(middleware.RequireAuth())
	{
		nodes.GET("", controllers.ListNodes)
		nodes.GET("/:id", controllers.GetNode)
	}

	planner := r.Group("/nodes")
	planner.Use(middleware.RequireAuthWithRole("planner"))
	{
		planner.POST("", controllers.CreateNode)
		planner.PUT("/:id", controllers.UpdateNode)
		planner.DELETE("/:id", controllers.DeleteNode)
	}
}
