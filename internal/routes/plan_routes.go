package routes

import (
	"github.com/gin-gonic/gin"

	"fleet_inventory/internal/controllers"
	"fleet_inventory/internal/middleware"
)

// PlanRoutes covers both rolling plans and installation schemas; they
// share the planner-owned service-planning surface.
func PlanRoutes(r *gin.Engine) {
	plans := r.Group("/plans")
	plans.Use(middleware.RequireAuth())
	{
		plans.GET("", controllers.ListPlans)
		plans.GET("/:id", controllers.GetPlan)
	}

	planPlanner := r.Group("/plans")
	planPlanner.Use(middleware.RequireAuthWithRole("planner"))
	{
		planPlanner.POST("", controllers.CreatePlan)
		planPlanner.PUT("/:id", controllers.UpdatePlan)
		planPlanner.DELETE("/:id", controllers.DeletePlan)
	}

	schemas := r.Group("/schemas")
	schemas.Use(middleware.RequireAuth())
	{
		schemas.GET("", controllers.ListSchemas)
		schemas.GET("/:id", controllers.GetSchema)
	}

	schemaPlanner := r.Group("/schemas")
	schemaPlanner.Use(middleware.RequireAuthWithRole("planner"))
	{
		schemaPlanner.POST("", controllers.CreateSchema)
		schemaPlanner.PUT("/:id", controllers.UpdateSchema)
		schemaPlanner.DELETE("/:id", controllers.DeleteSchema)
	}
}
