package dashboard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/northstar/summit/internal/goal"
)

// registerRoutes sets up all dashboard routes on the Gin router.
func registerRoutes(router *gin.Engine, store *goal.Store) {
	api := router.Group("/api")
	api.GET("/goals", handleGoalList(store))
	api.GET("/goals/:id", handleGoalDetail(store))
	api.GET("/goals/:id/hierarchy", handleHierarchy(store))
	api.GET("/goals/:id/dependencies", handleDependencies(store))
	api.GET("/map", handleMap(store))
	api.GET("/filters", handleFilters(store))
	api.GET("/events", handleSSE(store))
}

// filterFromQuery reads the filter fields from query parameters. Absent
// parameters mean no constraint.
func filterFromQuery(c *gin.Context) goal.Filter {
	return goal.Filter{
		Status:   c.Query("status"),
		Owner:    c.Query("owner"),
		Category: c.Query("category"),
		Timeline: c.Query("timeline"),
		Search:   c.Query("search"),
	}
}

func handleGoalList(store *goal.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"goals": store.Filtered(filterFromQuery(c)),
		})
	}
}

func handleGoalDetail(store *goal.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		g, err := store.Get(id)
		if err != nil {
			abortStoreError(c, err)
			return
		}
		deps, err := store.Dependencies(id)
		if err != nil {
			abortStoreError(c, err)
			return
		}
		canStart, err := store.CanStart(id)
		if err != nil {
			abortStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"goal":       g,
			"dependsOn":  deps.DependsOn,
			"dependents": deps.Dependents,
			"canStart":   canStart,
		})
	}
}

func handleHierarchy(store *goal.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tree, err := store.Hierarchy(c.Param("id"))
		if err != nil {
			abortStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"goals": tree})
	}
}

func handleDependencies(store *goal.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps, err := store.Dependencies(c.Param("id"))
		if err != nil {
			abortStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"dependsOn":  deps.DependsOn,
			"dependents": deps.Dependents,
		})
	}
}

func handleMap(store *goal.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"goals": store.MapGoals(filterFromQuery(c)),
		})
	}
}

func handleFilters(store *goal.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"owners":     store.Owners(),
			"categories": store.Categories(),
		})
	}
}

// abortStoreError maps engine errors to HTTP status codes.
func abortStoreError(c *gin.Context, err error) {
	var nf *goal.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
