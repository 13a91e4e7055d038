package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BladMendez/asistencia-mec-nica/internal/server/handlers"
	"github.com/BladMendez/asistencia-mec-nica/internal/server/middleware"
)

// New wires handlers and middleware into an HTTP router.
func New(handler *handlers.Handler, mw *middleware.Manager) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), mw.Logger(), mw.Metrics())

	router.GET("/health", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := router.Group("/admin")
	admin.Use(mw.Auth(), mw.RateLimit(), mw.Admin())
	{
		admin.POST("/apikeys", handler.CreateAPIKey)
		admin.GET("/apikeys/:key", handler.GetAPIKey)
		admin.GET("/rosters", handler.ListArchivedRosters)
	}

	v1 := router.Group("/api/v1")
	v1.Use(mw.Auth(), mw.RateLimit())
	{
		courses := v1.Group("/courses")
		{
			courses.GET("", handler.ListCourses)
			courses.GET("/:course", handler.GetCourse)
			courses.GET("/:course/report", handler.CourseReport)
			courses.GET("/:course/students/:student", handler.StudentReport)
			courses.POST("/:course/captures", handler.Capture)
			courses.GET("/:course/captures", handler.RecentCaptures)
			courses.GET("/:course/tardies", handler.PendingTardies)
			courses.POST("/:course/tardies", handler.CorrectTardies)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/comparison", handler.Comparison)
		}

		v1.POST("/rosters", handler.UploadRoster)
	}

	return router
}
