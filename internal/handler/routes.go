package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-nav-api/internal/middleware"
	"github.com/noah-isme/campus-nav-api/internal/models"
	"github.com/noah-isme/campus-nav-api/internal/service"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth       *service.AuthService
	Buildings  *service.BuildingService
	Courses    *service.CourseService
	Exports    *service.ScheduleExportService
	Events     *service.EventService
	Favorites  *service.FavoriteService
	Locations  *service.LocationService
	Navigation *service.NavigationService
	Metrics    *service.MetricsService
}

// RouteConfig controls how the API is mounted.
type RouteConfig struct {
	APIPrefix string
	// ProtectCatalogWrites requires an admin token to create buildings,
	// classrooms and courses.
	ProtectCatalogWrites bool
	// ProtectLocationWrites requires the caller to be the location owner or an admin.
	ProtectLocationWrites bool
	ReadinessChecks       map[string]ReadinessCheck
}

// RegisterRoutes mounts the probes at the root and the API under the prefix.
func RegisterRoutes(r *gin.Engine, svcs Services, cfg RouteConfig) {
	ops := NewMetricsHandler(svcs.Metrics, cfg.ReadinessChecks)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	if svcs.Metrics != nil {
		r.GET("/metrics", ops.Prometheus)
	}

	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = "/api"
	}
	api := r.Group(prefix)

	var catalogGuards, locationGuards []gin.HandlerFunc
	if cfg.ProtectCatalogWrites {
		catalogGuards = []gin.HandlerFunc{middleware.JWT(svcs.Auth), middleware.RequireRoles(models.RoleAdmin)}
	}
	if cfg.ProtectLocationWrites {
		locationGuards = []gin.HandlerFunc{middleware.JWT(svcs.Auth), middleware.RBAC(middleware.SelfParam, string(models.RoleAdmin))}
	}
	catalogWrite := func(h gin.HandlerFunc) []gin.HandlerFunc { return guarded(catalogGuards, h) }
	locationWrite := func(h gin.HandlerFunc) []gin.HandlerFunc { return guarded(locationGuards, h) }

	auth := NewAuthHandler(svcs.Auth)
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)
	api.GET("/auth/me", middleware.JWT(svcs.Auth), auth.Me)

	buildings := NewBuildingHandler(svcs.Buildings)
	api.GET("/buildings", buildings.List)
	api.GET("/buildings/nearby", buildings.Nearby)
	api.GET("/buildings/:id", buildings.Get)
	api.GET("/buildings/:id/classrooms", buildings.ListClassrooms)
	api.POST("/buildings", catalogWrite(buildings.Create)...)
	api.GET("/classrooms/:id", buildings.GetClassroom)
	api.POST("/classrooms", catalogWrite(buildings.CreateClassroom)...)

	courses := NewCourseHandler(svcs.Courses, svcs.Exports)
	api.GET("/courses", courses.List)
	api.GET("/courses/:id", courses.Get)
	api.POST("/courses", catalogWrite(courses.Create)...)

	events := NewEventHandler(svcs.Events)
	api.GET("/events", events.List)
	api.GET("/events/:id", events.Get)
	api.POST("/events", middleware.OptionalJWT(svcs.Auth), events.Create)
	api.PATCH("/events/:id", events.Patch)
	api.DELETE("/events/:id", events.Delete)

	favorites := NewFavoriteHandler(svcs.Favorites)
	api.POST("/favorites", favorites.Create)
	api.DELETE("/favorites/:id", favorites.Delete)

	locations := NewLocationHandler(svcs.Locations)
	api.GET("/student-locations", locations.ListSharing)

	users := api.Group("/users/:userId")
	users.GET("/courses", courses.ListForUser)
	users.GET("/schedule", courses.Schedule)
	users.GET("/schedule/export", courses.ExportSchedule)
	users.GET("/events", events.ListForUser)
	users.GET("/favorites", favorites.ListForUser)
	users.GET("/location", locations.Get)
	users.POST("/location", locationWrite(locations.Create)...)
	users.PUT("/location", locationWrite(locations.Update)...)
	users.PATCH("/location/sharing", locationWrite(locations.SetSharing)...)

	navigation := NewNavigationHandler(svcs.Navigation)
	api.GET("/navigation/distance", navigation.Distance)
}

func guarded(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(guards)+1)
	return append(append(chain, guards...), h)
}
