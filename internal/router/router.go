// Package router registers the console's routes and their middleware.
package router

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/vacation-portal/internal/config"
	"github.com/iliyamo/vacation-portal/internal/guard"
	"github.com/iliyamo/vacation-portal/internal/handler"
	"github.com/iliyamo/vacation-portal/internal/middleware"
)

// Deps bundles what the routes need.  Redis may be nil, which disables
// rate limiting and caching.
type Deps struct {
	Sessions  guard.Source
	Guard     guard.Guard
	Auth      *handler.AuthHandler
	Vacations *handler.VacationHandler
	Stats     *handler.StatsHandler
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Logger    *slog.Logger
}

// RegisterRoutes registers endpoints that need no session.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterSession registers the login, signup and logout forms and the
// session endpoints.  Login and signup share a rate limiter.
func RegisterSession(e *echo.Echo, d Deps) {
	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Logger)

	e.POST("/login", d.Auth.Login, limit)
	e.POST("/signup", d.Auth.Signup, limit)
	e.POST("/logout", d.Auth.Logout)

	e.GET("/session", d.Auth.Session)
	e.DELETE("/session/error", d.Auth.ClearError)
	e.GET("/session/watch", d.Auth.Watch)
}

// RegisterViews registers the vacation and statistics views.  The home
// view is public; everything else goes through the route guard, and
// mutations additionally through the role check for their action.
func RegisterViews(e *echo.Echo, d Deps) {
	e.GET("/views/home", d.Vacations.Home)

	v := e.Group("/views")

	v.GET("/countries", d.Vacations.Countries, middleware.RequireSession(d.Sessions, d.Guard, "countries"))
	v.GET("/vacations/:id", d.Vacations.Get, middleware.RequireSession(d.Sessions, d.Guard, "vacation"))

	manage := func(view string, action guard.Action) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{
			middleware.RequireSession(d.Sessions, d.Guard, view),
			middleware.RequireAction(d.Sessions, action),
		}
	}
	v.POST("/vacations", d.Vacations.Create, manage("vacation.create", guard.ActionCreateVacation)...)
	v.PUT("/vacations/:id", d.Vacations.Update, manage("vacation.edit", guard.ActionEditVacation)...)
	v.DELETE("/vacations/:id", d.Vacations.Delete, manage("vacation.edit", guard.ActionDeleteVacation)...)
	v.POST("/vacations/:id/like", d.Vacations.Like, manage("home", guard.ActionLikeVacation)...)
	v.DELETE("/vacations/:id/like", d.Vacations.Unlike, manage("home", guard.ActionLikeVacation)...)

	// the role check runs before the cache: cached entries are shared by
	// every principal allowed through
	v.GET("/statistics", d.Stats.Dashboard,
		middleware.RequireSession(d.Sessions, d.Guard, "statistics"),
		middleware.RequireAction(d.Sessions, guard.ActionViewStatistics),
		middleware.NewRedisCache(d.Cache, d.Redis, d.Logger),
	)
}
