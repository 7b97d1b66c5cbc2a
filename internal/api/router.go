package api

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/unrolled/secure"

	"github.com/rbac-admin/rbac-api/internal/api/handler"
	"github.com/rbac-admin/rbac-api/internal/api/metrics"
	"github.com/rbac-admin/rbac-api/internal/api/middleware"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
	_ "github.com/rbac-admin/rbac-api/internal/docs"
)

const loginRateWindow = time.Minute

// Deps carries everything the router wires into handlers and guards.
type Deps struct {
	Log      zerolog.Logger
	State    ports.DocumentState
	Resolver ports.PrincipalResolver
	Auth     ports.AuthService
	Users    ports.UserService
	Roles    ports.RoleService
	// Health maps dependency names to readiness probes.
	Health map[string]ports.Pinger

	ManagementRoles []string
	LoginRateLimit  int
	CORSOrigins     []string
	Production      bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// @title        RBAC API
// @version      1.0
// @description  Hierarchical role-based access control for users and roles.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echo.WrapMiddleware(secureHeaders(d.Production).Handler))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions, http.MethodPatch},
		AllowHeaders: []string{
			echo.HeaderContentType,
			echo.HeaderAuthorization,
			echo.HeaderContentLength,
			"X-Requested-With",
			middleware.HeaderUserID,
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)
	roleHandler := handler.NewRoleHandler(d.Roles)
	healthHandler := handler.NewHealthHandler(d.Health)

	auth := middleware.Auth(d.Resolver)
	management := middleware.RequireRole(d.ManagementRoles...)
	userAccess := middleware.RequireUserAccess(d.State)
	loginLimiter := echo.WrapMiddleware(loginRateLimiter(d.LoginRateLimit))

	// --- Unauthenticated endpoints ---
	e.GET("/", handler.Root)
	e.GET("/health", healthHandler.Liveness)        // liveness: is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Every API route answers with and without the /api prefix.
	for _, prefix := range []string{"", "/api"} {
		g := e.Group(prefix)

		// --- Auth routes ---
		g.POST("/auth/login", authHandler.Login, loginLimiter)
		g.POST("/auth/logout", authHandler.Logout, auth)
		g.POST("/auth/refresh", authHandler.Refresh, auth)
		g.GET("/profile", authHandler.Profile, auth)

		// --- Users ---
		g.GET("/users", userHandler.List, auth, management)
		g.GET("/users/check-username/:username", userHandler.CheckUsername, auth, management)
		g.GET("/users/:id", userHandler.Get, auth, userAccess)
		g.POST("/users", userHandler.Create, auth, management)
		g.PUT("/users/:id", userHandler.Update, auth, userAccess)
		g.DELETE("/users/:id", userHandler.Delete, auth, management)

		// --- Roles and permissions ---
		g.GET("/roles", roleHandler.List, auth, management)
		g.GET("/roles/:id", roleHandler.Get, auth, management, middleware.RequirePermission("VIEW_ROLES"))
		g.POST("/roles", roleHandler.Create, auth, management)
		g.PUT("/roles/:id", roleHandler.Update, auth, management)
		g.DELETE("/roles/:id", roleHandler.Delete, auth, management)
		g.GET("/permissions", roleHandler.Permissions, auth)
	}

	return e
}

func secureHeaders(production bool) *secure.Secure {
	return secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        production,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
	})
}

// loginRateLimiter limits login attempts per client IP. A non-positive limit
// disables it.
func loginRateLimiter(limit int) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(limit, loginRateWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.LoginAttemptsTotal.WithLabelValues("rate_limited").Inc()
			w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"message":"Too many login attempts. Please try again later."}` + "\n"))
		}),
	)
}
