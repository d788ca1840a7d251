package router

import (
	"net/http"
	"net/url"
	"os"
	"strings"

	docs "github.com/grantflow/backend/api"
	"github.com/grantflow/backend/internal/auth"
	"github.com/grantflow/backend/internal/controllers/healthz"
	v1 "github.com/grantflow/backend/internal/controllers/v1"
	"github.com/grantflow/backend/internal/httputil"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// This is set at build time with ldflags.
var version = "0.0.0"

// Config sets up the gin engine with all middlewares. The returned
// teardown function unregisters the Prometheus collectors so another
// engine can be configured, which tests rely on.
func Config(url *url.URL) (*gin.Engine, func(), error) {
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(URLMiddleware(url))
	r.Use(MetricsMiddleware())
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "This HTTP method is not allowed for the endpoint you called"})
	})
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, logger zerolog.Logger) zerolog.Logger {
			return logger.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// CORS settings
	allowOrigins, ok := os.LookupEnv("CORS_ALLOW_ORIGINS")
	if ok {
		log.Debug().Str("CORS Allowed Origins", allowOrigins).Msg("Router")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Fields(allowOrigins),
			AllowMethods:     []string{"OPTIONS", "GET", "POST"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	err := registerPrometheusMetrics()
	if err != nil {
		return nil, func() {}, err
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	log.Info().Str("version", version).Msg("Router")

	docs.SwaggerInfo.Host = url.Host
	docs.SwaggerInfo.BasePath = url.Path
	docs.SwaggerInfo.Title = "Grantflow"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Description = "The backend for the grants council's application lifecycle tracker."

	return r, func() { unregisterPrometheusMetrics() }, nil
}

// AttachRoutes attaches the API routes to the router group that is
// passed in. Separating this from Config() allows attaching the routes
// to different paths for different use cases.
func AttachRoutes(group *gin.RouterGroup) {
	group.GET("", GetRoot)
	group.GET("/version", GetVersion)
	group.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// pprof performance profiles
	enablePprof, ok := os.LookupEnv("ENABLE_PPROF")
	if ok && enablePprof == "true" {
		pprof.RouteRegister(group, "debug/pprof")
	}

	group.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	healthz.RegisterRoutes(group.Group("/healthz"))

	// Applicant facing endpoints, gated by the shared security key
	v1.RegisterApplicantRoutes(group)
	group.GET("/v1/grants/:grantID/status", v1.GetGrantStatus)

	api := group.Group("/v1")

	api.OPTIONS("/auth/login", httputil.OptionsPost)
	api.POST("/auth/login", v1.Login)

	// Everything below requires a staff token
	secured := api.Group("", auth.Middleware(auth.Secret()))

	grants := secured.Group("/grants")
	v1.RegisterGrantRoutes(grants)
	v1.RegisterReviewRoutes(grants.Group("", auth.RequireAdmin()))

	v1.RegisterPackRoutes(secured.Group("/grants-packs", auth.RequireAdmin()))
	v1.RegisterTreasurerRoutes(secured.Group("/treasurer", auth.RequireTreasurer()))

	secured.OPTIONS("/export", httputil.OptionsGet)
	secured.GET("/export", auth.RequireAdmin(), v1.ExportGrants)
	secured.OPTIONS("/auth/users", httputil.OptionsPost)
	secured.POST("/auth/users", auth.RequireAdmin(), v1.CreateUser)
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Docs    string `json:"docs" example:"https://example.com/api/docs/index.html"` // Swagger API documentation
	Healthz string `json:"healthz" example:"https://example.com/api/healthz"`      // Application health
	Version string `json:"version" example:"https://example.com/api/version"`     // Endpoint returning the version of the backend
	Grants  string `json:"grants" example:"https://example.com/api/v1/grants"`    // Grant record list endpoint
}

// GetRoot returns the link list for the API root
//
//	@Summary		API root
//	@Description	Entrypoint for the API, listing all endpoints
//	@Tags			General
//	@Success		200	{object}	RootResponse
//	@Router			/ [get]
func GetRoot(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Docs:    c.GetString(contextURL) + "/docs/index.html",
			Healthz: c.GetString(contextURL) + "/healthz",
			Version: c.GetString(contextURL) + "/version",
			Grants:  c.GetString(contextURL) + "/v1/grants",
		},
	})
}

type VersionResponse struct {
	Data VersionObject `json:"data"` // Data object for the version endpoint
}
type VersionObject struct {
	Version string `json:"version" example:"1.1.0"` // the running version of the backend
}

// GetVersion returns the API version object
//
//	@Summary		API version
//	@Description	Returns the software version of the API
//	@Tags			General
//	@Success		200	{object}	VersionResponse
//	@Router			/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}
