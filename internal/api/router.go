package api

import (
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	_ "github.com/whiskerworks/cats-api/internal/api/docs"
	"github.com/whiskerworks/cats-api/internal/api/handler"
	"github.com/whiskerworks/cats-api/internal/api/metrics"
	"github.com/whiskerworks/cats-api/internal/api/middleware"
	"github.com/whiskerworks/cats-api/internal/core/ports"
)

const defaultLoginRate = 5

// Dependencies is everything the HTTP layer needs. Mongo and Redis are only
// used by the readiness probe and may be nil.
type Dependencies struct {
	Users  ports.UserService
	Cats   ports.CatService
	Tokens ports.TokenVerifier
	Mongo  *mongo.Database
	Redis  *redis.Client
	Logger zerolog.Logger

	// CacheBreaker reports the user cache breaker on /health/ready. Nil when
	// the cache is disabled.
	CacheBreaker handler.BreakerReporter

	// TrustedProxies lists the CIDRs allowed to set X-Forwarded-For. When
	// empty the client IP is the socket peer and forwarding headers are
	// ignored.
	TrustedProxies []string

	// LoginRate is the sustained number of login attempts per second allowed
	// per client IP. Zero means the default.
	LoginRate float64
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.IPExtractor = ipExtractor(deps.TrustedProxies, deps.Logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := metrics.Register(registry); err != nil {
		deps.Logger.Error().Err(err).Msg("failed to register metrics")
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "cats_api",
		Registerer: registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	userHandler := handler.NewUserHandler(deps.Users)
	catHandler := handler.NewCatHandler(deps.Cats)
	auth := middleware.Auth(deps.Tokens)

	// --- Probes, docs and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis, deps.CacheBreaker)

	e.GET("/", healthHandler.Index)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: registry}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/auth/login", userHandler.Login, loginRateLimiter(deps.LoginRate))

	// --- User routes ---
	users := e.Group("/users")
	users.GET("", userHandler.List)
	users.POST("", userHandler.Register)
	users.GET("/check-token", userHandler.CheckToken, auth)
	users.GET("/token", userHandler.CheckToken, auth)
	users.GET("/:id", userHandler.Get)
	users.PUT("", userHandler.Update, auth)
	users.DELETE("", userHandler.Delete, auth)

	// --- Cat routes ---
	cats := e.Group("/cats")
	cats.GET("", catHandler.List)
	cats.GET("/area", catHandler.ListInArea)
	cats.GET("/by-bbox", catHandler.ListInArea)
	cats.GET("/user", catHandler.ListMine, auth)
	cats.GET("/by-user", catHandler.ListMine, auth)
	cats.GET("/:id", catHandler.Get)
	cats.POST("", catHandler.Create, auth)
	cats.PUT("/:id", catHandler.Update, auth)
	cats.DELETE("/:id", catHandler.Delete, auth)

	return e
}

// ipExtractor decides what c.RealIP returns. Forwarding headers are only
// honoured when the peer is one of the trusted proxies.
func ipExtractor(trusted []string, log zerolog.Logger) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trusted {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			log.Warn().Err(err).Str("cidr", cidr).Msg("ignoring invalid trusted proxy")
			continue
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// loginRateLimiter throttles login attempts per client IP.
func loginRateLimiter(perSecond float64) echo.MiddlewareFunc {
	if perSecond <= 0 {
		perSecond = defaultLoginRate
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}

	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
		},
	})
}

// requestLogger emits one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				evt = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				evt = log.Warn()
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
