// The cava-gateway binary serves the session edge of the CAVA platform: it
// establishes server-side sessions on login, answers the root redirect, and
// guards the role surfaces (/admin, /dashboard, /{slug}/dashboard).
//
// Configuration comes from the environment (optionally a .env file):
//
//	LISTEN_ADDR    listen address (default :8080)
//	REDIS_ADDR     redis address; empty starts an embedded miniredis
//	SESSION_PREFIX redis key prefix (default cs)
//	SESSION_TTL    server-side session TTL (default 168h)
//	TOKEN_SECRET   HMAC key for the access_token JWT (required outside dev)
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	cavaauth "github.com/thiagomes07/cava-auth"
	"github.com/thiagomes07/cava-auth/metrics/export/prometheus"
	authmw "github.com/thiagomes07/cava-auth/middleware"
	"github.com/thiagomes07/cava-auth/routes"
	"github.com/thiagomes07/cava-auth/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	addr := envOr("LISTEN_ADDR", ":8080")
	prefix := envOr("SESSION_PREFIX", "cs")
	ttl := envDuration("SESSION_TTL", 7*24*time.Hour)

	secret := os.Getenv("TOKEN_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
		logger.Warn("TOKEN_SECRET not set, using the development key")
	}
	tokens := tokenMinter{secret: []byte(secret), ttl: ttl}

	client, cleanup, err := connectRedis(logger)
	if err != nil {
		logger.Fatal("redis connect failed", zap.Error(err))
	}
	defer cleanup()

	sessions := session.NewStore(client, prefix)
	authClient := cavaauth.NewRedisAuthClient(sessions, ttl)

	store, err := cavaauth.New().
		WithAuthClient(authClient).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		WithAuditSink(cavaauth.NewJSONWriterSink(os.Stdout)).
		Build()
	if err != nil {
		logger.Fatal("store build failed", zap.Error(err))
	}
	defer store.Close()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())

	registerRoutes(e, store, authClient, tokens, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("gateway listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	logger.Info("gateway stopped")
}

func registerRoutes(e *echo.Echo, store *cavaauth.Store, authClient *cavaauth.RedisAuthClient, tokens tokenMinter, logger *zap.Logger) {
	cookies := store.Cookies()
	router := authmw.NewRouter(store, logger)

	e.POST("/auth/login", loginHandler(store, authClient, tokens, cookies))
	e.POST("/auth/logout", logoutHandler(store, cookies))
	e.GET("/metrics", echo.WrapHandler(prometheus.NewPrometheusExporter(store).Handler()))

	// Root requests are resolved from cookies alone, no session round-trip.
	rootRedirect := echo.WrapHandler(router.RedirectHandler())
	e.GET("/", rootRedirect)
	e.GET("/:locale", rootRedirect)

	e.GET(routes.PathLanding, page("landing"))
	e.GET(routes.PathLogin, page("login"))

	adminGuard := authmw.NewGuard(store, logger, cavaauth.RoleSuperAdmin)
	e.GET("/admin*", echo.WrapHandler(adminGuard.Protect(pageHandler("admin console"))))

	dashboardGuard := authmw.NewGuard(store, logger,
		cavaauth.RoleAdminIndustria,
		cavaauth.RoleVendedorInterno,
		cavaauth.RoleBroker,
	)
	dashboard := echo.WrapHandler(dashboardGuard.Protect(pageHandler("dashboard")))
	e.GET("/dashboard*", dashboard)
	e.GET("/:slug/dashboard*", dashboard)
	e.GET("/:locale/:slug/dashboard*", dashboard)
}

type loginRequest struct {
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
	IndustrySlug string `json:"industry_slug"`
}

func loginHandler(store *cavaauth.Store, authClient *cavaauth.RedisAuthClient, tokens tokenMinter, cookies cavaauth.CookieConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req loginRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}

		user := cavaauth.User{
			ID:           req.UserID,
			Role:         cavaauth.Role(req.Role),
			IndustrySlug: req.IndustrySlug,
		}

		ctx := cavaauth.WithClientIP(c.Request().Context(), c.RealIP())
		sid, err := authClient.Establish(ctx, user)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}

		// The access_token cookie must carry an expiry the request-time
		// router can inspect, so it is a JWT bound to the session record
		// through its subject, not the raw session ID.
		accessToken, err := tokens.mint(sid)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "token mint failed")
		}

		if err := store.Login(cavaauth.WithSessionID(ctx, sid), user); err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}

		setSessionCookies(c, cookies, accessToken, user)
		return c.JSON(http.StatusOK, map[string]string{
			"session_id": sid,
			"redirect":   routes.DefaultRouteFor(string(user.Role)),
		})
	}
}

func logoutHandler(store *cavaauth.Store, cookies cavaauth.CookieConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := cavaauth.WithClientIP(c.Request().Context(), c.RealIP())
		if cookie, err := c.Cookie(cookies.AccessToken); err == nil && cookie.Value != "" {
			ctx = cavaauth.WithSessionID(ctx, cookie.Value)
		}
		store.Logout(ctx)

		clearSessionCookies(c, cookies)
		return c.NoContent(http.StatusNoContent)
	}
}

// tokenMinter issues the access_token JWT: subject names the session record,
// expiry mirrors the record's TTL.
type tokenMinter struct {
	secret []byte
	ttl    time.Duration
}

func (m tokenMinter) mint(sid string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   sid,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func setSessionCookies(c echo.Context, cookies cavaauth.CookieConfig, accessToken string, user cavaauth.User) {
	secure := c.Request().TLS != nil
	set := func(name, value string, httpOnly bool) {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			HttpOnly: httpOnly,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	set(cookies.AccessToken, accessToken, true)
	set(cookies.UserRole, string(user.Role), false)
	if user.IndustrySlug != "" {
		set(cookies.IndustrySlug, user.IndustrySlug, false)
	}
}

func clearSessionCookies(c echo.Context, cookies cavaauth.CookieConfig) {
	for _, name := range []string{cookies.AccessToken, cookies.UserRole, cookies.IndustrySlug} {
		c.SetCookie(&http.Cookie{
			Name:   name,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}
}

func page(body string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, body)
	}
}

func pageHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	})
}

func connectRedis(logger *zap.Logger) (redis.UniversalClient, func(), error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
		logger.Info("using embedded miniredis", zap.String("addr", mr.Addr()))
		return client, func() {
			_ = client.Close()
			mr.Close()
		}, nil
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	logger.Info("using redis", zap.String("addr", addr))
	return client, func() { _ = client.Close() }, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
