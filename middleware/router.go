package middleware

import (
	"net"
	"net/http"

	"go.uber.org/zap"

	cavaauth "github.com/thiagomes07/cava-auth"
	"github.com/thiagomes07/cava-auth/routes"
	"github.com/thiagomes07/cava-auth/token"
)

// Cookies is the request-time routing input: the raw values of the session,
// role, and industry-slug cookies. Missing cookies are empty strings.
//
// Cookies instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Cookies struct {
	Token string
	Role  string
	Slug  string
}

// Router decides where to send a navigation based on cookies alone. It runs
// before any protected content exists and never touches the session store.
//
// Router instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Router struct {
	cookies cavaauth.CookieConfig
	locales routes.Locales
	metrics *cavaauth.Metrics
	logger  *zap.Logger
}

// NewRouter builds a Router sharing the store's cookie names, locale policy,
// and metrics. logger may be nil.
func NewRouter(store *cavaauth.Store, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		cookies: store.Cookies(),
		locales: store.Locales(),
		metrics: store.Metrics(),
		logger:  logger,
	}
}

// Decide returns the redirect target for the given cookies and locale. It is
// a pure function of its inputs:
//
//  1. Missing or expired token → landing.
//  2. SUPER_ADMIN → admin root; industry roles with a slug → the tenant
//     dashboard; BROKER → dashboard.
//  3. Any other combination, including an industry role without a slug,
//     fails safe to landing.
//
// The default locale contributes no path segment.
func (rt *Router) Decide(c Cookies, locale string) string {
	if c.Token == "" || token.IsExpired(c.Token) {
		return rt.locales.Localize(locale, routes.PathLanding)
	}

	switch c.Role {
	case routes.RoleSuperAdmin:
		return rt.locales.Localize(locale, routes.PathAdmin)
	case routes.RoleAdminIndustria, routes.RoleVendedorInterno:
		if c.Slug == "" {
			return rt.locales.Localize(locale, routes.PathLanding)
		}
		return rt.locales.Localize(locale, "/"+c.Slug+routes.PathDashboard)
	case routes.RoleBroker:
		return rt.locales.Localize(locale, routes.PathDashboard)
	default:
		return rt.locales.Localize(locale, routes.PathLanding)
	}
}

// ReadCookies extracts the three routing cookies from a request.
func (rt *Router) ReadCookies(r *http.Request) Cookies {
	return Cookies{
		Token: cookieValue(r, rt.cookies.AccessToken),
		Role:  cookieValue(r, rt.cookies.UserRole),
		Slug:  cookieValue(r, rt.cookies.IndustrySlug),
	}
}

// RedirectHandler returns a handler that 302s every request to its Decide
// target. Mount it on the entry route.
func (rt *Router) RedirectHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookies := rt.ReadCookies(r)
		locale, _ := rt.locales.Split(r.URL.Path)

		target := rt.Decide(cookies, locale)
		rt.metrics.Inc(cavaauth.MetricRedirectIssued)
		rt.logger.Debug("route decision",
			zap.String("role", cookies.Role),
			zap.String("locale", locale),
			zap.String("target", target),
		)

		http.Redirect(w, r, target, http.StatusFound)
	})
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
