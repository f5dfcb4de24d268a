package routes

import (
	"net/http"

	"github.com/templui/authgate/assets"
	"github.com/templui/authgate/internal/app"
	"github.com/templui/authgate/internal/handler"
	"github.com/templui/authgate/internal/middleware"
	"github.com/templui/authgate/internal/model"
)

// SetupRoutes builds the router. The returned stop func ends the rate
// limiter's cleanup goroutine.
func SetupRoutes(app *app.App) (http.Handler, func()) {
	// Handlers
	home := handler.NewHomeHandler()
	auth := handler.NewAuthHandler(app.AuthService, app.SessionService, app.Cfg)
	dashboard := handler.NewDashboardHandler()

	rateLimiter := middleware.RateLimitAuth(app.Cfg.TrustProxyHeaders)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Static files
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(assets.AssetsFS)))

	// Home
	mux.HandleFunc("GET /{$}", home.HomePage)

	// Credentials
	mux.HandleFunc("GET /login", middleware.RequireGuest(auth.LoginPage))
	mux.HandleFunc("POST /login", rateLimiter.Limit(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("GET /register", middleware.RequireGuest(auth.RegisterPage))
	mux.HandleFunc("POST /register", rateLimiter.Limit(middleware.RequireGuest(auth.Register)))

	// Email verification link
	mux.HandleFunc("GET /api/auth/verify-email", auth.VerifyEmail)

	// OAuth and logout
	mux.HandleFunc("GET /auth/{provider}", middleware.RequireGuest(auth.OAuthStart))
	mux.HandleFunc("GET /auth/{provider}/callback", auth.OAuthCallback)
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	mux.HandleFunc("GET /dashboard", dashboard.DashboardPage)
	mux.HandleFunc("GET /admin", middleware.RequireRole(model.RoleAdmin, dashboard.NotAdminPage, dashboard.AdminPage))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.NonceMiddleware, // before SecurityHeaders, which reads the nonce
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.SessionService, app.UserService),
		middleware.RouteGuard,
		middleware.WithURLPath,
	)

	return handler, rateLimiter.Stop
}
