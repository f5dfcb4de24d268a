package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/authgate/internal/config"
	"github.com/templui/authgate/internal/ctxkeys"
	"github.com/templui/authgate/internal/middleware"
	"github.com/templui/authgate/internal/service"
	"github.com/templui/authgate/internal/ui"
	"github.com/templui/authgate/internal/ui/pages"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const (
	oauthStateCookie = "oauth_state"

	msgInvalidCredentials   = "Invalid credentials"
	msgVerificationRequired = "Please check your email to verify your account"
	msgRegistered           = "Account created. Log in to receive your verification email."
	msgGenericError         = "An error occurred. Please try again."
	msgOAuthFailed          = "OAuth authentication failed. Please try again."
)

// oauthProvider pairs an OAuth client config with the call that resolves the
// signed-in account's email.
type oauthProvider struct {
	config     *oauth2.Config
	fetchEmail func(ctx context.Context, client *http.Client) (string, error)
}

type AuthHandler struct {
	authService    *service.AuthService
	sessionService *service.SessionService
	providers      map[string]*oauthProvider
}

func NewAuthHandler(authService *service.AuthService, sessionService *service.SessionService, cfg *config.Config) *AuthHandler {
	providers := make(map[string]*oauthProvider)
	if cfg.GoogleEnabled() {
		providers["google"] = &oauthProvider{
			config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  cfg.AppURL + "/auth/google/callback",
				Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
				Endpoint:     google.Endpoint,
			},
			fetchEmail: googleEmail,
		}
	}
	if cfg.GitHubEnabled() {
		providers["github"] = &oauthProvider{
			config: &oauth2.Config{
				ClientID:     cfg.GitHubClientID,
				ClientSecret: cfg.GitHubClientSecret,
				RedirectURL:  cfg.AppURL + "/auth/github/callback",
				Scopes:       []string{"user:email"},
				Endpoint:     github.Endpoint,
			},
			fetchEmail: githubEmail,
		}
	}

	return &AuthHandler{
		authService:    authService,
		sessionService: sessionService,
		providers:      providers,
	}
}

func (h *AuthHandler) loginProps(props pages.LoginProps) pages.LoginProps {
	_, props.GoogleEnabled = h.providers["google"]
	_, props.GitHubEnabled = h.providers["github"]
	return props
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	props := pages.LoginProps{Verified: query.Get("verified") == "true"}
	if query.Get("registered") == "true" {
		props.Notice = msgRegistered
	}
	ui.Render(w, r, pages.Login(h.loginProps(props)))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	user, err := h.authService.Login(r.Context(), email, password)
	if err != nil {
		props := h.loginProps(pages.LoginProps{Email: email})

		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			if validationErr.Field == "email" {
				props.EmailError = validationErr.Message
			} else {
				props.PasswordError = validationErr.Message
			}
		case errors.Is(err, service.ErrNoUserFound), errors.Is(err, service.ErrIncorrectPassword):
			// Same message for both so the form does not reveal which accounts exist
			slog.Warn("password login failed", "error", err, "email", email)
			props.Error = msgInvalidCredentials
		case errors.Is(err, service.ErrVerificationRequired):
			props.Notice = msgVerificationRequired
		default:
			slog.Error("password login errored", "error", err, "email", email)
			props.Error = msgGenericError
		}

		ui.Render(w, r, pages.Login(props))
		return
	}

	err = h.sessionService.Start(w, user)
	if err != nil {
		slog.Error("failed to start session", "error", err, "user_id", user.ID)
		ui.Render(w, r, pages.Login(h.loginProps(pages.LoginProps{Email: email, Error: msgGenericError})))
		return
	}

	slog.Info("user logged in with password", "user_id", user.ID, "email", user.Email)
	http.Redirect(w, r, middleware.DashboardPath, http.StatusSeeOther)
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Register(pages.RegisterProps{}))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	_, err := h.authService.Register(r.Context(), email, password)
	if err != nil {
		props := pages.RegisterProps{Email: email}

		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			if validationErr.Field == "email" {
				props.EmailError = validationErr.Message
			} else {
				props.PasswordError = validationErr.Message
			}
		case errors.Is(err, service.ErrEmailAlreadyExists):
			props.Error = "An account with this email already exists"
		default:
			slog.Error("registration failed", "error", err, "email", email)
			props.Error = msgGenericError
		}

		ui.Render(w, r, pages.Register(props))
		return
	}

	http.Redirect(w, r, middleware.LoginPath+"?registered=true", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessionService.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// VerifyEmail consumes the token from an emailed link. Failures are plain-text 400s.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	_, err := h.authService.VerifyEmail(r.Context(), token)
	switch {
	case err == nil:
		http.Redirect(w, r, middleware.LoginPath+"?verified=true", http.StatusFound)
	case errors.Is(err, service.ErrTokenNotFound):
		http.Error(w, "Token not found", http.StatusBadRequest)
	case errors.Is(err, service.ErrTokenExpired):
		http.Error(w, "Token expired", http.StatusBadRequest)
	case errors.Is(err, service.ErrAlreadyVerified):
		http.Error(w, "Email already verified", http.StatusBadRequest)
	default:
		slog.Error("email verification failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// OAuthStart redirects to the provider's consent screen.
func (h *AuthHandler) OAuthStart(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.providers[r.PathValue("provider")]
	if !ok {
		http.NotFound(w, r)
		return
	}

	state := generateOAuthState()

	cfg := ctxkeys.Config(r.Context())
	isProduction := cfg != nil && cfg.IsProduction()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})

	http.Redirect(w, r, provider.config.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// OAuthCallback finishes the handshake and starts a session.
func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("provider")
	provider, ok := h.providers[name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		slog.Warn("oauth state validation failed", "provider", name, "error", err)
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.AuthError(msgOAuthFailed))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   oauthStateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("oauth callback missing code", "provider", name)
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.AuthError(msgOAuthFailed))
		return
	}

	ctx := r.Context()
	token, err := provider.config.Exchange(ctx, code)
	if err != nil {
		slog.Error("oauth token exchange failed", "provider", name, "error", err)
		ui.RenderStatus(w, r, http.StatusBadGateway, pages.AuthError(msgOAuthFailed))
		return
	}

	email, err := provider.fetchEmail(ctx, provider.config.Client(ctx, token))
	if err != nil {
		slog.Error("oauth email lookup failed", "provider", name, "error", err)
		ui.RenderStatus(w, r, http.StatusBadGateway, pages.AuthError(msgOAuthFailed))
		return
	}

	user, err := h.authService.AuthenticateOAuth(ctx, email, name)
	if err != nil {
		slog.Error("oauth authentication failed", "provider", name, "error", err, "email", email)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.AuthError("Authentication failed. Please try again."))
		return
	}

	err = h.sessionService.Start(w, user)
	if err != nil {
		slog.Error("failed to start session", "error", err, "user_id", user.ID)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.AuthError(msgGenericError))
		return
	}

	slog.Info("user logged in with oauth", "provider", name, "user_id", user.ID, "email", user.Email)
	http.Redirect(w, r, middleware.DashboardPath, http.StatusSeeOther)
}

func googleEmail(ctx context.Context, client *http.Client) (string, error) {
	var info struct {
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
	}
	err := getJSON(ctx, client, "https://www.googleapis.com/oauth2/v2/userinfo", &info)
	if err != nil {
		return "", err
	}
	if info.Email == "" || !info.VerifiedEmail {
		return "", errors.New("google account has no verified email")
	}
	return info.Email, nil
}

// githubEmail falls back to /user/emails when the profile email is private.
func githubEmail(ctx context.Context, client *http.Client) (string, error) {
	var info struct {
		Email string `json:"email"`
	}
	err := getJSON(ctx, client, "https://api.github.com/user", &info)
	if err != nil {
		return "", err
	}
	if info.Email != "" {
		return info.Email, nil
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	err = getJSON(ctx, client, "https://api.github.com/user/emails", &emails)
	if err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", errors.New("github account has no verified primary email")
}

func getJSON(ctx context.Context, client *http.Client, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// generateOAuthState creates a random state value for the OAuth CSRF check
func generateOAuthState() string {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		panic("failed to generate oauth state: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}
