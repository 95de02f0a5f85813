package handler

import (
	"context"
	"crypto/subtle"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"auction-site/internal/auctionerrors"
	"auction-site/internal/forms"
	model "auction-site/internal/models"
	"auction-site/utils"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Route binds a named page to an HTTP method and path
type Route struct {
	Name    string
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

// UserFinder resolves login credentials
type UserFinder interface {
	FindUserByUsername(ctx context.Context, username string) (model.User, error)
}

// SessionIssuer sets and clears the login session cookie
type SessionIssuer interface {
	Issue(c *gin.Context, userID uint) error
	Clear(c *gin.Context)
}

// SiteHandler serves the server-rendered pages. Every endpoint except the
// register page renders index; login and logout only touch the session cookie.
type SiteHandler struct {
	users    UserFinder
	sessions SessionIssuer
}

func NewSiteHandler(users UserFinder, sessions SessionIssuer) *SiteHandler {
	return &SiteHandler{users: users, sessions: sessions}
}

// LoadTemplates parses the embedded page templates
func LoadTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// Routes returns the named endpoint table
func (h *SiteHandler) Routes() []Route {
	return []Route{
		{Name: "index", Method: http.MethodGet, Path: "/", Handler: h.Index},
		{Name: "bid_page", Method: http.MethodGet, Path: "/auction/:auction_id", Handler: h.Index},
		{Name: "comment", Method: http.MethodPost, Path: "/auction/:auction_id/comment", Handler: h.Index},
		{Name: "raise_bid", Method: http.MethodPost, Path: "/auction/:auction_id/raise", Handler: h.Index},
		{Name: "watchlist", Method: http.MethodPost, Path: "/watchlist/:auction_id", Handler: h.Index},
		{Name: "watchlist_page", Method: http.MethodGet, Path: "/watchlist", Handler: h.Index},
		{Name: "balance", Method: http.MethodGet, Path: "/balance", Handler: h.Index},
		{Name: "topup", Method: http.MethodPost, Path: "/balance/topup", Handler: h.Index},
		{Name: "register_page", Method: http.MethodGet, Path: "/register", Handler: h.RegisterPage},
		{Name: "register", Method: http.MethodPost, Path: "/register", Handler: h.Register},
		{Name: "login_page", Method: http.MethodGet, Path: "/login", Handler: h.Index},
		{Name: "login_page", Method: http.MethodPost, Path: "/login", Handler: h.Login},
		{Name: "logout_page", Method: http.MethodGet, Path: "/logout", Handler: h.Logout},
		{Name: "filter_auctions", Method: http.MethodGet, Path: "/category/:category", Handler: h.Index},
	}
}

// Index renders the auction listing
func (h *SiteHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"auctions":   []model.Auction{},
		"categories": model.Categories,
	})
}

// RegisterPage renders the registration form
func (h *SiteHandler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

// Register accepts a registration submission. The outcome is only logged.
func (h *SiteHandler) Register(c *gin.Context) {
	var form forms.RegistrationForm
	h.checkForm(c, "Register", &form, func() error { return form.Validate() })
	h.Index(c)
}

// Login accepts a login submission and starts a session when the credentials
// match a stored user. The index page is rendered either way.
func (h *SiteHandler) Login(c *gin.Context) {
	var form forms.LoginForm
	if h.checkForm(c, "Login", &form, func() error { return form.Validate() }) {
		h.startSession(c, form)
	}
	h.Index(c)
}

// Logout ends the session
func (h *SiteHandler) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	h.Index(c)
}

func (h *SiteHandler) startSession(c *gin.Context, form forms.LoginForm) {
	user, err := h.users.FindUserByUsername(c.Request.Context(), form.Username)
	if err != nil {
		if !errors.Is(err, auctionerrors.ErrRecordNotFound) {
			utils.Error("Login: user lookup failed", map[string]any{"error": err.Error()})
			return
		}
		utils.Info("Login: credentials rejected", map[string]any{"username": form.Username})
		return
	}
	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(form.Password)) != 1 {
		utils.Info("Login: credentials rejected", map[string]any{"username": form.Username})
		return
	}

	if err := h.sessions.Issue(c, user.ID); err != nil {
		utils.Error("Login: failed to issue session", map[string]any{"user_id": user.ID, "error": err.Error()})
		return
	}
	utils.Info("Login: session started", map[string]any{"user_id": user.ID})
}

func (h *SiteHandler) checkForm(c *gin.Context, handlerName string, form any, validate func() error) bool {
	if err := c.ShouldBind(form); err != nil {
		utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
		return false
	}
	if err := validate(); err != nil {
		utils.Info(handlerName+": form rejected", map[string]any{"error": err.Error()})
		return false
	}
	utils.Info(handlerName+": form accepted", nil)
	return true
}
