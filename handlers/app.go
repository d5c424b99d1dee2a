package handlers

//go:generate mockgen -source=app.go -destination=mocks/mock_app.go -package=mocks

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"savefood/models"
	"savefood/ui"
	"savefood/utils"
)

// API is the part of the backend client the handlers use.
type API interface {
	ListBags(ctx context.Context) ([]models.Bag, error)
	CreateOrder(ctx context.Context, accessToken string, bagID uuid.UUID, quantity int) (*models.Order, error)
	ListOrders(ctx context.Context, accessToken, status string) ([]models.Order, error)
	Login(ctx context.Context, creds models.Credentials) (*models.Token, error)
	RecommendTags(ctx context.Context, req models.TagRequest) ([]string, error)
}

// Notifier is told about orders placed through the site.
type Notifier interface {
	OrderPlaced(ctx context.Context, email string, order *models.Order) error
}

type App struct {
	API          API
	Sessions     utils.SessionStore
	Templates    *TemplateCache
	Notifier     Notifier
	Logger       *zap.Logger
	SessionTTL   time.Duration
	CookieSecure bool
}

func (a *App) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(a.LoggingMiddleware, SecurityHeadersMiddleware, a.SessionMiddleware)

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(ui.Static()))))

	r.HandleFunc("/", a.BagsPage).Methods(http.MethodGet)
	r.HandleFunc("/bags/list", a.BagsList).Methods(http.MethodGet)
	r.HandleFunc("/buy/{bagID}", a.BuyBag).Methods(http.MethodPost)

	r.HandleFunc("/orders", a.OrdersPage).Methods(http.MethodGet)

	r.HandleFunc("/login", a.LoginPage).Methods(http.MethodGet)
	r.HandleFunc("/login", a.LoginSubmit).Methods(http.MethodPost)
	r.HandleFunc("/logout", a.Logout).Methods(http.MethodPost)

	r.HandleFunc("/tags", a.TagsPage).Methods(http.MethodGet)
	r.HandleFunc("/tags/recommend", a.RecommendTags).Methods(http.MethodPost)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	return r
}

// pageData fills the header fields every full page needs.
func (a *App) pageData(r *http.Request, title string) models.PageData {
	data := models.PageData{Title: title}
	if s := SessionFrom(r.Context()); s.LoggedIn() {
		data.IsLoggedIn = true
		data.UserEmail = s.UserEmail
		data.CSRFtoken = s.CSRFToken
	}
	return data
}

func (a *App) render(w http.ResponseWriter, name string, data any) {
	if err := a.Templates.Render(w, http.StatusOK, name, data); err != nil {
		a.Logger.Error("Error rendering template", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

type alert struct {
	Kind    string
	Message string
}

func (a *App) renderAlert(w http.ResponseWriter, kind, message string) {
	a.render(w, "fragments/alert.html", alert{Kind: kind, Message: message})
}

// writeInline answers an htmx form with a bare line of text, swapped into
// the form's message slot.
func writeInline(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, html.EscapeString(msg))
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// redirect sends htmx requests to url through HX-Redirect and everything
// else through a 303.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
