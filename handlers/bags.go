package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"savefood/backend"
	"savefood/metrics"
	"savefood/models"
	"savefood/utils"
)

const msgOrderFailed = "Error placing order. Please try again."

// BagsPage renders the page shell. The list itself is pulled in by htmx
// from /bags/list once the page has loaded.
func (a *App) BagsPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, "bags.html", a.pageData(r, "Surprise bags"))
}

// BagsList fetches the active bags (with retries) and renders the cards.
func (a *App) BagsList(w http.ResponseWriter, r *http.Request) {
	var data models.BagsFragment
	if s := SessionFrom(r.Context()); s != nil {
		data.CSRFtoken = s.CSRFToken
	}

	bags, err := a.API.ListBags(r.Context())
	if err != nil {
		a.Logger.Error("Error fetching bags", zap.Error(err))
		metrics.BackendErrorsTotal.WithLabelValues("list_bags").Inc()
		data.Failed = true
	} else {
		data.Bags = bags
	}

	a.render(w, "fragments/bags-list.html", data)
}

// BuyBag places an order for one unit of the bag in the path.
func (a *App) BuyBag(w http.ResponseWriter, r *http.Request) {
	s, err := requireSession(r)
	if err != nil {
		a.Logger.Info("Purchase attempted without a session")
		redirect(w, r, loginURL(reasonPurchase))
		return
	}

	if err := utils.CheckCSRF(r, s); err != nil {
		a.Logger.Warn("Rejected purchase", zap.Error(err))
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	bagID, err := uuid.Parse(mux.Vars(r)["bagID"])
	if err != nil {
		http.Error(w, "Invalid bag ID", http.StatusBadRequest)
		return
	}

	order, err := a.API.CreateOrder(r.Context(), s.AccessToken, bagID, 1)
	if err != nil {
		a.Logger.Error("Error placing order", zap.Stringer("bag_id", bagID), zap.Error(err))
		metrics.BackendErrorsTotal.WithLabelValues("create_order").Inc()
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			a.dropSession(w, r, s)
			redirect(w, r, loginURL(reasonPurchase))
			return
		}
		a.renderAlert(w, "error", msgOrderFailed)
		return
	}
	metrics.OrdersPlacedTotal.Inc()
	a.Logger.Info("Order placed", zap.Stringer("order_id", order.ID), zap.Stringer("bag_id", bagID))

	a.notifyOrder(r.Context(), s.UserEmail, order)

	w.Header().Set("HX-Trigger", "bags-refresh")
	a.renderAlert(w, "success", fmt.Sprintf("Order placed successfully! Order ID: %s", order.ID))
}

func (a *App) notifyOrder(ctx context.Context, email string, order *models.Order) {
	if a.Notifier == nil || utils.ValidateEmail(email) != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := a.Notifier.OrderPlaced(ctx, email, order); err != nil {
		a.Logger.Warn("Error sending order confirmation", zap.Stringer("order_id", order.ID), zap.Error(err))
	}
}

// dropSession forgets a session whose access token the backend no longer accepts.
func (a *App) dropSession(w http.ResponseWriter, r *http.Request, s *models.Session) {
	if err := a.Sessions.Delete(r.Context(), s.SessionToken); err != nil {
		a.Logger.Warn("Error deleting session", zap.Error(err))
	}
	utils.ClearSessionCookies(w, a.CookieSecure)
}
