package handlers

import (
	"errors"
	"net/http"
	"slices"

	"go.uber.org/zap"

	"savefood/backend"
	"savefood/metrics"
)

const (
	msgLoginForOrders = "Please log in to view your orders."
	msgOrdersFailed   = "Failed to fetch orders"
)

// OrdersPage lists the user's orders, optionally filtered by ?status=.
func (a *App) OrdersPage(w http.ResponseWriter, r *http.Request) {
	data := a.pageData(r, "My orders")

	s, err := requireSession(r)
	if err != nil {
		data.Message = msgLoginForOrders
		a.render(w, "orders.html", data)
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" && !slices.Contains(OrderStatuses, status) {
		status = ""
	}
	data.Status = status

	orders, err := a.API.ListOrders(r.Context(), s.AccessToken, status)
	if err != nil {
		a.Logger.Error("Error fetching orders", zap.Error(err))
		metrics.BackendErrorsTotal.WithLabelValues("list_orders").Inc()

		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			a.dropSession(w, r, s)
			data.IsLoggedIn, data.UserEmail, data.CSRFtoken = false, "", ""
			data.Message = msgLoginForOrders
		} else {
			data.Message = msgOrdersFailed
		}
		a.render(w, "orders.html", data)
		return
	}

	data.Orders = orders
	a.render(w, "orders.html", data)
}
