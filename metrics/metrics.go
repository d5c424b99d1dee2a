package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BagFetchAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "savefood_bag_fetch_attempts_total",
		Help: "Bag list fetch attempts against the backend by outcome (success, failure), plus fetches cancelled between attempts.",
	},
		[]string{"outcome"},
	)

	BagFetchStatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "savefood_bag_fetch_states_total",
		Help: "State transitions of the bag list loader.",
	},
		[]string{"state"},
	)

	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "savefood_orders_placed_total",
		Help: "Total number of orders successfully placed through the frontend.",
	})

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "savefood_logins_total",
		Help: "Login submissions, by result.",
	},
		[]string{"result"},
	)

	TagRecommendationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "savefood_tag_recommendations_total",
		Help: "Total number of successful tag recommendation requests.",
	})

	BackendErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "savefood_backend_errors_total",
		Help: "Errors returned by backend calls, by operation.",
	},
		[]string{"operation"},
	)
)
