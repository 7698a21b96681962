package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChatRequests counts proxied chat requests by outcome
	// ("ok", "validation_error", "unavailable").
	ChatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coinchat_chat_requests_total",
		Help: "Chat proxy requests by outcome.",
	}, []string{"outcome"})

	// CompletionAttempts counts individual upstream completion calls,
	// retries included.
	CompletionAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coinchat_completion_attempts_total",
		Help: "Upstream completion attempts, including retries.",
	})

	// PriceRefreshes counts price cache refresh cycles by result
	// ("ok", "error", "incomplete").
	PriceRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coinchat_price_refreshes_total",
		Help: "Price cache refresh results.",
	}, []string{"result"})
)
