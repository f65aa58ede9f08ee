package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		subscriptionsUpserted,
		subscriptionsExpired,
	)
}

var (
	subscriptionsUpserted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscriptions_upserted_total",
			Help: "Subscription records upserted from provider events, by status.",
		},
		[]string{"status"},
	)

	subscriptionsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_expired_total",
			Help: "Subscriptions deactivated by the expiry worker.",
		},
	)
)

func IncSubscriptionUpserted(status string) {
	subscriptionsUpserted.WithLabelValues(norm(status)).Inc()
}

func IncSubscriptionsExpired(n int64) {
	subscriptionsExpired.Add(float64(n))
}
