package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		intentsTotal,
		purchasesTotal,
		purchasesRevenueTotal,
	)
}

var (
	intentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_intents_total",
			Help: "Payment intent creations by purchase kind and outcome (created/rejected/provider_error).",
		},
		[]string{"kind", "outcome"},
	)

	purchasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchases_total",
			Help: "Authoritative purchase records written, by purchase kind.",
		},
		[]string{"kind"},
	)

	purchasesRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchases_revenue_total",
			Help: "Total monetary value of recorded purchases in minor units, labeled by currency.",
		},
		[]string{"currency"},
	)
)

func IncIntent(kind, outcome string) {
	intentsTotal.WithLabelValues(norm(kind), norm(outcome)).Inc()
}

func IncPurchase(kind string) {
	purchasesTotal.WithLabelValues(norm(kind)).Inc()
}

func AddPurchaseRevenue(currency string, amountMinor int64) {
	purchasesRevenueTotal.WithLabelValues(norm(currency)).Add(float64(amountMinor))
}
