package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// BasketOpsTotal counts basket mutation outcomes by operation.
	BasketOpsTotal *prometheus.CounterVec
	// BasketItemsAdded counts line items merged into baskets.
	BasketItemsAdded prometheus.Counter
	// BasketTotalsComputed counts pricing engine invocations by variant.
	BasketTotalsComputed *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		BasketOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "basket_operations_total",
			Help:      "Count of basket operation outcomes.",
		}, []string{"operation", "result"})
		BasketItemsAdded = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "basket_items_added_total",
			Help:      "Number of line items merged into baskets.",
		})
		BasketTotalsComputed = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "basket_totals_computed_total",
			Help:      "Count of basket total calculations by VAT variant.",
		}, []string{"variant"})

		mustRegisterCollector(reg, BasketOpsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				BasketOpsTotal = v
			}
		})
		mustRegisterCollector(reg, BasketItemsAdded, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				BasketItemsAdded = v
			}
		})
		mustRegisterCollector(reg, BasketTotalsComputed, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				BasketTotalsComputed = v
			}
		})
	})
}
