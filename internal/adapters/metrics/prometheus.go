package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements services.Observer.
type Prometheus struct {
	operations      *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
}

func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)

	return &Prometheus{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kanso_store_operations_total",
			Help: "Store operations applied, by operation",
		}, []string{"operation"}),
		persistFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kanso_store_persist_failures_total",
			Help: "Failed writes to durable storage, by collection key",
		}, []string{"key"}),
	}
}

func (p *Prometheus) OperationApplied(op string) {
	p.operations.WithLabelValues(op).Inc()
}

func (p *Prometheus) PersistFailed(key string, _ error) {
	p.persistFailures.WithLabelValues(key).Inc()
}
