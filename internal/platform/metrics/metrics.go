package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	AuthAttempts    *prometheus.CounterVec
	SessionTimeouts prometheus.Counter
	EmailsSent      *prometheus.CounterVec
	CartSyncs       *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		AuthAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shopfolio_auth_attempts_total",
			Help: "Authentication attempts partitioned by operation and outcome",
		}, []string{"operation", "outcome"}),
		SessionTimeouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shopfolio_session_timeouts_total",
			Help: "Sessions ended by the inactivity timer",
		}),
		EmailsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shopfolio_emails_sent_total",
			Help: "Transactional emails dispatched partitioned by provider and outcome",
		}, []string{"provider", "outcome"}),
		CartSyncs: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shopfolio_cart_syncs_total",
			Help: "Remote cart mirror writes partitioned by outcome",
		}, []string{"outcome"}),
	}
}

// NewForTest creates metrics on a private registry so parallel tests do not
// collide on the default registerer.
func NewForTest() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		AuthAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shopfolio_auth_attempts_total",
			Help: "Authentication attempts partitioned by operation and outcome",
		}, []string{"operation", "outcome"}),
		SessionTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopfolio_session_timeouts_total",
			Help: "Sessions ended by the inactivity timer",
		}),
		EmailsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shopfolio_emails_sent_total",
			Help: "Transactional emails dispatched partitioned by provider and outcome",
		}, []string{"provider", "outcome"}),
		CartSyncs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shopfolio_cart_syncs_total",
			Help: "Remote cart mirror writes partitioned by outcome",
		}, []string{"outcome"}),
	}
}
