package datalayer

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/example/ec-datalayer/internal/domain/ecommerce"
)

// Rejection reasons used as the "reason" label.
const (
	ReasonMissingIdentifier    = "missing_identifier"
	ReasonMissingTransactionID = "missing_transaction_id"
	ReasonInvalidDiscriminator = "invalid_discriminator"
	ReasonMalformedShape       = "malformed_shape"
	ReasonSchema               = "schema"
	ReasonOther                = "other"
)

// Metrics bundles the data layer collectors. A nil *Metrics records nothing.
type Metrics struct {
	Pushes   *prometheus.CounterVec
	Rejected *prometheus.CounterVec
	Dropped  prometheus.Counter
}

// NewMetrics registers the collectors on reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Pushes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "datalayer_pushes_total",
			Help: "Pushes accepted by the data layer",
		}, []string{"kind"}),
		Rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "datalayer_rejected_total",
			Help: "Pushes rejected by the data layer",
		}, []string{"reason"}),
		Dropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "datalayer_dropped_total",
			Help: "Oldest entries dropped to stay within the entry limit",
		}),
	}
}

func (m *Metrics) accepted(kind ecommerce.Kind) {
	if m == nil {
		return
	}
	m.Pushes.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) rejected(reason string) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) dropped(n int) {
	if m == nil || n == 0 {
		return
	}
	m.Dropped.Add(float64(n))
}

// rejectionReason maps a validation error to its metric label.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ecommerce.ErrMissingIdentifier):
		return ReasonMissingIdentifier
	case errors.Is(err, ecommerce.ErrMissingTransactionID):
		return ReasonMissingTransactionID
	case errors.Is(err, ecommerce.ErrInvalidDiscriminator):
		return ReasonInvalidDiscriminator
	case errors.Is(err, ecommerce.ErrMalformedShape):
		return ReasonMalformedShape
	default:
		return ReasonOther
	}
}
