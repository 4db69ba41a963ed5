package schemacheck

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type validatorMetrics struct {
	validations *prometheus.CounterVec
	findings    *prometheus.CounterVec
}

func newValidatorMetrics(reg prometheus.Registerer) *validatorMetrics {
	if reg == nil {
		return nil
	}
	return &validatorMetrics{
		validations: registerCounterVec(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "schemacheck",
				Name:      "validations_total",
				Help:      "Total number of index schema validations by result",
			},
			[]string{"result"},
		)),
		findings: registerCounterVec(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "schemacheck",
				Name:      "findings_total",
				Help:      "Total number of schema validation findings by kind",
			},
			[]string{"kind"},
		)),
	}
}

// registerCounterVec registers c, or returns the collector already
// registered under the same name.
func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *validatorMetrics) observe(groups []FindingGroup) {
	if m == nil {
		return
	}
	if len(groups) == 0 {
		m.validations.WithLabelValues("success").Inc()
		return
	}
	m.validations.WithLabelValues("failure").Inc()
	for _, g := range groups {
		for _, kind := range g.Kinds {
			m.findings.WithLabelValues(kind.String()).Inc()
		}
	}
}
