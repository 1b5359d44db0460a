package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements ports.MetricsCollector using Prometheus.
type Collector struct {
	unitExecutions *prometheus.CounterVec
	unitDuration   *prometheus.HistogramVec
	unitHealthy    *prometheus.GaugeVec

	plansExecuted *prometheus.CounterVec
	planDuration  *prometheus.HistogramVec

	stepsExecuted *prometheus.CounterVec
	stepDuration  *prometheus.HistogramVec

	agentsRegistered prometheus.Gauge
	agentsAvailable  prometheus.Gauge
}

// NewCollector creates a new Prometheus metrics collector.
func NewCollector() *Collector {
	return &Collector{
		unitExecutions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weft_unit_executions_total",
				Help: "Total number of unit executions",
			},
			[]string{"unit", "status"},
		),
		unitDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weft_unit_duration_seconds",
				Help:    "Unit execution duration in seconds",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"unit"},
		),
		unitHealthy: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "weft_unit_healthy",
				Help: "Whether a unit is currently healthy (1) or degraded (0)",
			},
			[]string{"unit"},
		),
		plansExecuted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weft_plans_executed_total",
				Help: "Total number of plans executed",
			},
			[]string{"status"},
		),
		planDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weft_plan_duration_seconds",
				Help:    "Plan execution duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
			},
			[]string{},
		),
		stepsExecuted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weft_steps_executed_total",
				Help: "Total number of plan steps executed",
			},
			[]string{"status"},
		),
		stepDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weft_step_duration_seconds",
				Help:    "Plan step execution duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{},
		),
		agentsRegistered: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "weft_agents_registered",
				Help: "Number of registered execution agents",
			},
		),
		agentsAvailable: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "weft_agents_available",
				Help: "Number of available execution agents",
			},
		),
	}
}

// RecordUnitExecution records one unit execution.
func (c *Collector) RecordUnitExecution(name, status string, duration time.Duration) {
	c.unitExecutions.WithLabelValues(name, status).Inc()
	c.unitDuration.WithLabelValues(name).Observe(duration.Seconds())
}

// RecordPlanExecution records one plan execution.
func (c *Collector) RecordPlanExecution(status string, duration time.Duration) {
	c.plansExecuted.WithLabelValues(status).Inc()
	c.planDuration.With(prometheus.Labels{}).Observe(duration.Seconds())
}

// RecordStepExecution records one plan step execution.
func (c *Collector) RecordStepExecution(status string, duration time.Duration) {
	c.stepsExecuted.WithLabelValues(status).Inc()
	c.stepDuration.With(prometheus.Labels{}).Observe(duration.Seconds())
}

// SetRegisteredAgents sets the registered agent gauge.
func (c *Collector) SetRegisteredAgents(count int) {
	c.agentsRegistered.Set(float64(count))
}

// SetAvailableAgents sets the available agent gauge.
func (c *Collector) SetAvailableAgents(count int) {
	c.agentsAvailable.Set(float64(count))
}

// SetUnitHealth records a unit's health as a gauge.
func (c *Collector) SetUnitHealth(name string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1.0
	}
	c.unitHealthy.WithLabelValues(name).Set(v)
}
