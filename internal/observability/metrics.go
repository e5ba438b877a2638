// Package observability exposes Prometheus metrics for tool calls, chat
// turns and model spend.
package observability

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tool call outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Collector bundles the assistant's Prometheus metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	ToolCalls     *prometheus.CounterVec
	ToolDurations *prometheus.HistogramVec
	ChatTurns     *prometheus.CounterVec
	ModelCostUSD  *prometheus.CounterVec
}

// NewCollector registers metrics against reg, defaulting to the global
// registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	calls, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netops_tool_calls_total",
		Help: "Tool invocations, labeled by tool name and outcome.",
	}, []string{"tool", "outcome"}))
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "netops_tool_call_duration_seconds",
		Help:    "Tool invocation latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"tool"})
	if err := reg.Register(durations); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		durations = are.ExistingCollector.(*prometheus.HistogramVec)
	}

	turns, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netops_chat_turns_total",
		Help: "Chat turns handled, labeled by outcome.",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}

	cost, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netops_model_cost_usd_total",
		Help: "Estimated chat model spend in USD, labeled by model.",
	}, []string{"model"}))
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      gatherer,
		ToolCalls:     calls,
		ToolDurations: durations,
		ChatTurns:     turns,
		ModelCostUSD:  cost,
	}, nil
}

// ObserveTool records one tool invocation. Safe on a nil Collector.
func (c *Collector) ObserveTool(tool, outcome string, seconds float64) {
	if c == nil {
		return
	}
	c.ToolCalls.WithLabelValues(tool, outcome).Inc()
	c.ToolDurations.WithLabelValues(tool).Observe(seconds)
}

// ObserveChatTurn records one chat turn. Safe on a nil Collector.
func (c *Collector) ObserveChatTurn(outcome string) {
	if c == nil {
		return
	}
	c.ChatTurns.WithLabelValues(outcome).Inc()
}

// ObserveCost adds usd to the spend of model. Safe on a nil Collector.
func (c *Collector) ObserveCost(model string, usd float64) {
	if c == nil || usd <= 0 {
		return
	}
	c.ModelCostUSD.WithLabelValues(model).Add(usd)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return vec, nil
}
