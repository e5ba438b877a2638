package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveTool(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	c.ObserveTool("cmdb", OutcomeOK, 0.002)
	c.ObserveTool("cmdb", OutcomeOK, 0.001)
	c.ObserveTool("change_vlan", OutcomeFailed, 0.003)

	if got := testutil.ToFloat64(c.ToolCalls.WithLabelValues("cmdb", OutcomeOK)); got != 2 {
		t.Fatalf("cmdb ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.ToolCalls.WithLabelValues("change_vlan", OutcomeFailed)); got != 1 {
		t.Fatalf("change_vlan failed = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(c.ToolDurations); n != 2 {
		t.Fatalf("duration series = %d, want 2", n)
	}
}

func TestNewCollectorReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("first NewCollector: %v", err)
	}
	second, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second NewCollector: %v", err)
	}
	second.ObserveChatTurn(OutcomeOK)
	if got := testutil.ToFloat64(first.ChatTurns.WithLabelValues(OutcomeOK)); got != 1 {
		t.Fatalf("collectors do not share series: %v", got)
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveTool("ping", OutcomeOK, 1)
	c.ObserveChatTurn(OutcomeFailed)
	c.ObserveCost("gemini-2.5-flash", 0.1)
}

func TestObserveCost(t *testing.T) {
	c, err := NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	c.ObserveCost("gemini-2.5-flash", 0.25)
	c.ObserveCost("gemini-2.5-flash", 0.5)
	c.ObserveCost("gemini-2.5-flash", 0)
	if got := testutil.ToFloat64(c.ModelCostUSD.WithLabelValues("gemini-2.5-flash")); got != 0.75 {
		t.Fatalf("cost = %v, want 0.75", got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	c.ObserveTool("ping", OutcomeOK, 0.5)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `netops_tool_calls_total{outcome="ok",tool="ping"} 1`) {
		t.Fatalf("metrics body missing tool counter:\n%s", rec.Body.String())
	}
}
