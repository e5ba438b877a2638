package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/netops-assistant/server/internal/agent/graph/tools"
	"github.com/netops-assistant/server/internal/agent/model"
	"github.com/netops-assistant/server/internal/loganalysis"
	"github.com/netops-assistant/server/internal/netsim"
	"github.com/netops-assistant/server/internal/observability"
)

type fakeRunner struct {
	queries []model.QueryInput
	reset   []string
	err     error
}

func (r *fakeRunner) Invoke(_ context.Context, in model.QueryInput) (string, error) {
	r.queries = append(r.queries, in)
	if r.err != nil {
		return "", r.err
	}
	return "echo: " + in.Query, nil
}

func (r *fakeRunner) Reset(_ context.Context, id string) error {
	r.reset = append(r.reset, id)
	return nil
}

type upProber struct{}

func (upProber) Reachable(context.Context, string) bool { return true }

type fakeIndexer struct {
	dir string
}

func (f *fakeIndexer) IndexDir(_ context.Context, dir string) (int, error) {
	f.dir = dir
	return 7, nil
}

// fakeAnalyzer rates "-3-" events high and the rest low. Like the real
// analyzer it leaves events unrated once ctx is done or the model is down.
type fakeAnalyzer struct {
	classified int
	down       bool
}

func (a *fakeAnalyzer) ClassifySeverity(ctx context.Context, events []loganalysis.Event) []loganalysis.Event {
	a.classified++
	out := make([]loganalysis.Event, len(events))
	copy(out, events)
	for i := range out {
		if ctx.Err() != nil || a.down {
			out[i].Severity = loganalysis.SeverityUnknown
			continue
		}
		if strings.Contains(out[i].EventType, "-3-") {
			out[i].Severity = loganalysis.SeverityHigh
		} else {
			out[i].Severity = loganalysis.SeverityLow
		}
	}
	return out
}

func (a *fakeAnalyzer) Explain(_ context.Context, ev loganalysis.Event) (string, error) {
	return "explained " + ev.EventType, nil
}

type fixture struct {
	e        *echo.Echo
	runner   *fakeRunner
	indexer  *fakeIndexer
	analyzer *fakeAnalyzer
	logsPath string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	metrics, err := observability.NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	network := netsim.DefaultNetwork()
	reg, err := tools.NewRegistry(tools.Deps{Network: network, Prober: upProber{}, Metrics: metrics})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	logsPath := filepath.Join(t.TempDir(), "logs.json")
	body := `[
		{"event_type":"%SYS-5-CONFIG_I","count":30,"items":[{"ip":"192.168.1.10","count":30,"message":"Configured from console"}]},
		{"event_type":"%LINK-3-UPDOWN","count":4,"items":[{"ip":"192.168.1.11","count":4,"message":"Interface Gi0/7 down"}]}
	]`
	if err := os.WriteFile(logsPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write logs: %v", err)
	}

	f := &fixture{runner: &fakeRunner{}, indexer: &fakeIndexer{}, analyzer: &fakeAnalyzer{}, logsPath: logsPath}
	f.e = NewServer(Deps{
		Runner:   f.runner,
		Network:  network,
		Tools:    reg,
		Docs:     f.indexer,
		DocsPath: "docs",
		Logs:     f.analyzer,
		LogsPath: logsPath,
		Metrics:  metrics,
	})
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	return f.doContext(context.Background(), method, target, body)
}

func (f *fixture) doContext(ctx context.Context, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestChat(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/chat", `{"conversation_id":"c1","query":"ping asw1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if got := decode[chatResponse](t, rec); got.Response != "echo: ping asw1" || got.ConversationID != "c1" {
		t.Fatalf("response = %+v", got)
	}

	tests := []struct {
		body string
		want string
	}{
		{`{"query":"hi"}`, "conversation_id is required"},
		{`{"conversation_id":"c1","query":"  "}`, "query is required"},
		{`{"conversation_id":`, "invalid request body"},
	}
	for _, tt := range tests {
		rec := f.do(http.MethodPost, "/chat", tt.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", tt.body, rec.Code)
		}
		if got := decode[errorResponse](t, rec); got.Error != tt.want {
			t.Fatalf("%s: error = %q, want %q", tt.body, got.Error, tt.want)
		}
	}
	if len(f.runner.queries) != 1 {
		t.Fatalf("runner called %d times, want 1", len(f.runner.queries))
	}

	rec = f.do(http.MethodDelete, "/chat/c1", "")
	if rec.Code != http.StatusNoContent || len(f.runner.reset) != 1 || f.runner.reset[0] != "c1" {
		t.Fatalf("reset: status = %d, calls = %v", rec.Code, f.runner.reset)
	}
}

func TestChatRunnerFailure(t *testing.T) {
	f := newFixture(t)
	f.runner.err = errors.New("model exploded")

	rec := f.do(http.MethodPost, "/chat", `{"conversation_id":"c1","query":"hi"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[errorResponse](t, rec); strings.Contains(got.Error, "exploded") {
		t.Fatalf("internal error leaked: %q", got.Error)
	}
}

func TestTools(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/tools", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	infos := decode[[]toolInfo](t, rec)
	if len(infos) != 6 {
		t.Fatalf("got %d tools, want 6", len(infos))
	}

	rec = f.do(http.MethodPost, "/tools/cmdb", `{"name":"asw2"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "192.168.1.11") {
		t.Fatalf("cmdb: status = %d, body = %s", rec.Code, rec.Body)
	}

	sanitized := []struct {
		target, body, contains string
	}{
		{"/tools/cmdb", `{"name":" asw2 "}`, "192.168.1.11"},
		{"/tools/change_vlan", `{"ip":" 192.168.1.10","port":"Gi0/5 ","vlan":"20"}`, "successfully changed to VLAN 20"},
		{"/tools/show_vlan_port", `{"ip":"192.168.1.10 ","port":" Gi0/9"}`, "configured in VLAN 20"},
	}
	for _, tt := range sanitized {
		rec := f.do(http.MethodPost, tt.target, tt.body)
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), tt.contains) {
			t.Fatalf("%s %s: status = %d, body = %s", tt.target, tt.body, rec.Code, rec.Body)
		}
	}

	rec = f.do(http.MethodPost, "/tools/ping", `{"ip":"asw1"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), tools.ToolFailedCode) {
		t.Fatalf("ping failure: status = %d, body = %s", rec.Code, rec.Body)
	}

	if rec := f.do(http.MethodPost, "/tools/traceroute", `{}`); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown tool status = %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, "/tools/cmdb", `{"name":`); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d", rec.Code)
	}
}

func TestDevices(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/devices", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if devices := decode[[]netsim.Device](t, rec); len(devices) != 10 {
		t.Fatalf("got %d devices, want 10", len(devices))
	}

	tests := []struct {
		method, target, body string
		status               int
		contains             string
	}{
		{http.MethodGet, "/devices/192.168.1.10/vlans", "", http.StatusOK, "VLAN table for device 192.168.1.10:"},
		{http.MethodGet, "/devices/192.168.9.9/vlans", "", http.StatusNotFound, "not found in the database"},
		{http.MethodGet, "/devices/asw1/vlans", "", http.StatusBadRequest, "invalid IPv4 address"},
		{http.MethodGet, "/devices/192.168.1.10/vlans/Gi0%2F9", "", http.StatusOK, "configured in VLAN 20"},
		{http.MethodGet, "/devices/192.168.1.10/vlans/Gi0%2F99", "", http.StatusNotFound, "Port Gi0/99 not found"},
		{http.MethodPut, "/devices/192.168.1.10/vlans", `{"port":"Gi0/5","vlan":20}`, http.StatusOK, "successfully changed to VLAN 20"},
		{http.MethodPut, "/devices/192.168.1.10/vlans", `{"port":"Gi0/5","vlan":99}`, http.StatusUnprocessableEntity, "VLAN 99 is not supported"},
		{http.MethodPut, "/devices/192.168.1.10/vlans", `{"port":"Gi9/9","vlan":20}`, http.StatusUnprocessableEntity, "Port Gi9/9 not found"},
		{http.MethodPut, "/devices/10.0.0.2/vlans", `{"port":"Gi0/1","vlan":100}`, http.StatusNotFound, "Device with IP 10.0.0.2 not found."},
		{http.MethodPut, "/devices/999.1.1.1/vlans", `{"port":"Gi0/1","vlan":10}`, http.StatusBadRequest, "invalid IPv4 address"},
	}
	for _, tt := range tests {
		rec := f.do(tt.method, tt.target, tt.body)
		if rec.Code != tt.status {
			t.Fatalf("%s %s: status = %d, want %d (body %s)", tt.method, tt.target, rec.Code, tt.status, rec.Body)
		}
		if !strings.Contains(rec.Body.String(), tt.contains) {
			t.Fatalf("%s %s: body %s missing %q", tt.method, tt.target, rec.Body, tt.contains)
		}
	}
}

func TestRAGIndex(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/rag/index", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[indexResponse](t, rec); got.Chunks != 7 || f.indexer.dir != "docs" {
		t.Fatalf("index = %+v, dir = %q", got, f.indexer.dir)
	}
}

func TestLogs(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/logs/severity", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	events := decode[[]loganalysis.Event](t, rec)
	if len(events) != 2 || events[0].EventType != "%LINK-3-UPDOWN" || events[0].Severity != loganalysis.SeverityHigh {
		t.Fatalf("severity order = %+v", events)
	}

	rec = f.do(http.MethodPost, "/logs/severity?sort=count", "")
	events = decode[[]loganalysis.Event](t, rec)
	if events[0].EventType != "%SYS-5-CONFIG_I" {
		t.Fatalf("count order = %+v", events)
	}
	if f.analyzer.classified != 1 {
		t.Fatalf("classified %d times, want cached single run", f.analyzer.classified)
	}

	if rec := f.do(http.MethodPost, "/logs/severity?sort=ip", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad sort status = %d", rec.Code)
	}

	rec = f.do(http.MethodPost, "/logs/explain", `{"event_type":"%LINK-3-UPDOWN"}`)
	if got := decode[explainResponse](t, rec); got.Explanation != "explained %LINK-3-UPDOWN" {
		t.Fatalf("explain = %+v", got)
	}
	if rec := f.do(http.MethodPost, "/logs/explain", `{"event_type":"%NOPE"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("missing event status = %d", rec.Code)
	}
}

func TestLogsSeverityCache(t *testing.T) {
	f := newFixture(t)
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name           string
		ctx            context.Context
		target         string
		before         func(t *testing.T)
		wantSeverity   loganalysis.Severity
		wantClassified int
	}{
		{"cancelled request is not cached", cancelled, "/logs/severity", nil, loganalysis.SeverityUnknown, 1},
		{"next request rates again", context.Background(), "/logs/severity", nil, loganalysis.SeverityHigh, 2},
		{"served from cache", context.Background(), "/logs/severity", nil, loganalysis.SeverityHigh, 2},
		{"refresh forces a run", context.Background(), "/logs/severity?refresh=true", nil, loganalysis.SeverityHigh, 3},
		{"model down is not cached", context.Background(), "/logs/severity?refresh=1", func(*testing.T) { f.analyzer.down = true }, loganalysis.SeverityUnknown, 4},
		{"last good ratings kept", context.Background(), "/logs/severity", func(*testing.T) { f.analyzer.down = false }, loganalysis.SeverityHigh, 4},
		{"file change invalidates", context.Background(), "/logs/severity", func(t *testing.T) {
			later := time.Now().Add(time.Hour)
			if err := os.Chtimes(f.logsPath, later, later); err != nil {
				t.Fatalf("chtimes: %v", err)
			}
		}, loganalysis.SeverityHigh, 5},
		{"cached again", context.Background(), "/logs/severity?sort=count", nil, loganalysis.SeverityHigh, 5},
	}
	for _, tt := range tests {
		if tt.before != nil {
			tt.before(t)
		}
		rec := f.doContext(tt.ctx, http.MethodPost, tt.target, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, body = %s", tt.name, rec.Code, rec.Body)
		}
		var got loganalysis.Severity
		for _, ev := range decode[[]loganalysis.Event](t, rec) {
			if ev.EventType == "%LINK-3-UPDOWN" {
				got = ev.Severity
			}
		}
		if got != tt.wantSeverity {
			t.Fatalf("%s: severity = %q, want %q", tt.name, got, tt.wantSeverity)
		}
		if f.analyzer.classified != tt.wantClassified {
			t.Fatalf("%s: classified %d times, want %d", tt.name, f.analyzer.classified, tt.wantClassified)
		}
	}

	if rec := f.do(http.MethodPost, "/logs/severity?refresh=maybe", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad refresh status = %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodPost, "/tools/cmdb", `{"name":"asw1"}`)

	rec := f.do(http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `netops_tool_calls_total{outcome="ok",tool="cmdb"} 1`) {
		t.Fatalf("metrics: status = %d, body = %s", rec.Code, rec.Body)
	}
}

func TestUnconfiguredRoutes(t *testing.T) {
	e := NewServer(Deps{})
	for _, target := range []string{"/tools", "/devices"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: status = %d", target, rec.Code)
		}
	}
}
