package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	d := NoopDrawHooks{}
	d.OnDrawStart(ctx, DrawInfo{Participants: 5, Policy: "any"})
	d.OnDrawComplete(ctx, DrawResult{Status: "success"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "draw")
	c.OnCacheMiss(ctx, "draw")
	c.OnCacheSet(ctx, "report", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/draws")
	h.OnResponse(ctx, "POST", "/v1/draws", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Draw().(NoopDrawHooks); !ok {
		t.Error("Draw() should return NoopDrawHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customDraw := &testDrawHooks{}
	SetDrawHooks(customDraw)
	if Draw() != customDraw {
		t.Error("SetDrawHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Draw().(NoopDrawHooks); !ok {
		t.Error("Reset() should restore NoopDrawHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testDrawHooks{}
	SetDrawHooks(custom)
	SetDrawHooks(nil)

	if Draw() != custom {
		t.Error("SetDrawHooks(nil) should be ignored")
	}
}

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	info := DrawInfo{Participants: 4, Policy: "single-cycle"}
	m.OnDrawStart(ctx, info)
	m.OnDrawComplete(ctx, DrawResult{DrawInfo: info, Status: "success", Phase: "random"}, time.Millisecond, nil)
	m.OnDrawComplete(ctx, DrawResult{DrawInfo: info, Status: "infeasible", Reason: "NO_VALID_CYCLE", Phase: "cycle-search"}, time.Millisecond, nil)
	m.OnDrawComplete(ctx, DrawResult{DrawInfo: info}, time.Millisecond, errors.New("boom"))

	if got := counterValue(t, reg, "giftring_draws_total", map[string]string{"policy": "single-cycle", "status": "success", "reason": "none"}); got != 1 {
		t.Errorf("success draws = %v, want 1", got)
	}
	if got := counterValue(t, reg, "giftring_draws_total", map[string]string{"policy": "single-cycle", "status": "infeasible", "reason": "NO_VALID_CYCLE"}); got != 1 {
		t.Errorf("infeasible draws = %v, want 1", got)
	}
	if got := counterValue(t, reg, "giftring_draw_errors_total", map[string]string{"policy": "single-cycle"}); got != 1 {
		t.Errorf("draw errors = %v, want 1", got)
	}

	m.OnCacheMiss(ctx, "draw")
	m.OnCacheSet(ctx, "draw", 100)
	m.OnCacheHit(ctx, "draw")
	if got := counterValue(t, reg, "giftring_cache_events_total", map[string]string{"type": "draw", "result": "hit"}); got != 1 {
		t.Errorf("cache hits = %v, want 1", got)
	}
	if got := counterValue(t, reg, "giftring_cache_bytes_written_total", map[string]string{"type": "draw"}); got != 100 {
		t.Errorf("cache bytes = %v, want 100", got)
	}

	m.OnResponse(ctx, "POST", "/v1/draws", 422, time.Millisecond)
	if got := counterValue(t, reg, "giftring_http_requests_total", map[string]string{"method": "POST", "route": "/v1/draws", "code": "422"}); got != 1 {
		t.Errorf("http requests = %v, want 1", got)
	}
}

// counterValue returns the value of the counter name whose labels equal labels.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			if len(m.GetLabel()) != len(labels) {
				continue
			}
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

type testDrawHooks struct{ NoopDrawHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
