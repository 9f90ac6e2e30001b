package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Engine hooks
	e := NoopEngineHooks{}
	e.OnPropagateStart(ctx, 1, 10)
	e.OnPropagateComplete(ctx, 1, 4, time.Millisecond)
	e.OnElementSkipped(ctx, 3, "zero projection")
	e.OnRenderStart(ctx, "svg", 10)
	e.OnRenderComplete(ctx, "svg", 2048, time.Millisecond, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "scene")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/scenes/abc")
	h.OnResponse(ctx, "GET", "/scenes/abc", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customEngine := &testEngineHooks{}
	SetEngineHooks(customEngine)
	if Engine() != customEngine {
		t.Error("SetEngineHooks should set custom hooks")
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

	// Reset and verify
	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset() should restore NoopEngineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEngineHooks{}
	SetEngineHooks(custom)

	// Setting nil should be ignored
	SetEngineHooks(nil)

	if Engine() != custom {
		t.Error("SetEngineHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testEngineHooks struct{ NoopEngineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
