package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	b := NoopBackfillHooks{}
	b.OnRunStart(ctx, 3, true)
	b.OnPairComplete(ctx, "react", "redux", true, time.Second, nil)
	b.OnRunComplete(ctx, 3, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "npm")
	c.OnCacheMiss(ctx, "npm")
	c.OnCacheSet(ctx, "npm", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "registry.npmjs.org", "/react")
	h.OnResponse(ctx, "GET", "registry.npmjs.org", "/react", 200, time.Second)
	h.OnError(ctx, "GET", "registry.npmjs.org", "/react", nil)

	NoopEventHooks{}.OnEvent(ctx, "JoinCTAClicked", "/search")
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Backfill().(NoopBackfillHooks); !ok {
		t.Error("Backfill() should return NoopBackfillHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}
	if _, ok := Events().(NoopEventHooks); !ok {
		t.Error("Events() should return NoopEventHooks by default")
	}

	customBackfill := &testBackfillHooks{}
	SetBackfillHooks(customBackfill)
	if Backfill() != customBackfill {
		t.Error("SetBackfillHooks should set custom hooks")
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

	customEvents := &testEventHooks{}
	SetEventHooks(customEvents)
	if Events() != customEvents {
		t.Error("SetEventHooks should set custom hooks")
	}

	Reset()
	if _, ok := Backfill().(NoopBackfillHooks); !ok {
		t.Error("Reset() should restore NoopBackfillHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testBackfillHooks{}
	SetBackfillHooks(custom)
	SetBackfillHooks(nil)

	if Backfill() != custom {
		t.Error("SetBackfillHooks(nil) should be ignored")
	}
}

type testBackfillHooks struct{ NoopBackfillHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
type testEventHooks struct{ NoopEventHooks }
