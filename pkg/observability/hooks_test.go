package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopEditHooks{}
	e.OnSaveStart(ctx, "fruit", `$["fruits"][0]`)
	e.OnSaveComplete(ctx, "fruit", `$["fruits"][0]`, time.Millisecond, nil)

	r := NoopRenderHooks{}
	r.OnGraphBuilt(ctx, 4, 3)
	r.OnRenderComplete(ctx, "svg", time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	s := NoopStoreHooks{}
	s.OnLoad(ctx, "file", 120, nil)
	s.OnWrite(ctx, "redis", 120, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Edit().(NoopEditHooks); !ok {
		t.Error("Edit() should return NoopEditHooks by default")
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}

	customEdit := &testEditHooks{}
	SetEditHooks(customEdit)
	if Edit() != customEdit {
		t.Error("SetEditHooks should set custom hooks")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	Reset()
	if _, ok := Edit().(NoopEditHooks); !ok {
		t.Error("Reset() should restore NoopEditHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testEditHooks{}
	SetEditHooks(custom)
	SetEditHooks(nil)

	if Edit() != custom {
		t.Error("SetEditHooks(nil) should be ignored")
	}
}

type testEditHooks struct{ NoopEditHooks }
type testRenderHooks struct{ NoopRenderHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testStoreHooks struct{ NoopStoreHooks }
