package cache

import (
	"context"
	"sync"
	"testing"
)

func TestMemory(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, ok := m.Get(ctx, "claim:abc"); ok {
		t.Error("empty cache reported a hit")
	}

	m.Set(ctx, "claim:abc", true)
	m.Set(ctx, "claim:def", false)

	if v, ok := m.Get(ctx, "claim:abc"); !ok || !v {
		t.Errorf("Get(claim:abc) = %v, %v; want true, true", v, ok)
	}
	if v, ok := m.Get(ctx, "claim:def"); !ok || v {
		t.Errorf("Get(claim:def) = %v, %v; want false, true", v, ok)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestMemoryConcurrent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Set(ctx, "claim:shared", true)
			m.Get(ctx, "claim:shared")
		}()
	}
	wg.Wait()

	if v, ok := m.Get(ctx, "claim:shared"); !ok || !v {
		t.Error("shared key lost after concurrent writes")
	}
}

func TestNewRedis_BadURL(t *testing.T) {
	if _, err := NewRedis("not-a-url", 0); err == nil {
		t.Error("invalid redis URL should error")
	}
}
