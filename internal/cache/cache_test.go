package cache

import (
	"errors"
	"sync"
	"testing"
)

func TestCache_GetSet(t *testing.T) {
	c := New[string, int](4)
	if _, ok := c.Get("a"); ok {
		t.Fatal("Get on empty cache returned ok")
	}
	c.Set("a", 1)
	c.Set("a", 2)
	if v, ok := c.Get("a"); !ok || v != 2 {
		t.Errorf("Get(a) = %d, %v; want 2, true", v, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, string](2)
	var evicted []int
	c.OnEvict(func(k int, _ string) { evicted = append(evicted, k) })

	c.Set(1, "one")
	c.Set(2, "two")
	c.Get(1) // 2 is now oldest
	c.Set(3, "three")

	if _, ok := c.Get(2); ok {
		t.Error("entry 2 should have been evicted")
	}
	if _, ok := c.Get(1); !ok {
		t.Error("entry 1 should still be cached")
	}
	if len(evicted) != 1 || evicted[0] != 2 {
		t.Errorf("evicted = %v, want [2]", evicted)
	}
	if s := c.Stats(); s.Evictions != 1 || s.Len != 2 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestCache_Unlimited(t *testing.T) {
	c := New[int, int](0)
	for i := range 1000 {
		c.Set(i, i)
	}
	if c.Len() != 1000 {
		t.Errorf("Len() = %d, want 1000", c.Len())
	}
}

func TestCache_GetOrCreate(t *testing.T) {
	c := New[string, int](4)
	calls := 0
	create := func() (int, error) {
		calls++
		return 7, nil
	}
	for range 3 {
		v, err := c.GetOrCreate("k", create)
		if err != nil || v != 7 {
			t.Fatalf("GetOrCreate() = %d, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 2/1", s.Hits, s.Misses)
	}
}

func TestCache_GetOrCreateErrorNotCached(t *testing.T) {
	c := New[string, int](4)
	errBoom := errors.New("boom")
	if _, err := c.GetOrCreate("k", func() (int, error) { return 0, errBoom }); !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want %v", err, errBoom)
	}
	if c.Len() != 0 {
		t.Fatal("failed create was cached")
	}
	v, err := c.GetOrCreate("k", func() (int, error) { return 3, nil })
	if err != nil || v != 3 {
		t.Errorf("retry = %d, %v", v, err)
	}
}

func TestCache_DeleteAndClearRelease(t *testing.T) {
	c := New[string, int](0)
	released := map[string]bool{}
	c.OnEvict(func(k string, _ int) { released[k] = true })

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	if !c.Delete("a") || c.Delete("a") {
		t.Error("Delete should report presence exactly once")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
	for _, k := range []string{"a", "b", "c"} {
		if !released[k] {
			t.Errorf("%q not released", k)
		}
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New[int, int](16)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				_, _ = c.GetOrCreate((g+i)%32, func() (int, error) { return i, nil })
			}
		}()
	}
	wg.Wait()
	if c.Len() > 16 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c := New[int, int](256)
	for i := range 256 {
		c.Set(i, i)
	}
	b.ReportAllocs()
	i := 0
	for b.Loop() {
		c.Get(i & 255)
		i++
	}
}
