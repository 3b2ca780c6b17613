package booking

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"
)

// fakeCache mirrors the versioned-key semantics of the redis cache:
// entries live under a version counter and Bump makes older entries
// unreachable.
type fakeCache struct {
	mu      sync.Mutex
	ver     int
	entries map[string][]int
	sets    int
	bumps   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]int)}
}

func cacheKey(ver string, t time.Time) string {
	return ver + "|" + t.UTC().Format(time.RFC3339)
}

func (f *fakeCache) Get(_ context.Context, t time.Time) ([]int, string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ver := strconv.Itoa(f.ver)
	booked, ok := f.entries[cacheKey(ver, t)]
	return booked, ver, ok
}

func (f *fakeCache) Set(_ context.Context, t time.Time, bookedTables []int, ver string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ver == "" {
		return
	}
	f.sets++
	f.entries[cacheKey(ver, t)] = bookedTables
}

func (f *fakeCache) Bump(_ context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bumps++
	f.ver++
}

// hookedStore wraps memStore to count availability queries and to run
// a callback after each one, between the query and the cache write.
type hookedStore struct {
	*memStore
	coveringCalls int
	afterCovering func()
}

func (h *hookedStore) CoveringInstant(ctx context.Context, t time.Time) ([]Booking, error) {
	out, err := h.memStore.CoveringInstant(ctx, t)
	h.coveringCalls++
	if h.afterCovering != nil {
		h.afterCovering()
	}
	return out, err
}

func newCachedTestEngine(tables ...Table) (*Engine, *hookedStore, *fakeCache) {
	st := newMemStore(tables...)
	hs := &hookedStore{memStore: st}
	fc := newFakeCache()
	eng := New(st, hs, DefaultRules())
	eng.Cache = fc
	return eng, hs, fc
}

func TestAvailabilityCacheMissThenHit(t *testing.T) {
	eng, hs, fc := newCachedTestEngine(Table{Number: 1, Capacity: 2}, Table{Number: 2, Capacity: 4})
	ctx := context.Background()

	first, err := eng.AvailableTables(ctx, at(14, 0))
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if hs.coveringCalls != 1 {
		t.Fatalf("expected 1 store query on miss, got %d", hs.coveringCalls)
	}
	if fc.sets != 1 {
		t.Fatalf("expected miss to populate the cache, got %d sets", fc.sets)
	}

	second, err := eng.AvailableTables(ctx, at(14, 0))
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if hs.coveringCalls != 1 {
		t.Fatalf("cache hit must not query the store, got %d queries", hs.coveringCalls)
	}
	a, b := tableNumbers(first), tableNumbers(second)
	if len(a) != len(b) {
		t.Fatalf("reads differ: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("reads differ: %v vs %v", a, b)
		}
	}
}

func TestWritesBumpAvailabilityCache(t *testing.T) {
	eng, _, fc := newCachedTestEngine(Table{Number: 1, Capacity: 2})
	ctx := context.Background()
	eng.Now = func() time.Time { return at(12, 0) }

	id, err := eng.Create(ctx, "u1", 1, at(14, 0))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if fc.bumps != 1 {
		t.Fatalf("create should bump once, got %d", fc.bumps)
	}

	// rejected writes leave the cache version alone
	if _, err := eng.Create(ctx, "u2", 1, at(15, 0)); err == nil {
		t.Fatal("expected conflict")
	}
	if fc.bumps != 1 {
		t.Fatalf("failed create must not bump, got %d", fc.bumps)
	}

	if err := eng.Reschedule(ctx, "u1", id, at(18, 0)); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if fc.bumps != 2 {
		t.Fatalf("reschedule should bump, got %d", fc.bumps)
	}

	if err := eng.Cancel(ctx, "u1", id); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if fc.bumps != 3 {
		t.Fatalf("cancel should bump, got %d", fc.bumps)
	}
}

// A write that commits between the availability query and the cache
// write must not leave a stale entry behind: the entry goes under the
// version seen at read time, which the write's bump made unreachable.
func TestAvailabilityCacheWriteRaceStaysInvisible(t *testing.T) {
	eng, hs, fc := newCachedTestEngine(Table{Number: 1, Capacity: 2}, Table{Number: 2, Capacity: 4})
	ctx := context.Background()

	hs.afterCovering = func() {
		hs.afterCovering = nil
		// a booking commits and bumps while the reader is in flight
		if err := hs.memStore.Insert(ctx, Booking{
			ID:          "race",
			TableNumber: 1,
			UserID:      "u2",
			StartTime:   at(14, 0),
			EndTime:     at(16, 0),
		}); err != nil {
			t.Errorf("insert: %v", err)
		}
		fc.Bump(ctx)
	}

	if _, err := eng.AvailableTables(ctx, at(15, 0)); err != nil {
		t.Fatalf("racing read: %v", err)
	}

	// the next read must see the committed booking, not the raced entry
	free, err := eng.AvailableTables(ctx, at(15, 0))
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	for _, tbl := range free {
		if tbl.Number == 1 {
			t.Fatalf("stale cache entry served after a committed write: %v", tableNumbers(free))
		}
	}
	if hs.coveringCalls != 2 {
		t.Fatalf("second read should miss and requery, got %d queries", hs.coveringCalls)
	}
}
