package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeObjectStore is an in-memory ObjectStore for tests. It records probe
// counts and the peak number of concurrent probes, and honors context
// cancellation while a probe delay is pending.
type fakeObjectStore struct {
	mu          sync.Mutex
	sizes       map[string]int64
	existsErr   map[string]error
	sizeErr     map[string]error
	probeDelay  time.Duration
	delays      map[string]time.Duration
	probes      int
	inFlight    int
	maxInFlight int
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		sizes:     make(map[string]int64),
		existsErr: make(map[string]error),
		sizeErr:   make(map[string]error),
		delays:    make(map[string]time.Duration),
	}
}

func (f *fakeObjectStore) enter() {
	f.mu.Lock()
	f.probes++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
}

func (f *fakeObjectStore) exit() {
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
}

func (f *fakeObjectStore) wait(ctx context.Context, key string) error {
	f.mu.Lock()
	delay := f.probeDelay
	if d, ok := f.delays[key]; ok {
		delay = d
	}
	f.mu.Unlock()
	if delay <= 0 {
		return nil
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeObjectStore) Exists(ctx context.Context, key string) (bool, error) {
	f.enter()
	defer f.exit()
	if err := f.wait(ctx, key); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.existsErr[key]; ok {
		return false, err
	}
	_, ok := f.sizes[key]
	return ok, nil
}

func (f *fakeObjectStore) Size(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.sizeErr[key]; ok {
		return 0, err
	}
	size, ok := f.sizes[key]
	if !ok {
		return 0, fmt.Errorf("object %s not found", key)
	}
	return size, nil
}

func (f *fakeObjectStore) probeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.probes
}

func (f *fakeObjectStore) peakConcurrency() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

func TestTotalBytesEmptyInput(t *testing.T) {
	agg := NewSizeAggregator(newFakeObjectStore(), testLogger())

	if total := agg.TotalBytes(context.Background(), nil); total != 0 {
		t.Fatalf("expected 0 for empty input, got %d", total)
	}
}

func TestTotalBytesSumsExistingObjects(t *testing.T) {
	store := newFakeObjectStore()
	store.sizes["a"] = 100
	store.sizes["b"] = 250
	store.sizes["c"] = 50

	agg := NewSizeAggregator(store, testLogger())

	if total := agg.TotalBytes(context.Background(), []string{"a", "b", "c"}); total != 400 {
		t.Fatalf("expected 400, got %d", total)
	}
}

func TestTotalBytesMissingObjectsContributeZero(t *testing.T) {
	store := newFakeObjectStore()
	store.sizes["a"] = 100

	agg := NewSizeAggregator(store, testLogger())

	total := agg.TotalBytes(context.Background(), []string{"a", "gone", "also-gone"})
	if total != 100 {
		t.Fatalf("expected missing objects to contribute zero, got %d", total)
	}
}

func TestTotalBytesProbeErrorsContributeZero(t *testing.T) {
	store := newFakeObjectStore()
	store.sizes["a"] = 100
	store.sizes["b"] = 200
	store.existsErr["b"] = fmt.Errorf("backend unreachable")
	store.sizes["c"] = 300
	store.sizeErr["c"] = fmt.Errorf("metadata read failed")

	agg := NewSizeAggregator(store, testLogger())

	total := agg.TotalBytes(context.Background(), []string{"a", "b", "c"})
	if total != 100 {
		t.Fatalf("expected erroring paths to contribute zero, got %d", total)
	}
}

func TestTotalBytesParallelMatchesSequential(t *testing.T) {
	store := newFakeObjectStore()
	var paths []string
	var want int64
	for i := 0; i < 120; i++ {
		key := fmt.Sprintf("objects/%03d", i)
		size := int64(i * 1024)
		store.sizes[key] = size
		paths = append(paths, key)
		want += size
	}

	agg := NewSizeAggregator(store, testLogger())

	// 120 paths is over the fan-out threshold, so this runs parallel.
	if total := agg.TotalBytes(context.Background(), paths); total != want {
		t.Fatalf("parallel total mismatch: got %d, want %d", total, want)
	}

	// Force the sequential path and compare.
	agg.threshold = len(paths) + 1
	if total := agg.TotalBytes(context.Background(), paths); total != want {
		t.Fatalf("sequential total mismatch: got %d, want %d", total, want)
	}
}

func TestTotalBytesBoundsConcurrency(t *testing.T) {
	store := newFakeObjectStore()
	store.probeDelay = 2 * time.Millisecond
	var paths []string
	for i := 0; i < 80; i++ {
		key := fmt.Sprintf("objects/%03d", i)
		store.sizes[key] = 1
		paths = append(paths, key)
	}

	agg := NewSizeAggregator(store, testLogger())
	agg.TotalBytes(context.Background(), paths)

	if peak := store.peakConcurrency(); peak > maxWorkers {
		t.Fatalf("concurrency exceeded worker bound: peak %d > %d", peak, maxWorkers)
	}
	if probes := store.probeCount(); probes != len(paths) {
		t.Fatalf("expected %d probes, got %d", len(paths), probes)
	}
}

func TestTotalBytesTimedOutProbeContributesZero(t *testing.T) {
	store := newFakeObjectStore()
	store.sizes["fast-1"] = 100
	store.sizes["fast-2"] = 200
	store.sizes["slow"] = 400
	store.delays["slow"] = 200 * time.Millisecond

	agg := NewSizeAggregator(store, testLogger())
	agg.timeout = 20 * time.Millisecond

	total := agg.TotalBytes(context.Background(), []string{"fast-1", "slow", "fast-2"})
	if total != 300 {
		t.Fatalf("expected timed-out probe to contribute zero, got %d", total)
	}
}

func TestTotalBytesSmallSetStaysSequential(t *testing.T) {
	store := newFakeObjectStore()
	store.probeDelay = time.Millisecond
	var paths []string
	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("objects/%d", i)
		store.sizes[key] = 1
		paths = append(paths, key)
	}

	agg := NewSizeAggregator(store, testLogger())
	agg.TotalBytes(context.Background(), paths)

	if peak := store.peakConcurrency(); peak != 1 {
		t.Fatalf("small sets must be probed sequentially, peak concurrency was %d", peak)
	}
}
