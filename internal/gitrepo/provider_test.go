package gitrepo

import (
	"context"
	"testing"
)

type memStore struct {
	entries map[string][]string
	puts    int
}

func (m *memStore) Get(stateKey, path string) ([]string, bool) {
	v, ok := m.entries[stateKey+"\x00"+path]
	return v, ok
}

func (m *memStore) Put(stateKey, path string, addrs []string) error {
	if m.entries == nil {
		m.entries = map[string][]string{}
	}
	m.entries[stateKey+"\x00"+path] = addrs
	m.puts++
	return nil
}

func newTestProvider(t *testing.T, dir string, cfg ProviderConfig) *HistoryProvider {
	t.Helper()
	repo, err := Open(context.Background(), dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewHistoryProvider(context.Background(), repo, cfg, testLogger())
	if err != nil {
		t.Fatalf("NewHistoryProvider() error = %v", err)
	}
	return p
}

func TestHistoryProviderListRelevantFiles(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "main.go", "package main\n", "alice@example.com")
	commitFile(t, dir, "README.md", "# doc\n", "alice@example.com")

	p := newTestProvider(t, dir, ProviderConfig{})

	files, err := p.ListRelevantFiles(context.Background())
	if err != nil {
		t.Fatalf("ListRelevantFiles() error = %v", err)
	}
	if len(files) != 1 || files[0] != "main.go" {
		t.Errorf("ListRelevantFiles() = %v, want [main.go]", files)
	}
}

func TestHistoryProviderLineAttribution(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "main.go", "one\ntwo\n", "alice@example.com")

	p := newTestProvider(t, dir, ProviderConfig{})

	records, err := p.LineAttribution(context.Background(), "main.go")
	if err != nil {
		t.Fatalf("LineAttribution() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for _, rec := range records {
		if rec.AuthorAddress != "alice@example.com" {
			t.Errorf("AuthorAddress = %q", rec.AuthorAddress)
		}
	}
}

func TestHistoryProviderCacheHit(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "main.go", "one\ntwo\n", "alice@example.com")

	store := &memStore{}
	p := newTestProvider(t, dir, ProviderConfig{Store: store})

	// Prime the cache with a fabricated answer; a hit must short-circuit
	// blame entirely.
	if err := store.Put(p.StateKey(), "main.go", []string{"cached@example.com"}); err != nil {
		t.Fatal(err)
	}
	store.puts = 0

	records, err := p.LineAttribution(context.Background(), "main.go")
	if err != nil {
		t.Fatalf("LineAttribution() error = %v", err)
	}
	if len(records) != 1 || records[0].AuthorAddress != "cached@example.com" {
		t.Errorf("records = %v, want the cached value", records)
	}
	if store.puts != 0 {
		t.Error("cache hit must not trigger a write")
	}
}

func TestHistoryProviderCacheFill(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "main.go", "one\ntwo\n", "alice@example.com")

	store := &memStore{}
	p := newTestProvider(t, dir, ProviderConfig{Store: store})

	if _, err := p.LineAttribution(context.Background(), "main.go"); err != nil {
		t.Fatal(err)
	}
	if store.puts != 1 {
		t.Fatalf("puts = %d, want 1", store.puts)
	}

	cached, ok := store.Get(p.StateKey(), "main.go")
	if !ok {
		t.Fatal("expected cache entry after first attribution")
	}
	if len(cached) != 2 || cached[0] != "alice@example.com" {
		t.Errorf("cached = %v", cached)
	}
}

func TestHistoryProviderStateKeyTracksHead(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "main.go", "one\n", "alice@example.com")

	p1 := newTestProvider(t, dir, ProviderConfig{})

	commitFile(t, dir, "main.go", "one\ntwo\n", "alice@example.com")
	p2 := newTestProvider(t, dir, ProviderConfig{})

	if p1.StateKey() == p2.StateKey() {
		t.Error("state key must change when HEAD moves")
	}
}
