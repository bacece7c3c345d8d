package storage

import (
	"testing"
	"time"

	"github.com/samvad-hq/samvad-board-client/internal/domain"
)

func openTestBolt(t *testing.T, opts Options) *boltStore {
	t.Helper()
	storeRaw, err := openBolt(t.TempDir()+"/posts.db", normalizeOptions(opts))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStorePutGetDelete(t *testing.T) {
	store := openTestBolt(t, Options{})
	post := domain.Post{ID: "1", Title: "T", Body: "B", Poster: "P"}

	if _, ok, err := store.Get(Key("prod", "1")); err != nil || ok {
		t.Fatalf("expected missing snapshot, ok=%v err=%v", ok, err)
	}

	if err := store.Put(Key("prod", "1"), post); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(Key("prod", "1"))
	if err != nil || !ok {
		t.Fatalf("expected stored snapshot, ok=%v err=%v", ok, err)
	}
	if got != post {
		t.Fatalf("unexpected snapshot %#v", got)
	}

	if err := store.Delete(Key("prod", "1")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := store.Get(Key("prod", "1")); ok {
		t.Fatalf("expected snapshot to be deleted")
	}
}

func TestBoltStoreListByBoardPrefix(t *testing.T) {
	store := openTestBolt(t, Options{})
	for _, k := range []string{Key("prod", "1"), Key("prod", "2"), Key("production", "9"), Key("staging", "1")} {
		if err := store.Put(k, domain.Post{ID: k}); err != nil {
			t.Fatalf("Put %s: %v", k, err)
		}
	}

	got, err := store.List(BoardPrefix("prod"))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 prod snapshots, got %#v", got)
	}
	if _, ok := got["prod/2"]; !ok {
		t.Fatalf("missing prod/2 in %#v", got)
	}
}

func TestBoltStoreExpiresSnapshots(t *testing.T) {
	store := openTestBolt(t, Options{
		PostTTL:         1 * time.Second,
		CleanupInterval: 1 * time.Second,
	})

	if err := store.Put("b/1", domain.Post{ID: "1"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, err := store.Get("b/1"); err != nil || !ok {
		t.Fatalf("expected live snapshot, ok=%v err=%v", ok, err)
	}

	// Fast-forward cleanup cadence and trigger expiry.
	store.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	_, ok, err := store.Get("b/1")
	if err != nil {
		t.Fatalf("Get after expiry: %v", err)
	}
	if ok {
		t.Fatalf("expected entry to expire and be removed")
	}
	if got, _ := store.List("b/"); len(got) != 0 {
		t.Fatalf("expected no live snapshots, got %#v", got)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.Put("x/1", domain.Post{ID: "1"}); err != nil {
		t.Fatalf("noop store Put: %v", err)
	}
	if _, ok, _ := store.Get("x/1"); ok {
		t.Fatalf("noop store must not remember snapshots")
	}
}

func TestNewStoreRejectsUnknownOrIncomplete(t *testing.T) {
	if _, err := NewStore("mongo", "x", Options{}); err == nil {
		t.Fatalf("expected unsupported type error")
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected missing path error")
	}
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected missing address error")
	}
}
