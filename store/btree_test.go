package store

import (
	"bytes"
	"testing"

	"github.com/iov-one/bounties/errors"
)

func mustSet(t *testing.T, db KVStore, key, value []byte) {
	t.Helper()
	if err := db.Set(key, value); err != nil {
		t.Fatalf("cannot set %q: %+v", key, err)
	}
}

func assertValue(t *testing.T, db ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := db.Get(key)
	if err != nil {
		t.Fatalf("cannot get %q: %+v", key, err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("key %q: want %q, got %q", key, want, got)
	}
}

func TestBTreeCacheGetSet(t *testing.T) {
	base := MemStore()
	mustSet(t, base, []byte("a"), []byte("1"))

	cache := base.CacheWrap()
	assertValue(t, cache, []byte("a"), []byte("1"))

	mustSet(t, cache, []byte("b"), []byte("2"))
	assertValue(t, cache, []byte("b"), []byte("2"))
	// until write, the parent must not see the update
	assertValue(t, base, []byte("b"), nil)

	if err := cache.Write(); err != nil {
		t.Fatalf("cannot write cache: %+v", err)
	}
	assertValue(t, base, []byte("b"), []byte("2"))
}

func TestBTreeCacheDiscard(t *testing.T) {
	base := MemStore()
	mustSet(t, base, []byte("a"), []byte("1"))

	cache := base.CacheWrap()
	mustSet(t, cache, []byte("b"), []byte("2"))
	if err := cache.Delete([]byte("a")); err != nil {
		t.Fatalf("cannot delete: %+v", err)
	}
	assertValue(t, cache, []byte("a"), nil)

	cache.Discard()
	assertValue(t, base, []byte("a"), []byte("1"))
	assertValue(t, base, []byte("b"), nil)
}

func TestBTreeCacheDeleteShadowsParent(t *testing.T) {
	base := MemStore()
	mustSet(t, base, []byte("a"), []byte("1"))

	cache := base.CacheWrap()
	if err := cache.Delete([]byte("a")); err != nil {
		t.Fatalf("cannot delete: %+v", err)
	}
	assertValue(t, cache, []byte("a"), nil)
	if has, err := cache.Has([]byte("a")); err != nil || has {
		t.Fatalf("deleted key must not be reported: %v %+v", has, err)
	}

	if err := cache.Write(); err != nil {
		t.Fatalf("cannot write cache: %+v", err)
	}
	assertValue(t, base, []byte("a"), nil)
}

func TestBTreeCacheIteratorMergesLayers(t *testing.T) {
	base := MemStore()
	mustSet(t, base, []byte("a"), []byte("1"))
	mustSet(t, base, []byte("c"), []byte("3"))
	mustSet(t, base, []byte("d"), []byte("4"))

	cache := base.CacheWrap()
	mustSet(t, cache, []byte("b"), []byte("2"))
	mustSet(t, cache, []byte("c"), []byte("33"))
	if err := cache.Delete([]byte("d")); err != nil {
		t.Fatalf("cannot delete: %+v", err)
	}

	iter, err := cache.Iterator(nil, nil)
	if err != nil {
		t.Fatalf("cannot create iterator: %+v", err)
	}
	defer iter.Release()

	wantKeys := []string{"a", "b", "c"}
	wantValues := []string{"1", "2", "33"}
	for i := range wantKeys {
		key, value, err := iter.Next()
		if err != nil {
			t.Fatalf("iteration %d failed: %+v", i, err)
		}
		if string(key) != wantKeys[i] || string(value) != wantValues[i] {
			t.Fatalf("iteration %d: got %q=%q", i, key, value)
		}
	}
	if _, _, err := iter.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("want iterator done, got %+v", err)
	}
}

func TestBTreeCacheReverseIterator(t *testing.T) {
	base := MemStore()
	mustSet(t, base, []byte("a"), []byte("1"))
	mustSet(t, base, []byte("b"), []byte("2"))

	cache := base.CacheWrap()
	mustSet(t, cache, []byte("c"), []byte("3"))

	iter, err := cache.ReverseIterator(nil, nil)
	if err != nil {
		t.Fatalf("cannot create iterator: %+v", err)
	}
	defer iter.Release()

	want := []string{"c", "b", "a"}
	for i := range want {
		key, _, err := iter.Next()
		if err != nil {
			t.Fatalf("iteration %d failed: %+v", i, err)
		}
		if string(key) != want[i] {
			t.Fatalf("iteration %d: got %q", i, key)
		}
	}
	if _, _, err := iter.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("want iterator done, got %+v", err)
	}
}

func TestBTreeCacheRangeIterator(t *testing.T) {
	base := MemStore()
	for _, kv := range [][2]string{{"a", "1"}, {"b", "2"}, {"c", "3"}, {"d", "4"}} {
		mustSet(t, base, []byte(kv[0]), []byte(kv[1]))
	}

	iter, err := base.Iterator([]byte("b"), []byte("d"))
	if err != nil {
		t.Fatalf("cannot create iterator: %+v", err)
	}
	defer iter.Release()

	want := []string{"b", "c"}
	for i := range want {
		key, _, err := iter.Next()
		if err != nil {
			t.Fatalf("iteration %d failed: %+v", i, err)
		}
		if string(key) != want[i] {
			t.Fatalf("iteration %d: got %q", i, key)
		}
	}
	if _, _, err := iter.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("want iterator done, got %+v", err)
	}
}

func TestLogableStoreRecordsOps(t *testing.T) {
	db, ops := LogableStore()
	mustSet(t, db, []byte("a"), []byte("1"))
	if err := db.Delete([]byte("b")); err != nil {
		t.Fatalf("cannot delete: %+v", err)
	}
	recorded := ops.ShowOps()
	if len(recorded) != 2 {
		t.Fatalf("want 2 ops, got %d", len(recorded))
	}
	if !recorded[0].IsSetOp() || recorded[1].IsSetOp() {
		t.Fatalf("unexpected op kinds: %v", recorded)
	}
}
