package app

import (
	"bytes"
	"testing"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/store"
)

func TestRawQueryByKey(t *testing.T) {
	db := store.MemStore()
	if err := db.Set([]byte("raw:a"), []byte("1")); err != nil {
		t.Fatalf("cannot write: %+v", err)
	}

	models, err := RawQueryHandler{}.Query(db, bounties.KeyQueryMod, []byte("raw:a"))
	if err != nil {
		t.Fatalf("cannot query: %+v", err)
	}
	if len(models) != 1 {
		t.Fatalf("want 1 model, got %d", len(models))
	}
	if !bytes.Equal(models[0].Value, []byte("1")) {
		t.Fatalf("want the stored value, got %q", models[0].Value)
	}

	models, err = RawQueryHandler{}.Query(db, bounties.KeyQueryMod, []byte("raw:missing"))
	if err != nil {
		t.Fatalf("cannot query: %+v", err)
	}
	if len(models) != 0 {
		t.Fatalf("want no models, got %d", len(models))
	}
}

func TestRawQueryByPrefix(t *testing.T) {
	db := store.MemStore()
	for _, key := range []string{"raw:a", "raw:b", "other:c"} {
		if err := db.Set([]byte(key), []byte("1")); err != nil {
			t.Fatalf("cannot write: %+v", err)
		}
	}

	models, err := RawQueryHandler{}.Query(db, bounties.PrefixQueryMod, []byte("raw:"))
	if err != nil {
		t.Fatalf("cannot query: %+v", err)
	}
	if len(models) != 2 {
		t.Fatalf("want 2 models, got %d", len(models))
	}
	if !bytes.Equal(models[0].Key, []byte("raw:a")) || !bytes.Equal(models[1].Key, []byte("raw:b")) {
		t.Fatalf("want the prefixed keys in order, got %q %q", models[0].Key, models[1].Key)
	}
}

func TestRawQueryUnknownMod(t *testing.T) {
	db := store.MemStore()
	if _, err := (RawQueryHandler{}).Query(db, "range", nil); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %+v", err)
	}
}
