package orm

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/store"
)

type counter struct {
	Count int64 `json:"count"`
}

var _ Model = (*counter)(nil)

func (c *counter) Marshal() ([]byte, error)   { return json.Marshal(c) }
func (c *counter) Unmarshal(raw []byte) error { return json.Unmarshal(raw, c) }
func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrState, "negative count")
	}
	return nil
}
func (c *counter) Copy() CloneableData { return &counter{Count: c.Count} }

func TestModelBucketPutGeneratesKey(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{},
		WithIDSequence(NewSequence("cnts", SeqID)))

	key1, err := b.Put(db, nil, &counter{Count: 1})
	if err != nil {
		t.Fatalf("cannot put: %+v", err)
	}
	key2, err := b.Put(db, nil, &counter{Count: 2})
	if err != nil {
		t.Fatalf("cannot put: %+v", err)
	}
	if len(key1) != 8 || len(key2) != 8 {
		t.Fatalf("want 8 byte keys, got %x and %x", key1, key2)
	}
	if string(key1) >= string(key2) {
		t.Fatal("generated keys must be strictly increasing")
	}

	var c counter
	if err := b.One(db, key2, &c); err != nil {
		t.Fatalf("cannot get: %+v", err)
	}
	if c.Count != 2 {
		t.Fatalf("want count=2, got %d", c.Count)
	}
}

func TestModelBucketPutWithoutSequence(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	if _, err := b.Put(db, nil, &counter{Count: 1}); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error for empty key, got %+v", err)
	}
	if _, err := b.Put(db, []byte("mykey"), &counter{Count: 1}); err != nil {
		t.Fatalf("cannot put with explicit key: %+v", err)
	}
}

func TestModelBucketPutValidates(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	if _, err := b.Put(db, []byte("k"), &counter{Count: -1}); !errors.ErrState.Is(err) {
		t.Fatalf("want validation error, got %+v", err)
	}
}

func TestModelBucketOneNotFound(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	var c counter
	if err := b.One(db, []byte("unknown"), &c); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
}

func TestModelBucketHasAndDelete(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	key := []byte("mykey")
	if _, err := b.Put(db, key, &counter{Count: 1}); err != nil {
		t.Fatalf("cannot put: %+v", err)
	}
	if err := b.Has(db, key); err != nil {
		t.Fatalf("want key present: %+v", err)
	}
	if err := b.Has(db, nil); !errors.ErrNotFound.Is(err) {
		t.Fatalf("empty key must be not found, got %+v", err)
	}
	if err := b.Delete(db, key); err != nil {
		t.Fatalf("cannot delete: %+v", err)
	}
	if err := b.Has(db, key); !errors.ErrNotFound.Is(err) {
		t.Fatalf("deleted key must be not found, got %+v", err)
	}
	if err := b.Delete(db, key); !errors.ErrNotFound.Is(err) {
		t.Fatalf("deleting a missing key must fail, got %+v", err)
	}
}

func TestModelBucketByIndex(t *testing.T) {
	indexByBigCounter := func(obj Object) ([]byte, error) {
		c, ok := obj.Value().(*counter)
		if !ok {
			return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
		}
		if c.Count >= 10 {
			return []byte("big"), nil
		}
		return []byte("small"), nil
	}

	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{},
		WithIDSequence(NewSequence("cnts", SeqID)),
		WithIndex("size", indexByBigCounter, false))

	if _, err := b.Put(db, nil, &counter{Count: 1}); err != nil {
		t.Fatalf("cannot put: %+v", err)
	}
	if _, err := b.Put(db, nil, &counter{Count: 12}); err != nil {
		t.Fatalf("cannot put: %+v", err)
	}
	if _, err := b.Put(db, nil, &counter{Count: 17}); err != nil {
		t.Fatalf("cannot put: %+v", err)
	}

	var big []counter
	keys, err := b.ByIndex(db, "size", []byte("big"), &big)
	if err != nil {
		t.Fatalf("cannot query by index: %+v", err)
	}
	if len(big) != 2 || len(keys) != 2 {
		t.Fatalf("want 2 big counters, got %d", len(big))
	}

	var small []*counter
	if _, err := b.ByIndex(db, "size", []byte("small"), &small); err != nil {
		t.Fatalf("cannot query by index into pointer slice: %+v", err)
	}
	if len(small) != 1 || small[0].Count != 1 {
		t.Fatalf("unexpected small counters: %+v", small)
	}

	var none []counter
	if _, err := b.ByIndex(db, "size", []byte("huge"), &none); err != nil {
		t.Fatalf("empty index lookup must not fail: %+v", err)
	}
	if len(none) != 0 {
		t.Fatalf("want no results, got %d", len(none))
	}
}

func TestModelBucketUniqueIndexConflict(t *testing.T) {
	constIndex := func(obj Object) ([]byte, error) {
		return []byte("all"), nil
	}

	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{},
		WithIDSequence(NewSequence("cnts", SeqID)),
		WithIndex("uniq", constIndex, true))

	if _, err := b.Put(db, nil, &counter{Count: 1}); err != nil {
		t.Fatalf("cannot put: %+v", err)
	}
	if _, err := b.Put(db, nil, &counter{Count: 2}); !errors.ErrDuplicate.Is(err) {
		t.Fatalf("want duplicate error, got %+v", err)
	}
}
