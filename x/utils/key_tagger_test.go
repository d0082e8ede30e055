package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/store"
)

// taggerHandler performs the given store operations.
type taggerHandler struct {
	sets    map[string][]byte
	deletes []string
	err     error
}

var _ bounties.Handler = taggerHandler{}

func (h taggerHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	return &bounties.CheckResult{}, h.err
}

func (h taggerHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	for k, v := range h.sets {
		if err := db.Set([]byte(k), v); err != nil {
			return nil, err
		}
	}
	for _, k := range h.deletes {
		if err := db.Delete([]byte(k)); err != nil {
			return nil, err
		}
	}
	return &bounties.DeliverResult{}, h.err
}

func TestKeyTaggerRecordsWrites(t *testing.T) {
	db := store.MemStore()
	ctx := context.Background()

	h := taggerHandler{
		sets:    map[string][]byte{"alpha": []byte("1"), "beta": []byte("2")},
		deletes: []string{"gone"},
	}

	res, err := NewKeyTagger().Deliver(ctx, db, nil, h)
	if err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}

	if len(res.Tags) != 3 {
		t.Fatalf("want 3 tags, got %d", len(res.Tags))
	}
	// Tags are sorted by key.
	wantKeys := []string{"alpha", "beta", "gone"}
	wantValues := []string{"s", "s", "d"}
	for i, tag := range res.Tags {
		if string(tag.Key) != wantKeys[i] {
			t.Fatalf("tag %d: want key %q, got %q", i, wantKeys[i], tag.Key)
		}
		if string(tag.Value) != wantValues[i] {
			t.Fatalf("tag %d: want value %q, got %q", i, wantValues[i], tag.Value)
		}
	}

	// The writes went through to the store.
	value, err := db.Get([]byte("alpha"))
	if err != nil {
		t.Fatalf("cannot read store: %+v", err)
	}
	if !bytes.Equal(value, []byte("1")) {
		t.Fatalf("want the write persisted, got %q", value)
	}
}

func TestKeyTaggerIgnoresFailedTx(t *testing.T) {
	db := store.MemStore()
	ctx := context.Background()

	failure := errors.Wrap(errors.ErrState, "handler failure")
	h := taggerHandler{
		sets: map[string][]byte{"alpha": []byte("1")},
		err:  failure,
	}

	if _, err := NewKeyTagger().Deliver(ctx, db, nil, h); !errors.ErrState.Is(err) {
		t.Fatalf("want the handler error, got %+v", err)
	}
}
