package utils

import (
	"context"
	"testing"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/bountiestest"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/store"
)

// writingHandler writes a key and then optionally fails.
type writingHandler struct {
	key   []byte
	value []byte
	err   error
}

var _ bounties.Handler = writingHandler{}

func (h writingHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{}, h.err
}

func (h writingHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &bounties.DeliverResult{}, h.err
}

func TestSavepointRollsBackOnError(t *testing.T) {
	db := store.MemStore()
	ctx := context.Background()

	failure := errors.Wrap(errors.ErrState, "handler failure")
	h := writingHandler{key: []byte("dirty"), value: []byte("write"), err: failure}

	if _, err := NewSavepoint().OnDeliver().Deliver(ctx, db, nil, h); !errors.ErrState.Is(err) {
		t.Fatalf("want the handler error, got %+v", err)
	}

	has, err := db.Has([]byte("dirty"))
	if err != nil {
		t.Fatalf("cannot read store: %+v", err)
	}
	if has {
		t.Fatal("write must be rolled back on error")
	}
}

func TestSavepointCommitsOnSuccess(t *testing.T) {
	db := store.MemStore()
	ctx := context.Background()

	h := writingHandler{key: []byte("clean"), value: []byte("write")}

	if _, err := NewSavepoint().OnDeliver().Deliver(ctx, db, nil, h); err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}

	value, err := db.Get([]byte("clean"))
	if err != nil {
		t.Fatalf("cannot read store: %+v", err)
	}
	if string(value) != "write" {
		t.Fatalf("want the write persisted, got %q", value)
	}
}

func TestSavepointInactiveWithoutTrigger(t *testing.T) {
	db := store.MemStore()
	ctx := context.Background()

	failure := errors.Wrap(errors.ErrState, "handler failure")
	h := writingHandler{key: []byte("dirty"), value: []byte("write"), err: failure}

	// Only the check savepoint is armed, deliver writes directly.
	if _, err := NewSavepoint().OnCheck().Deliver(ctx, db, nil, h); !errors.ErrState.Is(err) {
		t.Fatalf("want the handler error, got %+v", err)
	}

	has, err := db.Has([]byte("dirty"))
	if err != nil {
		t.Fatalf("cannot read store: %+v", err)
	}
	if !has {
		t.Fatal("write must not be rolled back without a savepoint")
	}
}

func TestSavepointPassesResultThrough(t *testing.T) {
	db := store.MemStore()
	ctx := context.Background()

	next := &bountiestest.Handler{}
	if _, err := NewSavepoint().OnCheck().Check(ctx, db, nil, next); err != nil {
		t.Fatalf("cannot check: %+v", err)
	}
	if next.CheckCallCount() != 1 {
		t.Fatalf("want 1 check, got %d", next.CheckCallCount())
	}
}
