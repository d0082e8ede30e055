package app

import (
	"bytes"
	"testing"

	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/store"
)

func TestCommitStoreIsolatesPhases(t *testing.T) {
	cs := NewCommitStore(store.NewMemCommitStore())

	if err := cs.DeliverStore().Set([]byte("delivered"), []byte("1")); err != nil {
		t.Fatalf("cannot write: %+v", err)
	}
	if err := cs.CheckStore().Set([]byte("checked"), []byte("1")); err != nil {
		t.Fatalf("cannot write: %+v", err)
	}

	// Writes in one phase are invisible to the other.
	if has, _ := cs.CheckStore().Has([]byte("delivered")); has {
		t.Fatal("deliver write visible to check")
	}
	if has, _ := cs.DeliverStore().Has([]byte("checked")); has {
		t.Fatal("check write visible to deliver")
	}

	if _, err := cs.Commit(); err != nil {
		t.Fatalf("cannot commit: %+v", err)
	}

	// Only the delivered state survives the commit.
	value, err := cs.DeliverStore().Get([]byte("delivered"))
	if err != nil {
		t.Fatalf("cannot read: %+v", err)
	}
	if !bytes.Equal(value, []byte("1")) {
		t.Fatalf("want the delivered write, got %q", value)
	}
	if has, _ := cs.CheckStore().Has([]byte("checked")); has {
		t.Fatal("check writes must be discarded on commit")
	}
}

func TestCommitStoreVersionAndHash(t *testing.T) {
	cs := NewCommitStore(store.NewMemCommitStore())

	info, err := cs.CommitInfo()
	if err != nil {
		t.Fatalf("cannot read commit info: %+v", err)
	}
	if info.Version != 0 {
		t.Fatalf("want a fresh store, got version %d", info.Version)
	}

	if err := cs.DeliverStore().Set([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("cannot write: %+v", err)
	}
	first, err := cs.Commit()
	if err != nil {
		t.Fatalf("cannot commit: %+v", err)
	}
	if first.Version != 1 {
		t.Fatalf("want version 1, got %d", first.Version)
	}

	if err := cs.DeliverStore().Set([]byte("b"), []byte("2")); err != nil {
		t.Fatalf("cannot write: %+v", err)
	}
	second, err := cs.Commit()
	if err != nil {
		t.Fatalf("cannot commit: %+v", err)
	}
	if second.Version != 2 {
		t.Fatalf("want version 2, got %d", second.Version)
	}
	if bytes.Equal(first.Hash, second.Hash) {
		t.Fatal("the state hash must change with the state")
	}
}

func TestChainIDStorage(t *testing.T) {
	db := store.MemStore()

	if id := mustLoadChainID(db); id != "" {
		t.Fatalf("want no chain id on a fresh store, got %q", id)
	}
	if err := saveChainID(db, "my-chain-22"); err != nil {
		t.Fatalf("cannot save chain id: %+v", err)
	}
	if id := mustLoadChainID(db); id != "my-chain-22" {
		t.Fatalf("want the stored chain id, got %q", id)
	}

	// The chain id is write once.
	if err := saveChainID(db, "my-chain-33"); !errors.ErrImmutable.Is(err) {
		t.Fatalf("want immutable, got %+v", err)
	}

	if err := saveChainID(store.MemStore(), "no"); !errors.ErrInput.Is(err) {
		t.Fatalf("a too short chain id must be rejected, got %+v", err)
	}
}
