package app

import (
	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
)

// CommitStore handles loading from a CommitKVStore, maintaining different
// cache wraps for deliver and check, and returning useful state info.
type CommitStore struct {
	committed bounties.CommitKVStore
	deliver   bounties.KVCacheWrap
	check     bounties.KVCacheWrap
}

// NewCommitStore loads the CommitKVStore from disk or panics. It sets up
// the deliver and check caches.
func NewCommitStore(store bounties.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(err)
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
		check:     store.CacheWrap(),
	}
}

// CommitInfo returns the current height and hash.
func (cs *CommitStore) CommitInfo() (bounties.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit flushes the deliver cache to the underlying store and commits it,
// then regenerates fresh deliver and check caches.
func (cs *CommitStore) Commit() (bounties.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return bounties.CommitID{}, err
	}
	cs.check.Discard()

	res, err := cs.committed.Commit()
	if err != nil {
		return res, err
	}

	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return res, nil
}

// CheckStore returns the store implementation that must be used during the
// check phase.
func (cs *CommitStore) CheckStore() bounties.CacheableKVStore {
	return cs.check
}

// DeliverStore returns the store implementation that must be used during
// the delivery phase.
func (cs *CommitStore) DeliverStore() bounties.CacheableKVStore {
	return cs.deliver
}

// chainIDKey is where the chain id lives, outside of any bucket.
const chainIDKey = "_app:chainID"

// mustLoadChainID returns the chain id stored, if any. Panics on a db
// error.
func mustLoadChainID(kv bounties.KVStore) string {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		panic(err)
	}
	return string(v)
}

// saveChainID stores a chain id in the kv store. Returns an error if
// already set or the name is invalid.
func saveChainID(kv bounties.KVStore, chainID string) error {
	if !bounties.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrImmutable, "chain id set during genesis")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
