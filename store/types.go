package store

import "github.com/iov-one/bounties"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = bounties.ReadOnlyKVStore
type KVStore = bounties.KVStore
type SetDeleter = bounties.SetDeleter
type Batch = bounties.Batch
type Iterator = bounties.Iterator
type CacheableKVStore = bounties.CacheableKVStore
type KVCacheWrap = bounties.KVCacheWrap
type CommitKVStore = bounties.CommitKVStore
type CommitID = bounties.CommitID
type Model = bounties.Model
