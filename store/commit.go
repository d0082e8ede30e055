package store

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/iov-one/bounties/errors"
)

// MemCommitStore is an in-memory CommitKVStore. Data survives only for the
// process lifetime. The commit hash is a digest over all key value pairs,
// so two stores with the same content produce the same hash.
type MemCommitStore struct {
	state  CacheableKVStore
	latest CommitID
}

var _ CommitKVStore = (*MemCommitStore)(nil)

// NewMemCommitStore returns an empty in-memory commit store.
func NewMemCommitStore() *MemCommitStore {
	return &MemCommitStore{state: MemStore()}
}

// Get returns the value at the last committed state.
func (s *MemCommitStore) Get(key []byte) ([]byte, error) {
	return s.state.Get(key)
}

// CacheWrap returns a writable cache on top of the committed state.
func (s *MemCommitStore) CacheWrap() KVCacheWrap {
	return s.state.CacheWrap()
}

// Commit advances the version and computes the hash of the current state.
func (s *MemCommitStore) Commit() (CommitID, error) {
	hash, err := stateHash(s.state)
	if err != nil {
		return CommitID{}, err
	}
	s.latest = CommitID{
		Version: s.latest.Version + 1,
		Hash:    hash,
	}
	return s.latest, nil
}

// LoadLatestVersion is a noop, memory holds only the latest state.
func (s *MemCommitStore) LoadLatestVersion() error {
	return nil
}

// LatestVersion returns the result of the most recent commit.
func (s *MemCommitStore) LatestVersion() (CommitID, error) {
	return s.latest, nil
}

// stateHash digests every key value pair in iteration order. Lengths are
// mixed in so that shifting bytes between a key and its value changes the
// digest.
func stateHash(db ReadOnlyKVStore) ([]byte, error) {
	it, err := db.Iterator(nil, nil)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	h := sha256.New()
	var lens [8]byte
	for {
		key, value, err := it.Next()
		switch {
		case err == nil:
			// continue below
		case errors.ErrIteratorDone.Is(err):
			return h.Sum(nil), nil
		default:
			return nil, err
		}
		binary.BigEndian.PutUint32(lens[:4], uint32(len(key)))
		binary.BigEndian.PutUint32(lens[4:], uint32(len(value)))
		h.Write(lens[:])
		h.Write(key)
		h.Write(value)
	}
}
