package orm

import (
	"encoding/binary"

	"github.com/iov-one/bounties"
)

// Sequence generates a series of monotonically growing keys. Values are
// ordered both as integers and byte-wise over their 8 byte big endian
// encoding, so sequence generated keys iterate in issue order.
type Sequence struct {
	id []byte
}

// NewSequence returns a named counter scoped to a bucket. State is kept
// under the key
//
//	_s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	return Sequence{
		id: []byte("_s." + bucket + ":" + name),
	}
}

// NextVal increments the sequence and returns its state as 8 bytes.
func (s *Sequence) NextVal(db bounties.KVStore) ([]byte, error) {
	_, raw, err := s.increment(db, 1)
	return raw, err
}

// NextInt increments the sequence and returns its state as an integer.
func (s *Sequence) NextInt(db bounties.KVStore) (int64, error) {
	val, _, err := s.increment(db, 1)
	return val, err
}

// Latest returns the most recently issued value without modifying the
// sequence. Use NextVal or NextInt to acquire a value that was not
// given out before.
func (s *Sequence) Latest(db bounties.KVStore) (int64, []byte, error) {
	return s.increment(db, 0)
}

func (s *Sequence) increment(db bounties.KVStore, inc int64) (int64, []byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, nil, err
	}
	val := DecodeSequence(raw)
	if inc == 0 {
		return val, raw, nil
	}
	val += inc
	raw = EncodeSequence(val)
	err = db.Set(s.id, raw)
	return val, raw, err
}

// DecodeSequence reads a sequence value from its persisted form. An
// absent value decodes to zero.
func DecodeSequence(raw []byte) int64 {
	if raw == nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(raw))
}

// EncodeSequence writes a sequence value as 8 big endian bytes.
func EncodeSequence(val int64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(val))
	return raw
}
