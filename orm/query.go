package orm

import (
	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
)

// queryPrefix returns all key/value pairs that begin with a given prefix.
func queryPrefix(db bounties.ReadOnlyKVStore, prefix []byte) ([]bounties.Model, error) {
	itr, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	defer itr.Release()

	var res []bounties.Model
	for {
		key, value, err := itr.Next()
		switch {
		case err == nil:
			res = append(res, bounties.Model{Key: key, Value: value})
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, err
		}
	}
}

// prefixRange turns a prefix into (start, end) to create
// and iterator
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed the last byte? then we need to carry
	for l > 0 && end[l] == 0 {
		l--
		end[l]++
	}
	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}
