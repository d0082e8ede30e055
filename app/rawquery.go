package app

import (
	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
)

// RawQueryHandler answers queries for raw keys of the application store,
// without any bucket interpretation. It backs generic clients that want to
// read the state through the abci query interface.
type RawQueryHandler struct{}

var _ bounties.QueryHandler = RawQueryHandler{}

// RegisterQuery registers the raw key lookup under the root path.
func (h RawQueryHandler) RegisterQuery(qr bounties.QueryRouter) {
	qr.Register("/", h)
}

func (h RawQueryHandler) Query(db bounties.ReadOnlyKVStore, mod string, data []byte) ([]bounties.Model, error) {
	switch mod {
	case bounties.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []bounties.Model{{Key: data, Value: value}}, nil
	case bounties.PrefixQueryMod:
		return h.queryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query modifier %q", mod)
	}
}

func (RawQueryHandler) queryPrefix(db bounties.ReadOnlyKVStore, prefix []byte) ([]bounties.Model, error) {
	start, end := prefixRange(prefix)
	itr, err := db.Iterator(start, end)
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

// prefixRange turns a prefix into a (start, end) iterator domain.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and increment the last byte, carrying on overflow
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++
	for l > 0 && end[l] == 0 {
		l--
		end[l]++
	}
	// a prefix of all 0xff has no end to its range
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}
