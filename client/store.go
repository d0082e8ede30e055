package client

import (
	"bytes"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/app"
	"github.com/iov-one/bounties/errors"
)

// abciQuerier is implemented by Client as well as by the abci application
// itself, which lets tests read state without a node.
type abciQuerier interface {
	Query(RequestQuery) ResponseQuery
}

// ABCIStore exposes the abci query interface as a ReadOnlyKVStore over the
// committed application state. It can be wrapped with a bucket to reuse
// key, index and parse logic on the client side.
type ABCIStore struct {
	query abciQuerier
}

var _ bounties.ReadOnlyKVStore = (*ABCIStore)(nil)

func NewABCIStore(query abciQuerier) *ABCIStore {
	return &ABCIStore{query: query}
}

// Get will query for exactly one value over the abci store.
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	res := a.query.Query(RequestQuery{Path: "/", Data: key})
	if res.Code != 0 {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	if len(res.Value) == 0 {
		return nil, nil
	}
	var value app.ResultSet
	if err := value.Unmarshal(res.Value); err != nil {
		return nil, errors.Wrap(err, "unmarshal result set")
	}
	if len(value.Results) == 0 {
		return nil, nil
	}
	return value.Results[0], nil
}

// Has returns true if the given key is in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	value, err := a.Get(key)
	if err != nil {
		return false, err
	}
	return len(value) > 0, nil
}

// Iterator iterates over the given domain. Only domains a prefix query can
// express are supported over the abci query interface.
func (a *ABCIStore) Iterator(start, end []byte) (bounties.Iterator, error) {
	prefix, err := prefixFromRange(start, end)
	if err != nil {
		return nil, err
	}
	res := a.query.Query(RequestQuery{Path: "/?" + bounties.PrefixQueryMod, Data: prefix})
	if res.Code != 0 {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	models, err := toModels(res.Key, res.Value)
	if err != nil {
		return nil, errors.Wrap(err, "cannot convert to models")
	}
	return NewSliceIterator(models), nil
}

// ReverseIterator is not supported over the abci query interface.
func (a *ABCIStore) ReverseIterator(start, end []byte) (bounties.Iterator, error) {
	return nil, errors.Wrap(errors.ErrHuman, "reverse iteration not supported over abci query")
}

// prefixFromRange reverses the range a prefix iteration produces back into
// the prefix, so it can be serialized over the abci query.
func prefixFromRange(start, end []byte) ([]byte, error) {
	if start == nil && end == nil {
		return nil, nil
	}
	if start == nil || end == nil {
		return nil, errors.Wrap(errors.ErrInput, "open ended ranges cannot be expressed as a prefix query")
	}
	// for a prefix range, end is the start with its last byte
	// incremented, carrying on overflow
	want := make([]byte, len(start))
	copy(want, start)
	l := len(want) - 1
	want[l]++
	for l > 0 && want[l] == 0 {
		l--
		want[l]++
	}
	if !bytes.Equal(want, end) {
		return nil, errors.Wrap(errors.ErrInput, "only prefix ranges are supported over abci query")
	}
	return start, nil
}

func toModels(keys, values []byte) ([]bounties.Model, error) {
	if len(keys) == 0 && len(values) == 0 {
		return nil, nil
	}
	var k, v app.ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return app.JoinResults(&k, &v)
}

// sliceIterator iterates over a slice of models
type sliceIterator struct {
	data []bounties.Model
	idx  int
}

// NewSliceIterator creates a new Iterator over this slice
func NewSliceIterator(data []bounties.Model) bounties.Iterator {
	return &sliceIterator{data: data}
}

func (s *sliceIterator) Next() (key, value []byte, err error) {
	if s.idx >= len(s.data) {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.data[s.idx]
	s.idx++
	return m.Key, m.Value, nil
}

func (s *sliceIterator) Release() {
	s.data = nil
}
