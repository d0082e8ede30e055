package utils

import (
	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/store"
	"github.com/tendermint/tendermint/libs/common"
)

// KeyTagger is a decorator that records all set and delete operations
// performed by its children and adds all those keys as DeliverTx tags.
type KeyTagger struct{}

var _ bounties.Decorator = KeyTagger{}

// NewKeyTagger creates a KeyTagger decorator.
func NewKeyTagger() KeyTagger {
	return KeyTagger{}
}

// Check does nothing.
func (KeyTagger) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx, next bounties.Checker) (*bounties.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver passes a recording KVStore into the child and uses it to
// calculate tags to add to the DeliverResult.
func (KeyTagger) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx, next bounties.Deliverer) (*bounties.DeliverResult, error) {
	record := store.NewRecordingStore(db)
	res, err := next.Deliver(ctx, record, tx)
	if err != nil {
		return res, err
	}
	res.Tags = append(res.Tags, kvPairs(record)...)
	return res, nil
}

var (
	recordSet    = []byte("s")
	recordDelete = []byte("d")
)

// kvPairs gets the recorded changes from the underlying store if
// possible.
func kvPairs(db bounties.KVStore) common.KVPairs {
	r, ok := db.(store.Recorder)
	if !ok {
		return nil
	}
	return changesToTags(r.Changes())
}

func changesToTags(changes map[string][]byte) common.KVPairs {
	if len(changes) == 0 {
		return nil
	}
	res := make(common.KVPairs, 0, len(changes))
	for k, v := range changes {
		tag := recordSet
		if v == nil {
			tag = recordDelete
		}
		res = append(res, common.KVPair{
			Key:   []byte(k),
			Value: tag,
		})
	}
	res.Sort()
	return res
}
