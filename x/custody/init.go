package custody

import (
	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/asset"
	"github.com/iov-one/bounties/errors"
)

// Initializer fulfils the Initializer interface to load initial account
// holdings from the genesis.
type Initializer struct{}

var _ bounties.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial account holdings from the genesis and
// credit them.
//
//   "custody": [
//     {"address": "<hex>", "holdings": [{"asset": {...}, "amount": 10}]}
//   ]
func (Initializer) FromGenesis(opts bounties.Options, db bounties.KVStore) error {
	var accounts []struct {
		Address  bounties.Address `json:"address"`
		Holdings asset.Lots       `json:"holdings"`
	}
	if err := opts.ReadOptions("custody", &accounts); err != nil {
		return errors.Wrap(err, "read options")
	}

	ctrl := NewController()
	for i, acc := range accounts {
		if err := acc.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d address", i)
		}
		for _, lot := range acc.Holdings {
			if err := ctrl.Issue(db, acc.Address, lot); err != nil {
				return errors.Wrapf(err, "account #%d", i)
			}
		}
	}
	return nil
}
