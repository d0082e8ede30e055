package relay

import (
	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
)

// Initializer fulfils the Initializer interface to load the relay
// configuration from the genesis.
type Initializer struct{}

var _ bounties.Initializer = (*Initializer)(nil)

// FromGenesis will parse the relay owner, and optionally the relayer,
// from the genesis.
//
//   "relay": {"owner": "<hex>", "relayer": "<hex>"}
func (Initializer) FromGenesis(opts bounties.Options, db bounties.KVStore) error {
	var conf struct {
		Owner   bounties.Address `json:"owner"`
		Relayer bounties.Address `json:"relayer"`
	}
	if err := opts.ReadOptions("relay", &conf); err != nil {
		return errors.Wrap(err, "read options")
	}
	if len(conf.Owner) == 0 {
		// Relay is optional, without an owner it stays disabled.
		return nil
	}
	if err := conf.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if len(conf.Relayer) != 0 {
		if err := conf.Relayer.Validate(); err != nil {
			return errors.Wrap(err, "relayer")
		}
	}

	c := Config{
		Metadata: &bounties.Metadata{Schema: 1},
		Owner:    conf.Owner,
		Relayer:  conf.Relayer,
	}
	_, err := NewConfigBucket().Put(db, configKey, &c)
	return err
}
