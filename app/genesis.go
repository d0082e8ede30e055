package app

import (
	"github.com/iov-one/bounties"
)

// ChainInitializers combines many initializers into one. Each extension
// can register its own initializer and have it run during InitChain.
func ChainInitializers(inits ...bounties.Initializer) bounties.Initializer {
	return chainInitializer{inits: inits}
}

type chainInitializer struct {
	inits []bounties.Initializer
}

// FromGenesis passes the options to all initializers in the list, aborting
// at the first error.
func (c chainInitializer) FromGenesis(opts bounties.Options, db bounties.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
