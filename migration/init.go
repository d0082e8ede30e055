package migration

import (
	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
)

// InitPkg initializes the schema version of each given package to 1,
// unless the package is already initialized.
func InitPkg(db bounties.KVStore, packageNames ...string) error {
	b := NewSchemaBucket()
	for _, name := range packageNames {
		if _, err := b.CurrentSchema(db, name); err == nil {
			continue
		}
		schema := Schema{
			Metadata: &bounties.Metadata{Schema: 1},
			Pkg:      name,
			Version:  1,
		}
		if err := b.Save(db, &schema); err != nil {
			return errors.Wrapf(err, "package %q", name)
		}
	}
	return nil
}

// MustInitPkg initializes the schema version of each given package to 1.
// It panics on failure and exists to simplify test setup.
func MustInitPkg(db bounties.KVStore, packageNames ...string) {
	if err := InitPkg(db, packageNames...); err != nil {
		panic(err)
	}
}

// Initializer sets up the initial package schema versions declared in the
// genesis.
type Initializer struct{}

var _ bounties.Initializer = (*Initializer)(nil)

// FromGenesis initializes the schema version of every package listed under
// the "migration" genesis option.
//
//   "migration": {
//     "packages": ["bounty", "custody", "relay"]
//   }
func (Initializer) FromGenesis(opts bounties.Options, db bounties.KVStore) error {
	var conf struct {
		Packages []string `json:"packages"`
	}
	if err := opts.ReadOptions("migration", &conf); err != nil {
		return errors.Wrap(err, "read options")
	}
	return InitPkg(db, conf.Packages...)
}
