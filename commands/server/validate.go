package server

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/store"
)

// ValidateGenesis runs the initializer over every given genesis file
// and returns the first failure. Results are written to a throwaway
// store, only the validation outcome matters.
func ValidateGenesis(ini bounties.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini bounties.Initializer, genesisPath string) error {
	b, err := ioutil.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrap(err, "cannot read genesis file")
	}

	var genesis struct {
		State bounties.Options `json:"app_state"`
	}
	if err := json.Unmarshal(b, &genesis); err != nil {
		return errors.Wrap(err, "cannot JSON deserialize genesis")
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()

	if err := ini.FromGenesis(genesis.State, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}

	return nil
}
