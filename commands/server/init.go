package server

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/bounties/errors"
)

// GenOptions turns the remaining command line arguments into the
// application state for the genesis file. This is application specific.
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd adds the application state to an existing genesis file. The
// genesis file itself must be created first, with tendermint init.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	if gen == nil {
		return nil
	}
	options, err := gen(args)
	if err != nil {
		return err
	}

	genFile := filepath.Join(home, "config", "genesis.json")
	logger.Info("Writing app state to genesis file", "path", genFile)
	return addAppStateToGenesis(genFile, options)
}

// genesisDoc carries tendermint specific structures we do not want to
// parse. Keep every field raw and only set the one key we own.
type genesisDoc map[string]json.RawMessage

func addAppStateToGenesis(filename string, appState json.RawMessage) error {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "cannot read genesis file")
	}
	var doc genesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrap(err, "cannot JSON deserialize genesis")
	}
	doc["app_state"] = appState
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, out, 0600)
}
