package std

import (
	"encoding/json"
	"fmt"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/bounties/crypto"
)

// initialHoldings is the native balance granted to the dev mode
// account created by GenInitOptions.
const initialHoldings = 123456789

// GenInitOptions returns a default app_state for the genesis file: one
// funded account that also owns and operates the relay. The address
// can be provided as the first argument, otherwise a fresh key is
// generated and printed so dev mode transactions can be signed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr string
	if len(args) > 0 {
		addr = args[0]
	} else {
		priv := crypto.GenPrivKeyEd25519()
		addr = priv.PublicKey().Address().String()
		wallet, err := priv.Marshal()
		if err != nil {
			return nil, err
		}
		fmt.Printf("private key: %s\n", wallet)
		fmt.Printf("address: %s\n", addr)
	}

	opts := fmt.Sprintf(`{
		"migration": {"packages": ["bounty", "custody", "relay", "sigs"]},
		"custody": [
			{"address": "%s", "holdings": [{"asset": {"kind": "native"}, "amount": %d}]}
		],
		"relay": {"owner": "%s", "relayer": "%s"}
	}`, addr, initialHoldings, addr, addr)
	return []byte(opts), nil
}

// GenerateApp constructs the application ran by the start command.
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	application := Application("bounties", Stack(), TxDecoder, debug)
	application.WithLogger(logger.With("module", "app"))
	return application, nil
}
