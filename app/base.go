package app

import (
	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp adds DeliverTx and CheckTx handlers to the storage and query
// functionality of StoreApp.
type BaseApp struct {
	*StoreApp
	decoder bounties.TxDecoder
	handler bounties.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application. When debug is true,
// unredacted errors are returned in responses, do not enable in
// production.
func NewBaseApp(
	store *StoreApp,
	decoder bounties.TxDecoder,
	handler bounties.Handler,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx dispatches to the handler.
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return bounties.DeliverTxError(err, b.debug)
	}

	ctx := bounties.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"path", bounties.GetPath(tx))

	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	if err != nil {
		return bounties.DeliverTxError(err, b.debug)
	}
	return res.ToABCI()
}

// CheckTx dispatches to the handler.
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return bounties.CheckTxError(err, b.debug)
	}

	ctx := bounties.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"path", bounties.GetPath(tx))

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	if err != nil {
		return bounties.CheckTxError(err, b.debug)
	}
	return res.ToABCI()
}

// loadTx calls the decoder and captures any panics.
func (b BaseApp) loadTx(txBytes []byte) (tx bounties.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return tx, err
}
