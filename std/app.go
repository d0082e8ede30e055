/*
Package std wires together the standard components into a complete ABCI
application: the transaction envelope, the decorator stack, the message
router and the genesis initializers.
*/
package std

import (
	"context"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/app"
	"github.com/iov-one/bounties/migration"
	"github.com/iov-one/bounties/store"
	"github.com/iov-one/bounties/x"
	"github.com/iov-one/bounties/x/bounty"
	"github.com/iov-one/bounties/x/custody"
	"github.com/iov-one/bounties/x/relay"
	"github.com/iov-one/bounties/x/sigs"
	"github.com/iov-one/bounties/x/utils"
)

// Authenticator returns the chain authentication: direct signatures plus
// relayed intents.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, relay.Authenticate{})
}

// Chain returns the standard chain of decorators, handling logging,
// recovery, write isolation and authentication.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewKeyTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator().AllowMissingSigs(),
		// on DeliverTx, a failed message reverts every write below,
		// relay nonces included. Sequences of direct signatures stick.
		utils.NewSavepoint().OnDeliver(),
		// relayed transactions carry an intent instead of signatures
		relay.NewDecorator(),
	)
}

// Router returns the router with all message handlers registered.
func Router(auth x.Authenticator) *app.Router {
	r := app.NewRouter()
	bounty.RegisterRoutes(r, auth, custody.NewController())
	relay.RegisterRoutes(r, auth)
	sigs.RegisterRoutes(r, auth)
	return r
}

// QueryRouter returns the query router with all buckets registered.
func QueryRouter() bounties.QueryRouter {
	qr := bounties.NewQueryRouter()
	app.RawQueryHandler{}.RegisterQuery(qr)
	bounty.RegisterQuery(qr)
	relay.RegisterQuery(qr)
	sigs.RegisterQuery(qr)
	custody.RegisterQuery(qr)
	return qr
}

// Initializers returns the genesis initializer chain.
func Initializers() bounties.Initializer {
	return app.ChainInitializers(
		migration.Initializer{},
		custody.Initializer{},
		relay.Initializer{},
	)
}

// Stack wires the standard router into the standard decorator chain. The
// result can be passed into a BaseApp.
func Stack() bounties.Handler {
	return Chain().WithHandler(Router(Authenticator()))
}

// Application constructs the complete ABCI application. When debug is
// true, unredacted errors are returned in responses.
func Application(name string, h bounties.Handler, decoder bounties.TxDecoder, debug bool) app.BaseApp {
	kv := store.NewMemCommitStore()
	storeApp := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	storeApp = storeApp.WithInit(Initializers())
	return app.NewBaseApp(storeApp, decoder, h, debug)
}
