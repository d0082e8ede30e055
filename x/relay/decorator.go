package relay

import (
	"context"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/x"
)

const intentVerifyCost = 500

type contextKey int

const (
	contextKeySigner contextKey = iota
)

// withSigner is private, only this package can authenticate a relayed
// signer.
func withSigner(ctx bounties.Context, signer bounties.Condition) bounties.Context {
	return context.WithValue(ctx, contextKeySigner, signer)
}

// Authenticate implements x.Authenticator based on the intent signer
// stored in the context by the relay decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the relayed signer of the current context, if
// any.
func (a Authenticate) GetConditions(ctx bounties.Context) []bounties.Condition {
	signer, _ := ctx.Value(contextKeySigner).(bounties.Condition)
	if signer == nil {
		return nil
	}
	return []bounties.Condition{signer}
}

// HasAddress returns true iff the relayed signer matches the address.
func (a Authenticate) HasAddress(ctx bounties.Context, addr bounties.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// Decorator verifies forwarded intents and authenticates the original
// signer for the wrapped message. Transactions without an intent pass
// through untouched.
type Decorator struct{}

var _ bounties.Decorator = Decorator{}

// NewDecorator returns a relay decorator.
func NewDecorator() Decorator {
	return Decorator{}
}

// Check verifies the intent before calling down the stack.
func (d Decorator) Check(ctx bounties.Context, store bounties.KVStore, tx bounties.Tx, next bounties.Checker) (*bounties.CheckResult, error) {
	itx, ok := tx.(IntentTx)
	if !ok || itx.GetIntent() == nil {
		return next.Check(ctx, store, tx)
	}

	signer, err := VerifyIntent(ctx, store, itx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot verify intent")
	}
	ctx = withSigner(ctx, signer)

	res, err := next.Check(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	res.GasPayment += intentVerifyCost
	return res, nil
}

// Deliver verifies the intent before calling down the stack.
func (d Decorator) Deliver(ctx bounties.Context, store bounties.KVStore, tx bounties.Tx, next bounties.Deliverer) (*bounties.DeliverResult, error) {
	itx, ok := tx.(IntentTx)
	if !ok || itx.GetIntent() == nil {
		return next.Deliver(ctx, store, tx)
	}

	signer, err := VerifyIntent(ctx, store, itx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot verify intent")
	}
	ctx = withSigner(ctx, signer)
	return next.Deliver(ctx, store, tx)
}
