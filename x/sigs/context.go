package sigs

import (
	"context"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/x"
)

type contextKey int

const (
	contextKeySigners contextKey = iota
)

// withSigners is private, only this package can add signers.
func withSigners(ctx bounties.Context, signers []bounties.Condition) bounties.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate implements x.Authenticator based on the signers stored in
// the context by the sigs decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current context. May be empty.
func (a Authenticate) GetConditions(ctx bounties.Context) []bounties.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]bounties.Condition)
	return val
}

// HasAddress returns true iff any signer matches the address.
func (a Authenticate) HasAddress(ctx bounties.Context, addr bounties.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
