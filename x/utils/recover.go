package utils

import (
	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
)

// Recovery is a decorator to recover from panics in transactions, so they
// can be logged as errors instead of killing the process.
type Recovery struct{}

var _ bounties.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator.
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors.
func (r Recovery) Check(ctx bounties.Context, store bounties.KVStore, tx bounties.Tx, next bounties.Checker) (_ *bounties.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors.
func (r Recovery) Deliver(ctx bounties.Context, store bounties.KVStore, tx bounties.Tx, next bounties.Deliverer) (_ *bounties.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
