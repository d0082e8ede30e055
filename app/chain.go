package app

import (
	"github.com/iov-one/bounties"
)

// Decorators holds a chain of decorators, not yet bound to a final
// handler.
type Decorators struct {
	chain []bounties.Decorator
}

// ChainDecorators creates a chain of decorators. The first decorator wraps
// all the following ones, the handler attached with WithHandler comes at
// the very end.
func ChainDecorators(chain ...bounties.Decorator) Decorators {
	return Decorators{chain: cutoffNil(chain)}
}

// Chain appends more decorators to the chain.
func (d Decorators) Chain(chain ...bounties.Decorator) Decorators {
	return Decorators{chain: append(d.chain, cutoffNil(chain)...)}
}

// WithHandler attaches the final handler and returns the complete stack.
func (d Decorators) WithHandler(h bounties.Handler) bounties.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// cutoffNil drops nil decorators, so optional decorators can be passed in
// unconditionally.
func cutoffNil(chain []bounties.Decorator) []bounties.Decorator {
	res := make([]bounties.Decorator, 0, len(chain))
	for _, d := range chain {
		if d != nil {
			res = append(res, d)
		}
	}
	return res
}

// step binds one decorator to the rest of the stack below it.
type step struct {
	d    bounties.Decorator
	next bounties.Handler
}

var _ bounties.Handler = step{}

func (s step) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	return s.d.Check(ctx, db, tx, s.next)
}

func (s step) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	return s.d.Deliver(ctx, db, tx, s.next)
}
