package bountiestest

import "github.com/iov-one/bounties"

// Decorator is a mock implementation of the bounties.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ bounties.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx, next bounties.Checker) (*bounties.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return &bounties.CheckResult{}, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx, next bounties.Deliverer) (*bounties.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return &bounties.DeliverResult{}, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate wraps the handler with one decorator and returns it as a
// single handler.
func Decorate(h bounties.Handler, d bounties.Decorator) bounties.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn bounties.Handler
	dc bounties.Decorator
}

var _ bounties.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
