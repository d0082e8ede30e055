package bountiestest

import "github.com/iov-one/bounties"

// Handler is a mock implementation of the bounties.Handler interface.
// Each method call is counted.
type Handler struct {
	checkCall   int
	CheckResult bounties.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult bounties.DeliverResult
	DeliverErr    error
}

var _ bounties.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	h.checkCall++
	return &h.CheckResult, h.CheckErr
}

func (h *Handler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	h.deliverCall++
	return &h.DeliverResult, h.DeliverErr
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
