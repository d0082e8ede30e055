package bounty

import (
	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/asset"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/x"
)

// accept commits a payout to a fulfillment. The payout is the given
// fraction of the current custodied balance of every listed asset. The
// commitment must fit into the unallocated balance and into the
// remaining capacity of the fulfillment's milestone.
func (l *ledger) accept(db bounties.KVStore, b *Bounty, fulfillmentID []byte, f *Fulfillment, portion bounties.Fraction, assets []asset.Asset) error {
	addr := BountyAddr(f.BountyID)
	balance, err := l.custody.Balance(db, addr)
	if err != nil {
		return err
	}
	payout, err := payoutShares(balance, portion, assets)
	if err != nil {
		return err
	}
	committed, err := unpaidCommitments(db, l.fulfillments, f.BountyID)
	if err != nil {
		return err
	}
	for _, lot := range payout {
		free := balance.Get(lot.Asset).Amount - committed.Get(lot.Asset).Amount
		if lot.Amount > free {
			return errors.Wrapf(errors.ErrAmount, "asset %s: only %d unallocated", lot.ID(), free)
		}
	}
	milestoneUsed, err := milestoneCommitted(db, l.fulfillments, f.BountyID, f.Milestone, b.Mode)
	if err != nil {
		return err
	}
	if milestoneUsed+payout.Get(b.Mode).Amount > b.Amounts[f.Milestone] {
		return errors.Wrapf(errors.ErrState, "milestone #%d payout cap exceeded", f.Milestone)
	}

	f.Accepted = true
	f.Payout = payout
	_, err = l.fulfillments.Put(db, fulfillmentID, f)
	return err
}

// activeBounty loads a bounty that must be in the active stage with the
// deadline not yet reached.
func (l *ledger) activeBounty(ctx bounties.Context, db bounties.ReadOnlyKVStore, bountyID []byte) (*Bounty, error) {
	b, err := l.loadBounty(db, bountyID)
	if err != nil {
		return nil, err
	}
	if b.Stage != StageActive {
		return nil, errors.Wrap(errors.ErrState, "bounty is not active")
	}
	if bounties.IsExpired(ctx, b.Deadline) {
		return nil, errors.Wrap(errors.ErrExpired, "deadline passed")
	}
	return b, nil
}

// rejectInsiders ensures none of the given addresses controls the
// bounty. Issuers and approvers cannot be paid for their own bounty.
func rejectInsiders(b *Bounty, addrs []bounties.Address) error {
	for _, a := range addrs {
		if b.IsIssuer(a) || b.IsApprover(a) {
			return errors.Wrapf(errors.ErrUnauthorized, "address %s controls this bounty", a)
		}
	}
	return nil
}

// ------------------- fulfill -------------------

// FulfillHandler submits a claim of work against one milestone of an
// active bounty. Issuers and approvers cannot submit.
type FulfillHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = FulfillHandler{}

func (h FulfillHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: fulfillCost}, nil
}

func (h FulfillHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, _, submitter, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	f := &Fulfillment{
		Metadata:   &bounties.Metadata{Schema: 1},
		BountyID:   msg.BountyID,
		Fulfillers: msg.Fulfillers,
		Submitter:  submitter,
		Data:       msg.Data,
		Milestone:  msg.Milestone,
	}
	fulfillmentID, err := h.ops.fulfillments.Put(db, nil, f)
	if err != nil {
		return nil, errors.Wrap(err, "fulfillment")
	}
	return &bounties.DeliverResult{
		Data: fulfillmentID,
		Tags: eventTags("bounty_fulfilled", msg.BountyID),
	}, nil
}

func (h FulfillHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*FulfillMsg, *Bounty, bounties.Address, error) {
	var msg FulfillMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	b, err := h.ops.activeBounty(ctx, db, msg.BountyID)
	if err != nil {
		return nil, nil, nil, err
	}
	if int(msg.Milestone) >= len(b.Amounts) {
		return nil, nil, nil, errors.Wrapf(ErrBounds, "milestone #%d", msg.Milestone)
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	submitter := signer.Address()
	if err := rejectInsiders(b, append([]bounties.Address{submitter}, msg.Fulfillers...)); err != nil {
		return nil, nil, nil, err
	}
	return &msg, b, submitter, nil
}

// ------------------- update fulfillment -------------------

// UpdateFulfillmentHandler edits a submitted fulfillment. Only the
// submitter may edit and only until acceptance.
type UpdateFulfillmentHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = UpdateFulfillmentHandler{}

func (h UpdateFulfillmentHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: bountyUpdateCost}, nil
}

func (h UpdateFulfillmentHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, f, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	f.Fulfillers = msg.Fulfillers
	f.Data = msg.Data
	if _, err := h.ops.fulfillments.Put(db, msg.FulfillmentID, f); err != nil {
		return nil, err
	}
	return &bounties.DeliverResult{
		Tags: eventTags("fulfillment_updated", f.BountyID),
	}, nil
}

func (h UpdateFulfillmentHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*UpdateFulfillmentMsg, *Fulfillment, error) {
	var msg UpdateFulfillmentMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	f, err := h.ops.loadFulfillment(db, msg.FulfillmentID)
	if err != nil {
		return nil, nil, err
	}
	if f.Accepted {
		return nil, nil, errors.Wrap(errors.ErrState, "already accepted")
	}
	if !h.auth.HasAddress(ctx, f.Submitter) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "not the submitter")
	}
	b, err := h.ops.loadBounty(db, f.BountyID)
	if err != nil {
		return nil, nil, err
	}
	if err := rejectInsiders(b, msg.Fulfillers); err != nil {
		return nil, nil, err
	}
	return &msg, f, nil
}

// ------------------- accept -------------------

// AcceptHandler accepts a fulfillment and commits its payout. Only an
// issuer or approver of the bounty may accept and only once per
// fulfillment.
type AcceptHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = AcceptHandler{}

func (h AcceptHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: acceptCost}, nil
}

func (h AcceptHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, b, f, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ops.accept(db, b, msg.FulfillmentID, f, msg.Portion, msg.Assets); err != nil {
		return nil, err
	}
	return &bounties.DeliverResult{
		Tags: eventTags("fulfillment_accepted", f.BountyID),
	}, nil
}

func (h AcceptHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*AcceptMsg, *Bounty, *Fulfillment, error) {
	var msg AcceptMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	f, err := h.ops.loadFulfillment(db, msg.FulfillmentID)
	if err != nil {
		return nil, nil, nil, err
	}
	if f.Accepted {
		return nil, nil, nil, errors.Wrap(errors.ErrState, "already accepted")
	}
	b, err := h.ops.loadBounty(db, f.BountyID)
	if err != nil {
		return nil, nil, nil, err
	}
	if b.Stage != StageActive {
		return nil, nil, nil, errors.Wrap(errors.ErrState, "bounty is not active")
	}
	if err := authorizeApprover(ctx, h.auth, b); err != nil {
		return nil, nil, nil, err
	}
	return &msg, b, f, nil
}

// authorizeApprover passes if the transaction is signed by an issuer or
// an approver. With no approvers declared the issuers approve.
func authorizeApprover(ctx bounties.Context, auth x.Authenticator, b *Bounty) error {
	if x.HasAnyAddress(ctx, auth, b.Issuers) {
		return nil
	}
	if x.HasAnyAddress(ctx, auth, b.Approvers) {
		return nil
	}
	return errors.Wrap(errors.ErrUnauthorized, "not an approver")
}

// ------------------- fulfill and accept -------------------

// FulfillAndAcceptHandler records a fulfillment on behalf of the listed
// fulfillers and accepts it in the same operation. The accepting
// approver is the submitter.
type FulfillAndAcceptHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = FulfillAndAcceptHandler{}

func (h FulfillAndAcceptHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: fulfillCost + acceptCost}, nil
}

func (h FulfillAndAcceptHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, b, submitter, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	f := &Fulfillment{
		Metadata:   &bounties.Metadata{Schema: 1},
		BountyID:   msg.BountyID,
		Fulfillers: msg.Fulfillers,
		Submitter:  submitter,
		Data:       msg.Data,
		Milestone:  msg.Milestone,
	}
	fulfillmentID, err := h.ops.fulfillments.Put(db, nil, f)
	if err != nil {
		return nil, errors.Wrap(err, "fulfillment")
	}
	if err := h.ops.accept(db, b, fulfillmentID, f, msg.Portion, msg.Assets); err != nil {
		return nil, err
	}
	return &bounties.DeliverResult{
		Data: fulfillmentID,
		Tags: eventTags("fulfillment_accepted", msg.BountyID),
	}, nil
}

func (h FulfillAndAcceptHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*FulfillAndAcceptMsg, *Bounty, bounties.Address, error) {
	var msg FulfillAndAcceptMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	b, err := h.ops.activeBounty(ctx, db, msg.BountyID)
	if err != nil {
		return nil, nil, nil, err
	}
	if int(msg.Milestone) >= len(b.Amounts) {
		return nil, nil, nil, errors.Wrapf(ErrBounds, "milestone #%d", msg.Milestone)
	}
	if err := authorizeApprover(ctx, h.auth, b); err != nil {
		return nil, nil, nil, err
	}
	if err := rejectInsiders(b, msg.Fulfillers); err != nil {
		return nil, nil, nil, err
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, b, signer.Address(), nil
}

// ------------------- payment -------------------

// PaymentHandler pulls the committed payout of an accepted fulfillment.
// Any listed fulfiller may pull for the group, the funds are moved to
// the caller.
type PaymentHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = PaymentHandler{}

func (h PaymentHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: paymentCost}, nil
}

func (h PaymentHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, f, payee, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// The paid flag is persisted before moving any funds so a reentrant
	// call observes the fulfillment as already paid.
	f.Paid = true
	if _, err := h.ops.fulfillments.Put(db, msg.FulfillmentID, f); err != nil {
		return nil, err
	}
	if err := h.ops.custody.MoveLots(db, BountyAddr(f.BountyID), payee, f.Payout); err != nil {
		return nil, errors.Wrap(err, "move funds")
	}

	return &bounties.DeliverResult{
		Tags: eventTags("fulfillment_paid", f.BountyID),
	}, nil
}

func (h PaymentHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*PaymentMsg, *Fulfillment, bounties.Address, error) {
	var msg PaymentMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	f, err := h.ops.loadFulfillment(db, msg.FulfillmentID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !f.Accepted {
		return nil, nil, nil, errors.Wrap(errors.ErrState, "not accepted")
	}
	if f.Paid {
		return nil, nil, nil, errors.Wrap(errors.ErrState, "already paid")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	payee := signer.Address()
	if !f.IsFulfiller(payee) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "not a fulfiller")
	}
	return &msg, f, payee, nil
}
