package bounty

import (
	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/x"
)

// issuerBounty loads a bounty and ensures the transaction is authorized
// by at least one of its issuers.
func issuerBounty(ctx bounties.Context, db bounties.ReadOnlyKVStore, auth x.Authenticator, ops *ledger, bountyID []byte) (*Bounty, error) {
	b, err := ops.loadBounty(db, bountyID)
	if err != nil {
		return nil, err
	}
	if !x.HasAnyAddress(ctx, auth, b.Issuers) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "not an issuer")
	}
	return b, nil
}

// draftBounty is issuerBounty restricted to the draft stage.
func draftBounty(ctx bounties.Context, db bounties.ReadOnlyKVStore, auth x.Authenticator, ops *ledger, bountyID []byte) (*Bounty, error) {
	b, err := issuerBounty(ctx, db, auth, ops, bountyID)
	if err != nil {
		return nil, err
	}
	if b.Stage != StageDraft {
		return nil, errors.Wrap(errors.ErrState, "bounty is not a draft")
	}
	return b, nil
}

func editResult(bountyID []byte) *bounties.DeliverResult {
	return &bounties.DeliverResult{
		Tags: eventTags("bounty_changed", bountyID),
	}
}

// ------------------- wholesale update -------------------

// UpdateBountyHandler replaces all mutable attributes of a draft bounty
// at once.
type UpdateBountyHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = UpdateBountyHandler{}

func (h UpdateBountyHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: bountyUpdateCost}, nil
}

func (h UpdateBountyHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, b, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	b.Issuers = msg.Issuers
	b.Approvers = msg.Approvers
	b.Data = msg.Data
	b.Deadline = msg.Deadline
	b.Amounts = msg.Amounts
	if _, err := h.ops.bounties.Put(db, msg.BountyID, b); err != nil {
		return nil, err
	}
	return editResult(msg.BountyID), nil
}

func (h UpdateBountyHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*UpdateBountyMsg, *Bounty, error) {
	var msg UpdateBountyMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	b, err := draftBounty(ctx, db, h.auth, h.ops, msg.BountyID)
	if err != nil {
		return nil, nil, err
	}
	if !bounties.InTheFuture(ctx, msg.Deadline.Time()) {
		return nil, nil, errors.Wrap(errors.ErrInput, "deadline must be in the future")
	}
	return &msg, b, nil
}

// ------------------- update issuer -------------------

// UpdateIssuerHandler replaces the issuer at one index of a draft
// bounty.
type UpdateIssuerHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = UpdateIssuerHandler{}

func (h UpdateIssuerHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: bountyUpdateCost}, nil
}

func (h UpdateIssuerHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, b, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	b.Issuers[msg.IssuerIndex] = msg.Issuer
	if _, err := h.ops.bounties.Put(db, msg.BountyID, b); err != nil {
		return nil, err
	}
	return editResult(msg.BountyID), nil
}

func (h UpdateIssuerHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*UpdateIssuerMsg, *Bounty, error) {
	var msg UpdateIssuerMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	b, err := draftBounty(ctx, db, h.auth, h.ops, msg.BountyID)
	if err != nil {
		return nil, nil, err
	}
	if int(msg.IssuerIndex) >= len(b.Issuers) {
		return nil, nil, errors.Wrapf(ErrBounds, "issuer #%d", msg.IssuerIndex)
	}
	if b.IsIssuer(msg.Issuer) && !b.Issuers[msg.IssuerIndex].Equals(msg.Issuer) {
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "address %s", msg.Issuer)
	}
	return &msg, b, nil
}

// ------------------- update approver -------------------

// UpdateApproverHandler replaces the approver at one index of a draft
// bounty.
type UpdateApproverHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = UpdateApproverHandler{}

func (h UpdateApproverHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: bountyUpdateCost}, nil
}

func (h UpdateApproverHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, b, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	b.Approvers[msg.ApproverIndex] = msg.Approver
	if _, err := h.ops.bounties.Put(db, msg.BountyID, b); err != nil {
		return nil, err
	}
	return editResult(msg.BountyID), nil
}

func (h UpdateApproverHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*UpdateApproverMsg, *Bounty, error) {
	var msg UpdateApproverMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	b, err := draftBounty(ctx, db, h.auth, h.ops, msg.BountyID)
	if err != nil {
		return nil, nil, err
	}
	if int(msg.ApproverIndex) >= len(b.Approvers) {
		return nil, nil, errors.Wrapf(ErrBounds, "approver #%d", msg.ApproverIndex)
	}
	if containsAddress(b.Approvers, msg.Approver) && !b.Approvers[msg.ApproverIndex].Equals(msg.Approver) {
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "address %s", msg.Approver)
	}
	return &msg, b, nil
}

// ------------------- update data -------------------

// UpdateDataHandler replaces the content reference of a draft bounty.
type UpdateDataHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = UpdateDataHandler{}

func (h UpdateDataHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: bountyUpdateCost}, nil
}

func (h UpdateDataHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, b, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	b.Data = msg.Data
	if _, err := h.ops.bounties.Put(db, msg.BountyID, b); err != nil {
		return nil, err
	}
	return editResult(msg.BountyID), nil
}

func (h UpdateDataHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*UpdateDataMsg, *Bounty, error) {
	var msg UpdateDataMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	b, err := draftBounty(ctx, db, h.auth, h.ops, msg.BountyID)
	if err != nil {
		return nil, nil, err
	}
	return &msg, b, nil
}

// ------------------- update deadline -------------------

// UpdateDeadlineHandler moves the deadline of a draft bounty to any
// point in the future.
type UpdateDeadlineHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = UpdateDeadlineHandler{}

func (h UpdateDeadlineHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: bountyUpdateCost}, nil
}

func (h UpdateDeadlineHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, b, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	b.Deadline = msg.Deadline
	if _, err := h.ops.bounties.Put(db, msg.BountyID, b); err != nil {
		return nil, err
	}
	return editResult(msg.BountyID), nil
}

func (h UpdateDeadlineHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*UpdateDeadlineMsg, *Bounty, error) {
	var msg UpdateDeadlineMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	b, err := draftBounty(ctx, db, h.auth, h.ops, msg.BountyID)
	if err != nil {
		return nil, nil, err
	}
	if !bounties.InTheFuture(ctx, msg.Deadline.Time()) {
		return nil, nil, errors.Wrap(errors.ErrInput, "deadline must be in the future")
	}
	return &msg, b, nil
}

// ------------------- extend deadline -------------------

// ExtendDeadlineHandler moves the deadline forward. Allowed in any
// stage, the deadline can never be shortened through this path.
type ExtendDeadlineHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = ExtendDeadlineHandler{}

func (h ExtendDeadlineHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: bountyUpdateCost}, nil
}

func (h ExtendDeadlineHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, b, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	b.Deadline = msg.Deadline
	if _, err := h.ops.bounties.Put(db, msg.BountyID, b); err != nil {
		return nil, err
	}
	return editResult(msg.BountyID), nil
}

func (h ExtendDeadlineHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*ExtendDeadlineMsg, *Bounty, error) {
	var msg ExtendDeadlineMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	b, err := issuerBounty(ctx, db, h.auth, h.ops, msg.BountyID)
	if err != nil {
		return nil, nil, err
	}
	if msg.Deadline <= b.Deadline {
		return nil, nil, errors.Wrap(errors.ErrInput, "deadline can only be extended")
	}
	return &msg, b, nil
}

// ------------------- update mode -------------------

// UpdateModeHandler changes the asset the milestone amounts are
// denominated in. Only possible while the bounty is a draft and no funds
// are custodied.
type UpdateModeHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = UpdateModeHandler{}

func (h UpdateModeHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: bountyUpdateCost}, nil
}

func (h UpdateModeHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, b, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	b.Mode = msg.Mode
	if _, err := h.ops.bounties.Put(db, msg.BountyID, b); err != nil {
		return nil, err
	}
	return editResult(msg.BountyID), nil
}

func (h UpdateModeHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*UpdateModeMsg, *Bounty, error) {
	var msg UpdateModeMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	b, err := draftBounty(ctx, db, h.auth, h.ops, msg.BountyID)
	if err != nil {
		return nil, nil, err
	}
	balance, err := h.ops.custody.Balance(db, BountyAddr(msg.BountyID))
	if err != nil {
		return nil, nil, err
	}
	if !balance.IsEmpty() {
		return nil, nil, errors.Wrap(errors.ErrState, "funds already custodied")
	}
	return &msg, b, nil
}

// ------------------- increase payout -------------------

// IncreasePayoutHandler raises the payout target of one milestone,
// optionally depositing extra funds first.
type IncreasePayoutHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = IncreasePayoutHandler{}

func (h IncreasePayoutHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: contributeCost}, nil
}

func (h IncreasePayoutHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, b, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if !msg.ExtraDeposit.IsEmpty() {
		if _, err := h.ops.contribute(db, msg.BountyID, signer, msg.ExtraDeposit); err != nil {
			return nil, err
		}
	}

	// An active bounty must stay funded after the raise.
	if b.Stage == StageActive {
		amounts := append([]int64{}, b.Amounts...)
		amounts[msg.Milestone] = msg.NewAmount
		check := &Bounty{Amounts: amounts}
		total, err := check.Total()
		if err != nil {
			return nil, err
		}
		funded, err := h.ops.modeBalance(db, msg.BountyID, b.Mode)
		if err != nil {
			return nil, err
		}
		if funded < total {
			return nil, errors.Wrapf(errors.ErrAmount, "balance %d does not cover milestone total %d", funded, total)
		}
	}

	b.Amounts[msg.Milestone] = msg.NewAmount
	if _, err := h.ops.bounties.Put(db, msg.BountyID, b); err != nil {
		return nil, err
	}
	return editResult(msg.BountyID), nil
}

func (h IncreasePayoutHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*IncreasePayoutMsg, *Bounty, bounties.Address, error) {
	var msg IncreasePayoutMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	b, err := issuerBounty(ctx, db, h.auth, h.ops, msg.BountyID)
	if err != nil {
		return nil, nil, nil, err
	}
	if b.Stage == StageDead {
		return nil, nil, nil, errors.Wrap(errors.ErrState, "bounty is dead")
	}
	if int(msg.Milestone) >= len(b.Amounts) {
		return nil, nil, nil, errors.Wrapf(ErrBounds, "milestone #%d", msg.Milestone)
	}
	if msg.NewAmount < b.Amounts[msg.Milestone] {
		return nil, nil, nil, errors.Wrap(errors.ErrAmount, "payout cannot be decreased")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, b, signer.Address(), nil
}

// ------------------- add issuers -------------------

// AddIssuersHandler appends new issuers. Allowed in any stage.
type AddIssuersHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = AddIssuersHandler{}

func (h AddIssuersHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: bountyUpdateCost}, nil
}

func (h AddIssuersHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, b, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	b.Issuers = append(b.Issuers, msg.Issuers...)
	if _, err := h.ops.bounties.Put(db, msg.BountyID, b); err != nil {
		return nil, err
	}
	return editResult(msg.BountyID), nil
}

func (h AddIssuersHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*AddIssuersMsg, *Bounty, error) {
	var msg AddIssuersMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	b, err := issuerBounty(ctx, db, h.auth, h.ops, msg.BountyID)
	if err != nil {
		return nil, nil, err
	}
	for _, issuer := range msg.Issuers {
		if b.IsIssuer(issuer) {
			return nil, nil, errors.Wrapf(errors.ErrDuplicate, "address %s", issuer)
		}
	}
	return &msg, b, nil
}

// ------------------- replace issuers -------------------

// ReplaceIssuersHandler replaces the whole issuer set. Allowed in any
// stage.
type ReplaceIssuersHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = ReplaceIssuersHandler{}

func (h ReplaceIssuersHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: bountyUpdateCost}, nil
}

func (h ReplaceIssuersHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, b, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	b.Issuers = msg.Issuers
	if _, err := h.ops.bounties.Put(db, msg.BountyID, b); err != nil {
		return nil, err
	}
	return editResult(msg.BountyID), nil
}

func (h ReplaceIssuersHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*ReplaceIssuersMsg, *Bounty, error) {
	var msg ReplaceIssuersMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	b, err := issuerBounty(ctx, db, h.auth, h.ops, msg.BountyID)
	if err != nil {
		return nil, nil, err
	}
	return &msg, b, nil
}

// ------------------- add approvers -------------------

// AddApproversHandler appends new approvers. Allowed in any stage.
type AddApproversHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = AddApproversHandler{}

func (h AddApproversHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: bountyUpdateCost}, nil
}

func (h AddApproversHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, b, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	b.Approvers = append(b.Approvers, msg.Approvers...)
	if _, err := h.ops.bounties.Put(db, msg.BountyID, b); err != nil {
		return nil, err
	}
	return editResult(msg.BountyID), nil
}

func (h AddApproversHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*AddApproversMsg, *Bounty, error) {
	var msg AddApproversMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	b, err := issuerBounty(ctx, db, h.auth, h.ops, msg.BountyID)
	if err != nil {
		return nil, nil, err
	}
	for _, approver := range msg.Approvers {
		if containsAddress(b.Approvers, approver) {
			return nil, nil, errors.Wrapf(errors.ErrDuplicate, "address %s", approver)
		}
	}
	return &msg, b, nil
}

// ------------------- replace approvers -------------------

// ReplaceApproversHandler replaces the whole approver set. Allowed in
// any stage. Replacing with an empty set falls back to the issuers
// approving.
type ReplaceApproversHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = ReplaceApproversHandler{}

func (h ReplaceApproversHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: bountyUpdateCost}, nil
}

func (h ReplaceApproversHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, b, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	b.Approvers = msg.Approvers
	if _, err := h.ops.bounties.Put(db, msg.BountyID, b); err != nil {
		return nil, err
	}
	return editResult(msg.BountyID), nil
}

func (h ReplaceApproversHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*ReplaceApproversMsg, *Bounty, error) {
	var msg ReplaceApproversMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	b, err := issuerBounty(ctx, db, h.auth, h.ops, msg.BountyID)
	if err != nil {
		return nil, nil, err
	}
	return &msg, b, nil
}
