package bounty

import (
	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/asset"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/migration"
	"github.com/iov-one/bounties/orm"
	"github.com/iov-one/bounties/x"
	"github.com/iov-one/bounties/x/custody"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	createBountyCost int64 = 300
	contributeCost   int64 = 100
	bountyUpdateCost int64 = 50
	fulfillCost      int64 = 150
	acceptCost       int64 = 200
	paymentCost      int64 = 100
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r bounties.Registry, auth x.Authenticator, ctrl custody.Controller) {
	r = migration.SchemaMigratingRegistry("bounty", r)

	ops := &ledger{
		bounties:      NewBountyBucket(),
		fulfillments:  NewFulfillmentBucket(),
		contributions: NewContributionBucket(),
		custody:       ctrl,
	}

	r.Handle(&CreateMsg{}, CreateHandler{auth: auth, ops: ops})
	r.Handle(&ContributeMsg{}, ContributeHandler{auth: auth, ops: ops})
	r.Handle(&ActivateMsg{}, ActivateHandler{auth: auth, ops: ops})
	r.Handle(&KillMsg{}, KillHandler{auth: auth, ops: ops})
	r.Handle(&RefundContributionMsg{}, RefundHandler{auth: auth, ops: ops})
	r.Handle(&TransferIssuerMsg{}, TransferIssuerHandler{auth: auth, ops: ops})
	r.Handle(&PerformActionMsg{}, PerformActionHandler{auth: auth, ops: ops})

	r.Handle(&UpdateBountyMsg{}, UpdateBountyHandler{auth: auth, ops: ops})
	r.Handle(&UpdateIssuerMsg{}, UpdateIssuerHandler{auth: auth, ops: ops})
	r.Handle(&UpdateApproverMsg{}, UpdateApproverHandler{auth: auth, ops: ops})
	r.Handle(&UpdateDataMsg{}, UpdateDataHandler{auth: auth, ops: ops})
	r.Handle(&UpdateDeadlineMsg{}, UpdateDeadlineHandler{auth: auth, ops: ops})
	r.Handle(&ExtendDeadlineMsg{}, ExtendDeadlineHandler{auth: auth, ops: ops})
	r.Handle(&UpdateModeMsg{}, UpdateModeHandler{auth: auth, ops: ops})
	r.Handle(&IncreasePayoutMsg{}, IncreasePayoutHandler{auth: auth, ops: ops})
	r.Handle(&AddIssuersMsg{}, AddIssuersHandler{auth: auth, ops: ops})
	r.Handle(&ReplaceIssuersMsg{}, ReplaceIssuersHandler{auth: auth, ops: ops})
	r.Handle(&AddApproversMsg{}, AddApproversHandler{auth: auth, ops: ops})
	r.Handle(&ReplaceApproversMsg{}, ReplaceApproversHandler{auth: auth, ops: ops})

	r.Handle(&FulfillMsg{}, FulfillHandler{auth: auth, ops: ops})
	r.Handle(&UpdateFulfillmentMsg{}, UpdateFulfillmentHandler{auth: auth, ops: ops})
	r.Handle(&AcceptMsg{}, AcceptHandler{auth: auth, ops: ops})
	r.Handle(&FulfillAndAcceptMsg{}, FulfillAndAcceptHandler{auth: auth, ops: ops})
	r.Handle(&PaymentMsg{}, PaymentHandler{auth: auth, ops: ops})
}

// RegisterQuery will register the buckets of this package.
func RegisterQuery(qr bounties.QueryRouter) {
	NewBountyBucket().Register("bounties", qr)
	NewFulfillmentBucket().Register("fulfillments", qr)
	NewContributionBucket().Register("contributions", qr)
}

// ledger bundles the buckets and the custody controller shared by all
// handlers of this package.
type ledger struct {
	bounties      orm.ModelBucket
	fulfillments  orm.ModelBucket
	contributions orm.ModelBucket
	custody       custody.Controller
}

func (l *ledger) loadBounty(db bounties.ReadOnlyKVStore, bountyID []byte) (*Bounty, error) {
	var b Bounty
	if err := l.bounties.One(db, bountyID, &b); err != nil {
		return nil, errors.Wrapf(err, "bounty %x", bountyID)
	}
	return &b, nil
}

func (l *ledger) loadFulfillment(db bounties.ReadOnlyKVStore, fulfillmentID []byte) (*Fulfillment, error) {
	var f Fulfillment
	if err := l.fulfillments.One(db, fulfillmentID, &f); err != nil {
		return nil, errors.Wrapf(err, "fulfillment %x", fulfillmentID)
	}
	return &f, nil
}

// contribute records a tracked contribution and moves the funds into the
// bounty's custody.
func (l *ledger) contribute(db bounties.KVStore, bountyID []byte, contributor bounties.Address, amounts asset.Lots) ([]byte, error) {
	contribution := &Contribution{
		Metadata:    &bounties.Metadata{Schema: 1},
		BountyID:    bountyID,
		Contributor: contributor,
		Amounts:     amounts,
	}
	contributionID, err := l.contributions.Put(db, nil, contribution)
	if err != nil {
		return nil, errors.Wrap(err, "contribution")
	}
	if err := l.custody.MoveLots(db, contributor, BountyAddr(bountyID), amounts); err != nil {
		return nil, errors.Wrap(err, "move funds")
	}
	return contributionID, nil
}

// modeBalance returns how much of the mode asset the bounty custodies.
func (l *ledger) modeBalance(db bounties.ReadOnlyKVStore, bountyID []byte, mode asset.Asset) (int64, error) {
	balance, err := l.custody.Balance(db, BountyAddr(bountyID))
	if err != nil {
		return 0, err
	}
	return balance.Get(mode).Amount, nil
}

// activate re-checks the funding precondition and moves the bounty into
// the active stage.
func (l *ledger) activate(db bounties.KVStore, bountyID []byte, b *Bounty) error {
	total, err := b.Total()
	if err != nil {
		return err
	}
	funded, err := l.modeBalance(db, bountyID, b.Mode)
	if err != nil {
		return err
	}
	if funded < total {
		return errors.Wrapf(errors.ErrAmount, "balance %d does not cover milestone total %d", funded, total)
	}
	b.Stage = StageActive
	_, err = l.bounties.Put(db, bountyID, b)
	return err
}

func eventTags(action string, bountyID []byte) []common.KVPair {
	return []common.KVPair{
		{Key: []byte("action"), Value: []byte(action)},
		{Key: []byte("bounty_id"), Value: bountyID},
	}
}

// ------------------- create -------------------

// CreateHandler issues a new bounty, optionally contributing an initial
// deposit and activating it in the same operation.
type CreateHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = CreateHandler{}

func (h CreateHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: createBountyCost}, nil
}

func (h CreateHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	b := &Bounty{
		Metadata:  &bounties.Metadata{Schema: 1},
		Issuers:   msg.Issuers,
		Approvers: msg.Approvers,
		Data:      msg.Data,
		Deadline:  msg.Deadline,
		Mode:      msg.Mode,
		Amounts:   msg.Amounts,
		Stage:     StageDraft,
	}
	bountyID, err := h.ops.bounties.Put(db, nil, b)
	if err != nil {
		return nil, errors.Wrap(err, "bounty")
	}

	if !msg.Deposit.IsEmpty() {
		if _, err := h.ops.contribute(db, bountyID, signer, msg.Deposit); err != nil {
			return nil, err
		}
	}
	if msg.Activate {
		if err := h.ops.activate(db, bountyID, b); err != nil {
			return nil, err
		}
	}

	return &bounties.DeliverResult{
		Data: bountyID,
		Tags: eventTags("bounty_issued", bountyID),
	}, nil
}

func (h CreateHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*CreateMsg, bounties.Address, error) {
	var msg CreateMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	if !bounties.InTheFuture(ctx, msg.Deadline.Time()) {
		return nil, nil, errors.Wrap(errors.ErrInput, "deadline must be in the future")
	}
	return &msg, signer.Address(), nil
}

// ------------------- contribute -------------------

// ContributeHandler deposits funds into a bounty's custody, tracked as a
// refundable contribution of the main signer.
type ContributeHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = ContributeHandler{}

func (h ContributeHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: contributeCost}, nil
}

func (h ContributeHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	contributionID, err := h.ops.contribute(db, msg.BountyID, signer, msg.Amounts)
	if err != nil {
		return nil, err
	}
	return &bounties.DeliverResult{
		Data: contributionID,
		Tags: eventTags("contribution_added", msg.BountyID),
	}, nil
}

func (h ContributeHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*ContributeMsg, bounties.Address, error) {
	var msg ContributeMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	b, err := h.ops.loadBounty(db, msg.BountyID)
	if err != nil {
		return nil, nil, err
	}
	if b.Stage == StageDead {
		return nil, nil, errors.Wrap(errors.ErrState, "bounty is dead")
	}
	return &msg, signer.Address(), nil
}

// ------------------- activate -------------------

// ActivateHandler moves a draft or dead bounty into the active stage,
// re-checking that the custodied mode balance covers the milestone
// total.
type ActivateHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = ActivateHandler{}

func (h ActivateHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: bountyUpdateCost}, nil
}

func (h ActivateHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, b, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if !msg.Deposit.IsEmpty() {
		if _, err := h.ops.contribute(db, msg.BountyID, signer, msg.Deposit); err != nil {
			return nil, err
		}
	}
	if err := h.ops.activate(db, msg.BountyID, b); err != nil {
		return nil, err
	}
	return &bounties.DeliverResult{
		Tags: eventTags("bounty_activated", msg.BountyID),
	}, nil
}

func (h ActivateHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*ActivateMsg, *Bounty, bounties.Address, error) {
	var msg ActivateMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	b, err := h.ops.loadBounty(db, msg.BountyID)
	if err != nil {
		return nil, nil, nil, err
	}
	if b.Stage == StageActive {
		return nil, nil, nil, errors.Wrap(errors.ErrState, "bounty already active")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	if !x.HasAnyAddress(ctx, h.auth, b.Issuers) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "not an issuer")
	}
	return &msg, b, signer.Address(), nil
}

// ------------------- kill -------------------

// KillHandler moves a bounty into the dead stage. Funds remain in
// custody.
type KillHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = KillHandler{}

func (h KillHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: bountyUpdateCost}, nil
}

func (h KillHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, b, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	b.Stage = StageDead
	if _, err := h.ops.bounties.Put(db, msg.BountyID, b); err != nil {
		return nil, err
	}
	return &bounties.DeliverResult{
		Tags: eventTags("bounty_killed", msg.BountyID),
	}, nil
}

func (h KillHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*KillMsg, *Bounty, error) {
	var msg KillMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	b, err := h.ops.loadBounty(db, msg.BountyID)
	if err != nil {
		return nil, nil, err
	}
	if b.Stage == StageDead {
		return nil, nil, errors.Wrap(errors.ErrState, "bounty already dead")
	}
	if !x.HasAnyAddress(ctx, h.auth, b.Issuers) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "not an issuer")
	}
	return &msg, b, nil
}

// ------------------- refund -------------------

// RefundHandler returns a tracked contribution to its contributor after
// the bounty deadline elapsed. Funds committed to accepted but unpaid
// fulfillments cannot be refunded.
type RefundHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = RefundHandler{}

func (h RefundHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: paymentCost}, nil
}

func (h RefundHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, contribution, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// The refunded flag is persisted before moving any funds so a
	// reentrant call observes the contribution as already refunded.
	contribution.Refunded = true
	if _, err := h.ops.contributions.Put(db, msg.ContributionID, contribution); err != nil {
		return nil, err
	}
	addr := BountyAddr(contribution.BountyID)
	if err := h.ops.custody.MoveLots(db, addr, contribution.Contributor, contribution.Amounts); err != nil {
		return nil, errors.Wrap(err, "move funds")
	}

	return &bounties.DeliverResult{
		Tags: eventTags("contribution_refunded", contribution.BountyID),
	}, nil
}

func (h RefundHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*RefundContributionMsg, *Contribution, error) {
	var msg RefundContributionMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	var contribution Contribution
	if err := h.ops.contributions.One(db, msg.ContributionID, &contribution); err != nil {
		return nil, nil, errors.Wrapf(err, "contribution %x", msg.ContributionID)
	}
	if contribution.Refunded {
		return nil, nil, errors.Wrap(errors.ErrState, "already refunded")
	}
	if !h.auth.HasAddress(ctx, contribution.Contributor) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "not the contributor")
	}
	b, err := h.ops.loadBounty(db, contribution.BountyID)
	if err != nil {
		return nil, nil, err
	}
	if !bounties.IsExpired(ctx, b.Deadline) {
		return nil, nil, errors.Wrap(errors.ErrState, "deadline not reached")
	}

	// Only unallocated funds can leave the custody.
	balance, err := h.ops.custody.Balance(db, BountyAddr(contribution.BountyID))
	if err != nil {
		return nil, nil, err
	}
	committed, err := unpaidCommitments(db, h.ops.fulfillments, contribution.BountyID)
	if err != nil {
		return nil, nil, err
	}
	for _, lot := range contribution.Amounts {
		free := balance.Get(lot.Asset).Amount - committed.Get(lot.Asset).Amount
		if free < lot.Amount {
			return nil, nil, errors.Wrapf(errors.ErrAmount, "asset %s: only %d unallocated", lot.ID(), free)
		}
	}

	return &msg, &contribution, nil
}

// ------------------- transfer issuer -------------------

// TransferIssuerHandler hands one issuer seat over to another account.
type TransferIssuerHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = TransferIssuerHandler{}

func (h TransferIssuerHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: bountyUpdateCost}, nil
}

func (h TransferIssuerHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, b, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	b.Issuers[msg.IssuerIndex] = msg.NewIssuer
	if _, err := h.ops.bounties.Put(db, msg.BountyID, b); err != nil {
		return nil, err
	}
	return &bounties.DeliverResult{
		Tags: eventTags("bounty_issuer_changed", msg.BountyID),
	}, nil
}

func (h TransferIssuerHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*TransferIssuerMsg, *Bounty, error) {
	var msg TransferIssuerMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	b, err := h.ops.loadBounty(db, msg.BountyID)
	if err != nil {
		return nil, nil, err
	}
	if !x.HasAnyAddress(ctx, h.auth, b.Issuers) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "not an issuer")
	}
	if int(msg.IssuerIndex) >= len(b.Issuers) {
		return nil, nil, errors.Wrapf(ErrBounds, "issuer #%d", msg.IssuerIndex)
	}
	if b.IsIssuer(msg.NewIssuer) {
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "address %s", msg.NewIssuer)
	}
	return &msg, b, nil
}

// ------------------- perform action -------------------

// PerformActionHandler emits an informational event bound to a bounty.
// It fails only if the bounty does not exist.
type PerformActionHandler struct {
	auth x.Authenticator
	ops  *ledger
}

var _ bounties.Handler = PerformActionHandler{}

func (h PerformActionHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: bountyUpdateCost}, nil
}

func (h PerformActionHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	tags := eventTags("action_performed", msg.BountyID)
	tags = append(tags, common.KVPair{Key: []byte("data"), Value: []byte(msg.Data)})
	return &bounties.DeliverResult{Tags: tags}, nil
}

func (h PerformActionHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*PerformActionMsg, error) {
	var msg PerformActionMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.ops.loadBounty(db, msg.BountyID); err != nil {
		return nil, err
	}
	return &msg, nil
}
