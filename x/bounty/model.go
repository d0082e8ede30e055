package bounty

import (
	"encoding/json"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/asset"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/migration"
	"github.com/iov-one/bounties/orm"
)

func init() {
	migration.MustRegister(1, &Bounty{}, migration.NoModification)
	migration.MustRegister(1, &Fulfillment{}, migration.NoModification)
	migration.MustRegister(1, &Contribution{}, migration.NoModification)
}

// Stage is the lifecycle state of a bounty. The only permitted
// transitions are Draft to Active, Draft to Dead, Active to Dead and
// Dead to Active.
type Stage string

const (
	// StageDraft is the initial stage. Most attributes are mutable and
	// no work can be submitted yet.
	StageDraft Stage = "draft"
	// StageActive means the bounty is funded and accepts fulfillments.
	StageActive Stage = "active"
	// StageDead means the bounty was killed. Funds remain custodied and
	// refundable. A dead bounty can be activated again.
	StageDead Stage = "dead"
)

// Validate returns an error if this is not a known stage.
func (s Stage) Validate() error {
	switch s {
	case StageDraft, StageActive, StageDead:
		return nil
	default:
		return errors.Wrapf(errors.ErrState, "unknown stage %q", s)
	}
}

const maxDataSize = 1024

// Bounty is a funded unit of work.
type Bounty struct {
	Metadata *bounties.Metadata `json:"metadata"`
	// Issuers control the bounty. Ordered, membership is unique.
	Issuers []bounties.Address `json:"issuers"`
	// Approvers may accept fulfillments. May be empty, then issuers
	// approve. Order matters for index addressed edits.
	Approvers []bounties.Address `json:"approvers,omitempty"`
	// Data is an opaque content reference.
	Data string `json:"data,omitempty"`
	// Deadline limits fulfillment submission and gates refunds.
	Deadline bounties.UnixTime `json:"deadline"`
	// Mode is the asset that the milestone amounts are denominated in.
	Mode asset.Asset `json:"mode"`
	// Amounts are the per milestone payout targets, each greater than
	// zero, denominated in the mode asset.
	Amounts []int64 `json:"amounts"`
	Stage   Stage   `json:"stage"`
}

var _ orm.Model = (*Bounty)(nil)
var _ migration.Migratable = (*Bounty)(nil)

func (b *Bounty) GetMetadata() *bounties.Metadata { return b.Metadata }

func (b *Bounty) Marshal() ([]byte, error)   { return json.Marshal(b) }
func (b *Bounty) Unmarshal(raw []byte) error { return json.Unmarshal(raw, b) }

func (b *Bounty) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", b.Metadata.Validate())
	errs = errors.AppendField(errs, "Issuers", validateUniqueAddresses(b.Issuers, true))
	errs = errors.AppendField(errs, "Approvers", validateUniqueAddresses(b.Approvers, false))
	if len(b.Data) > maxDataSize {
		errs = errors.AppendField(errs, "Data", errors.Wrap(errors.ErrInput, "too long"))
	}
	errs = errors.AppendField(errs, "Deadline", b.Deadline.Validate())
	errs = errors.AppendField(errs, "Mode", b.Mode.Validate())
	errs = errors.AppendField(errs, "Amounts", validateMilestoneAmounts(b.Amounts))
	errs = errors.AppendField(errs, "Stage", b.Stage.Validate())
	return errs
}

func (b *Bounty) Copy() orm.CloneableData {
	return &Bounty{
		Metadata:  b.Metadata.Copy(),
		Issuers:   copyAddresses(b.Issuers),
		Approvers: copyAddresses(b.Approvers),
		Data:      b.Data,
		Deadline:  b.Deadline,
		Mode:      b.Mode.Copy(),
		Amounts:   append([]int64{}, b.Amounts...),
		Stage:     b.Stage,
	}
}

// Total returns the sum of all milestone amounts.
func (b *Bounty) Total() (int64, error) {
	var total int64
	for _, a := range b.Amounts {
		n := total + a
		if n < total {
			return 0, errors.Wrap(errors.ErrOverflow, "milestone amounts")
		}
		total = n
	}
	return total, nil
}

// IsIssuer returns true if the given address is one of the issuers.
func (b *Bounty) IsIssuer(addr bounties.Address) bool {
	return containsAddress(b.Issuers, addr)
}

// IsApprover returns true if the given address may accept fulfillments.
// With no approvers declared the issuers approve.
func (b *Bounty) IsApprover(addr bounties.Address) bool {
	if len(b.Approvers) == 0 {
		return b.IsIssuer(addr)
	}
	return containsAddress(b.Approvers, addr)
}

func containsAddress(addrs []bounties.Address, addr bounties.Address) bool {
	for _, a := range addrs {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

func copyAddresses(addrs []bounties.Address) []bounties.Address {
	if addrs == nil {
		return nil
	}
	cpy := make([]bounties.Address, len(addrs))
	for i, a := range addrs {
		cpy[i] = append(bounties.Address{}, a...)
	}
	return cpy
}

func validateUniqueAddresses(addrs []bounties.Address, required bool) error {
	if len(addrs) == 0 {
		if required {
			return errors.Wrap(errors.ErrEmpty, "required")
		}
		return nil
	}
	seen := make(map[string]struct{}, len(addrs))
	for _, a := range addrs {
		if err := a.Validate(); err != nil {
			return err
		}
		if _, ok := seen[string(a)]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "address %s", a)
		}
		seen[string(a)] = struct{}{}
	}
	return nil
}

func validateMilestoneAmounts(amounts []int64) error {
	if len(amounts) == 0 {
		return errors.Wrap(errors.ErrEmpty, "required")
	}
	for i, a := range amounts {
		if a <= 0 {
			return errors.Wrapf(errors.ErrAmount, "milestone #%d must be positive", i)
		}
	}
	return nil
}

// Fulfillment is a submitted claim of work against one milestone of a
// bounty.
type Fulfillment struct {
	Metadata *bounties.Metadata `json:"metadata"`
	BountyID []byte             `json:"bounty_id"`
	// Fulfillers receive the payout. Ordered, non empty.
	Fulfillers []bounties.Address `json:"fulfillers"`
	// Submitter created the record and may edit it until acceptance.
	Submitter bounties.Address `json:"submitter"`
	Data      string           `json:"data,omitempty"`
	Milestone uint32           `json:"milestone"`
	Accepted  bool             `json:"accepted,omitempty"`
	Paid      bool             `json:"paid,omitempty"`
	// Payout is the per asset commitment, set on acceptance.
	Payout asset.Lots `json:"payout,omitempty"`
}

var _ orm.Model = (*Fulfillment)(nil)
var _ migration.Migratable = (*Fulfillment)(nil)

func (f *Fulfillment) GetMetadata() *bounties.Metadata { return f.Metadata }

func (f *Fulfillment) Marshal() ([]byte, error)   { return json.Marshal(f) }
func (f *Fulfillment) Unmarshal(raw []byte) error { return json.Unmarshal(raw, f) }

func (f *Fulfillment) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", f.Metadata.Validate())
	if len(f.BountyID) != 8 {
		errs = errors.AppendField(errs, "BountyID", errors.Wrap(errors.ErrInput, "must be 8 bytes"))
	}
	errs = errors.AppendField(errs, "Fulfillers", validateUniqueAddresses(f.Fulfillers, true))
	errs = errors.AppendField(errs, "Submitter", f.Submitter.Validate())
	if len(f.Data) > maxDataSize {
		errs = errors.AppendField(errs, "Data", errors.Wrap(errors.ErrInput, "too long"))
	}
	if f.Paid && !f.Accepted {
		errs = errors.AppendField(errs, "Paid", errors.Wrap(errors.ErrState, "paid but not accepted"))
	}
	if f.Payout != nil {
		errs = errors.AppendField(errs, "Payout", f.Payout.Validate())
	}
	return errs
}

func (f *Fulfillment) Copy() orm.CloneableData {
	return &Fulfillment{
		Metadata:   f.Metadata.Copy(),
		BountyID:   append([]byte{}, f.BountyID...),
		Fulfillers: copyAddresses(f.Fulfillers),
		Submitter:  append(bounties.Address{}, f.Submitter...),
		Data:       f.Data,
		Milestone:  f.Milestone,
		Accepted:   f.Accepted,
		Paid:       f.Paid,
		Payout:     f.Payout.Clone(),
	}
}

// IsFulfiller returns true if the given address is listed on this
// fulfillment.
func (f *Fulfillment) IsFulfiller(addr bounties.Address) bool {
	return containsAddress(f.Fulfillers, addr)
}

// Contribution is a tracked deposit into a bounty's custody. Each
// contribution is individually refundable, exactly once, by the
// original contributor.
type Contribution struct {
	Metadata    *bounties.Metadata `json:"metadata"`
	BountyID    []byte             `json:"bounty_id"`
	Contributor bounties.Address   `json:"contributor"`
	Amounts     asset.Lots         `json:"amounts"`
	Refunded    bool               `json:"refunded,omitempty"`
}

var _ orm.Model = (*Contribution)(nil)
var _ migration.Migratable = (*Contribution)(nil)

func (c *Contribution) GetMetadata() *bounties.Metadata { return c.Metadata }

func (c *Contribution) Marshal() ([]byte, error)   { return json.Marshal(c) }
func (c *Contribution) Unmarshal(raw []byte) error { return json.Unmarshal(raw, c) }

func (c *Contribution) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	if len(c.BountyID) != 8 {
		errs = errors.AppendField(errs, "BountyID", errors.Wrap(errors.ErrInput, "must be 8 bytes"))
	}
	errs = errors.AppendField(errs, "Contributor", c.Contributor.Validate())
	if !c.Amounts.IsPositive() {
		errs = errors.AppendField(errs, "Amounts", errors.Wrap(errors.ErrAmount, "must be positive"))
	}
	errs = errors.AppendField(errs, "Amounts", c.Amounts.Validate())
	return errs
}

func (c *Contribution) Copy() orm.CloneableData {
	return &Contribution{
		Metadata:    c.Metadata.Copy(),
		BountyID:    append([]byte{}, c.BountyID...),
		Contributor: append(bounties.Address{}, c.Contributor...),
		Amounts:     c.Amounts.Clone(),
		Refunded:    c.Refunded,
	}
}

// NewBountyBucket returns a bucket for storing bounties. Bounties are
// keyed by an 8 byte sequence id and indexed by issuer.
func NewBountyBucket() orm.ModelBucket {
	b := orm.NewModelBucket("bnty", &Bounty{},
		orm.WithIDSequence(bountySeq),
		orm.WithMultiKeyIndex("issuer", idxIssuers, false),
	)
	return migration.NewModelBucket("bounty", b)
}

var bountySeq = orm.NewSequence("bounty", "id")

// NewFulfillmentBucket returns a bucket for storing fulfillments,
// indexed by the bounty they were submitted against.
func NewFulfillmentBucket() orm.ModelBucket {
	b := orm.NewModelBucket("fulf", &Fulfillment{},
		orm.WithIDSequence(fulfillmentSeq),
		orm.WithIndex("bounty", idxFulfillmentBounty, false),
	)
	return migration.NewModelBucket("bounty", b)
}

var fulfillmentSeq = orm.NewSequence("fulfillment", "id")

// NewContributionBucket returns a bucket for storing contributions,
// indexed by the bounty they fund.
func NewContributionBucket() orm.ModelBucket {
	b := orm.NewModelBucket("cntr", &Contribution{},
		orm.WithIDSequence(contributionSeq),
		orm.WithIndex("bounty", idxContributionBounty, false),
	)
	return migration.NewModelBucket("bounty", b)
}

var contributionSeq = orm.NewSequence("contribution", "id")

func idxIssuers(obj orm.Object) ([][]byte, error) {
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	b, ok := obj.Value().(*Bounty)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "can only take index of Bounty")
	}
	keys := make([][]byte, len(b.Issuers))
	for i, issuer := range b.Issuers {
		keys[i] = issuer
	}
	return keys, nil
}

func idxFulfillmentBounty(obj orm.Object) ([]byte, error) {
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	f, ok := obj.Value().(*Fulfillment)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "can only take index of Fulfillment")
	}
	return f.BountyID, nil
}

func idxContributionBounty(obj orm.Object) ([]byte, error) {
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	c, ok := obj.Value().(*Contribution)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "can only take index of Contribution")
	}
	return c.BountyID, nil
}

// BountyAddr returns the custody address owned by the bounty with the
// given id. All bounty funds are held under this address.
func BountyAddr(bountyID []byte) bounties.Address {
	return bounties.NewCondition("bounty", "escrow", bountyID).Address()
}
