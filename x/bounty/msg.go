package bounty

import (
	"encoding/json"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/asset"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/migration"
)

func init() {
	migration.MustRegister(1, &CreateMsg{}, migration.NoModification)
	migration.MustRegister(1, &ContributeMsg{}, migration.NoModification)
	migration.MustRegister(1, &ActivateMsg{}, migration.NoModification)
	migration.MustRegister(1, &KillMsg{}, migration.NoModification)
	migration.MustRegister(1, &RefundContributionMsg{}, migration.NoModification)
	migration.MustRegister(1, &TransferIssuerMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdateBountyMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdateIssuerMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdateApproverMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdateDataMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdateDeadlineMsg{}, migration.NoModification)
	migration.MustRegister(1, &ExtendDeadlineMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdateModeMsg{}, migration.NoModification)
	migration.MustRegister(1, &IncreasePayoutMsg{}, migration.NoModification)
	migration.MustRegister(1, &AddIssuersMsg{}, migration.NoModification)
	migration.MustRegister(1, &ReplaceIssuersMsg{}, migration.NoModification)
	migration.MustRegister(1, &AddApproversMsg{}, migration.NoModification)
	migration.MustRegister(1, &ReplaceApproversMsg{}, migration.NoModification)
	migration.MustRegister(1, &PerformActionMsg{}, migration.NoModification)
	migration.MustRegister(1, &FulfillMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdateFulfillmentMsg{}, migration.NoModification)
	migration.MustRegister(1, &AcceptMsg{}, migration.NoModification)
	migration.MustRegister(1, &FulfillAndAcceptMsg{}, migration.NoModification)
	migration.MustRegister(1, &PaymentMsg{}, migration.NoModification)
}

var _ bounties.Msg = (*CreateMsg)(nil)
var _ bounties.Msg = (*ContributeMsg)(nil)
var _ bounties.Msg = (*ActivateMsg)(nil)
var _ bounties.Msg = (*KillMsg)(nil)
var _ bounties.Msg = (*RefundContributionMsg)(nil)
var _ bounties.Msg = (*TransferIssuerMsg)(nil)
var _ bounties.Msg = (*UpdateBountyMsg)(nil)
var _ bounties.Msg = (*UpdateIssuerMsg)(nil)
var _ bounties.Msg = (*UpdateApproverMsg)(nil)
var _ bounties.Msg = (*UpdateDataMsg)(nil)
var _ bounties.Msg = (*UpdateDeadlineMsg)(nil)
var _ bounties.Msg = (*ExtendDeadlineMsg)(nil)
var _ bounties.Msg = (*UpdateModeMsg)(nil)
var _ bounties.Msg = (*IncreasePayoutMsg)(nil)
var _ bounties.Msg = (*AddIssuersMsg)(nil)
var _ bounties.Msg = (*ReplaceIssuersMsg)(nil)
var _ bounties.Msg = (*AddApproversMsg)(nil)
var _ bounties.Msg = (*ReplaceApproversMsg)(nil)
var _ bounties.Msg = (*PerformActionMsg)(nil)
var _ bounties.Msg = (*FulfillMsg)(nil)
var _ bounties.Msg = (*UpdateFulfillmentMsg)(nil)
var _ bounties.Msg = (*AcceptMsg)(nil)
var _ bounties.Msg = (*FulfillAndAcceptMsg)(nil)
var _ bounties.Msg = (*PaymentMsg)(nil)

// CreateMsg creates a new bounty in the draft stage. An optional deposit
// is contributed by the main signer in the same operation and with
// Activate set the bounty is activated right away.
type CreateMsg struct {
	Metadata  *bounties.Metadata `json:"metadata"`
	Issuers   []bounties.Address `json:"issuers"`
	Approvers []bounties.Address `json:"approvers,omitempty"`
	Data      string             `json:"data,omitempty"`
	Deadline  bounties.UnixTime  `json:"deadline"`
	Mode      asset.Asset        `json:"mode"`
	Amounts   []int64            `json:"amounts"`
	Deposit   asset.Lots         `json:"deposit,omitempty"`
	Activate  bool               `json:"activate,omitempty"`
}

func (CreateMsg) Path() string {
	return "bounty/create"
}

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Issuers", validateUniqueAddresses(m.Issuers, true))
	errs = errors.AppendField(errs, "Approvers", validateUniqueAddresses(m.Approvers, false))
	if len(m.Data) > maxDataSize {
		errs = errors.AppendField(errs, "Data", errors.Wrap(errors.ErrInput, "too long"))
	}
	if m.Deadline == 0 {
		errs = errors.AppendField(errs, "Deadline", errors.Wrap(errors.ErrInput, "required"))
	}
	errs = errors.AppendField(errs, "Deadline", m.Deadline.Validate())
	errs = errors.AppendField(errs, "Mode", m.Mode.Validate())
	errs = errors.AppendField(errs, "Amounts", validateMilestoneAmounts(m.Amounts))
	errs = errors.AppendField(errs, "Deposit", validateOptionalDeposit(m.Deposit))
	if m.Activate && m.Deposit.IsEmpty() {
		errs = errors.AppendField(errs, "Activate", errors.Wrap(errors.ErrInput, "activation requires a deposit"))
	}
	return errs
}

// ContributeMsg deposits funds into a bounty's custody. The deposit is
// tracked as a contribution of the main signer.
type ContributeMsg struct {
	Metadata *bounties.Metadata `json:"metadata"`
	BountyID []byte             `json:"bounty_id"`
	Amounts  asset.Lots         `json:"amounts"`
}

func (ContributeMsg) Path() string {
	return "bounty/contribute"
}

func (m *ContributeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	if !m.Amounts.IsPositive() {
		errs = errors.AppendField(errs, "Amounts", errors.Wrap(errors.ErrAmount, "must be positive"))
	}
	errs = errors.AppendField(errs, "Amounts", m.Amounts.Validate())
	return errs
}

// ActivateMsg moves a bounty into the active stage, optionally
// contributing a deposit first. Activation requires the custodied mode
// balance to cover the declared milestone total. A dead bounty can be
// activated again under the same funding rule.
type ActivateMsg struct {
	Metadata *bounties.Metadata `json:"metadata"`
	BountyID []byte             `json:"bounty_id"`
	Deposit  asset.Lots         `json:"deposit,omitempty"`
}

func (ActivateMsg) Path() string {
	return "bounty/activate"
}

func (m *ActivateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	errs = errors.AppendField(errs, "Deposit", validateOptionalDeposit(m.Deposit))
	return errs
}

// KillMsg moves a bounty into the dead stage. Custodied funds are not
// released, they remain subject to refunds and payouts of already
// accepted work.
type KillMsg struct {
	Metadata *bounties.Metadata `json:"metadata"`
	BountyID []byte             `json:"bounty_id"`
}

func (KillMsg) Path() string {
	return "bounty/kill"
}

func (m *KillMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	return errs
}

// RefundContributionMsg returns a tracked contribution to its
// contributor. Only permitted after the bounty deadline elapsed and only
// once per contribution.
type RefundContributionMsg struct {
	Metadata       *bounties.Metadata `json:"metadata"`
	ContributionID []byte             `json:"contribution_id"`
}

func (RefundContributionMsg) Path() string {
	return "bounty/refund_contribution"
}

func (m *RefundContributionMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "ContributionID", validateID(m.ContributionID))
	return errs
}

// TransferIssuerMsg hands one issuer seat over to another account. This
// is permitted in any stage.
type TransferIssuerMsg struct {
	Metadata    *bounties.Metadata `json:"metadata"`
	BountyID    []byte             `json:"bounty_id"`
	IssuerIndex uint32             `json:"issuer_index"`
	NewIssuer   bounties.Address   `json:"new_issuer"`
}

func (TransferIssuerMsg) Path() string {
	return "bounty/transfer_issuer"
}

func (m *TransferIssuerMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	errs = errors.AppendField(errs, "NewIssuer", m.NewIssuer.Validate())
	return errs
}

// UpdateBountyMsg is a wholesale edit of a draft bounty.
type UpdateBountyMsg struct {
	Metadata  *bounties.Metadata `json:"metadata"`
	BountyID  []byte             `json:"bounty_id"`
	Issuers   []bounties.Address `json:"issuers"`
	Approvers []bounties.Address `json:"approvers,omitempty"`
	Data      string             `json:"data,omitempty"`
	Deadline  bounties.UnixTime  `json:"deadline"`
	Amounts   []int64            `json:"amounts"`
}

func (UpdateBountyMsg) Path() string {
	return "bounty/update"
}

func (m *UpdateBountyMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	errs = errors.AppendField(errs, "Issuers", validateUniqueAddresses(m.Issuers, true))
	errs = errors.AppendField(errs, "Approvers", validateUniqueAddresses(m.Approvers, false))
	if len(m.Data) > maxDataSize {
		errs = errors.AppendField(errs, "Data", errors.Wrap(errors.ErrInput, "too long"))
	}
	errs = errors.AppendField(errs, "Deadline", m.Deadline.Validate())
	errs = errors.AppendField(errs, "Amounts", validateMilestoneAmounts(m.Amounts))
	return errs
}

// UpdateIssuerMsg replaces the issuer at the given index. Draft only.
type UpdateIssuerMsg struct {
	Metadata    *bounties.Metadata `json:"metadata"`
	BountyID    []byte             `json:"bounty_id"`
	IssuerIndex uint32             `json:"issuer_index"`
	Issuer      bounties.Address   `json:"issuer"`
}

func (UpdateIssuerMsg) Path() string {
	return "bounty/update_issuer"
}

func (m *UpdateIssuerMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	errs = errors.AppendField(errs, "Issuer", m.Issuer.Validate())
	return errs
}

// UpdateApproverMsg replaces the approver at the given index. Draft
// only.
type UpdateApproverMsg struct {
	Metadata      *bounties.Metadata `json:"metadata"`
	BountyID      []byte             `json:"bounty_id"`
	ApproverIndex uint32             `json:"approver_index"`
	Approver      bounties.Address   `json:"approver"`
}

func (UpdateApproverMsg) Path() string {
	return "bounty/update_approver"
}

func (m *UpdateApproverMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	errs = errors.AppendField(errs, "Approver", m.Approver.Validate())
	return errs
}

// UpdateDataMsg replaces the content reference. Draft only.
type UpdateDataMsg struct {
	Metadata *bounties.Metadata `json:"metadata"`
	BountyID []byte             `json:"bounty_id"`
	Data     string             `json:"data"`
}

func (UpdateDataMsg) Path() string {
	return "bounty/update_data"
}

func (m *UpdateDataMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	if len(m.Data) > maxDataSize {
		errs = errors.AppendField(errs, "Data", errors.Wrap(errors.ErrInput, "too long"))
	}
	return errs
}

// UpdateDeadlineMsg moves the deadline to any point strictly in the
// future. Draft only.
type UpdateDeadlineMsg struct {
	Metadata *bounties.Metadata `json:"metadata"`
	BountyID []byte             `json:"bounty_id"`
	Deadline bounties.UnixTime  `json:"deadline"`
}

func (UpdateDeadlineMsg) Path() string {
	return "bounty/update_deadline"
}

func (m *UpdateDeadlineMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	if m.Deadline == 0 {
		errs = errors.AppendField(errs, "Deadline", errors.Wrap(errors.ErrInput, "required"))
	}
	errs = errors.AppendField(errs, "Deadline", m.Deadline.Validate())
	return errs
}

// ExtendDeadlineMsg moves the deadline forward. Permitted in any stage,
// the deadline can never be shortened through this path.
type ExtendDeadlineMsg struct {
	Metadata *bounties.Metadata `json:"metadata"`
	BountyID []byte             `json:"bounty_id"`
	Deadline bounties.UnixTime  `json:"deadline"`
}

func (ExtendDeadlineMsg) Path() string {
	return "bounty/extend_deadline"
}

func (m *ExtendDeadlineMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	if m.Deadline == 0 {
		errs = errors.AppendField(errs, "Deadline", errors.Wrap(errors.ErrInput, "required"))
	}
	errs = errors.AppendField(errs, "Deadline", m.Deadline.Validate())
	return errs
}

// UpdateModeMsg changes the asset the milestones are denominated in.
// Draft only and only while no funds are custodied.
type UpdateModeMsg struct {
	Metadata *bounties.Metadata `json:"metadata"`
	BountyID []byte             `json:"bounty_id"`
	Mode     asset.Asset        `json:"mode"`
}

func (UpdateModeMsg) Path() string {
	return "bounty/update_mode"
}

func (m *UpdateModeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	errs = errors.AppendField(errs, "Mode", m.Mode.Validate())
	return errs
}

// IncreasePayoutMsg raises the payout target of one milestone,
// optionally depositing extra funds in the same operation. Decreases are
// not permitted through this path.
type IncreasePayoutMsg struct {
	Metadata     *bounties.Metadata `json:"metadata"`
	BountyID     []byte             `json:"bounty_id"`
	Milestone    uint32             `json:"milestone"`
	NewAmount    int64              `json:"new_amount"`
	ExtraDeposit asset.Lots         `json:"extra_deposit,omitempty"`
}

func (IncreasePayoutMsg) Path() string {
	return "bounty/increase_payout"
}

func (m *IncreasePayoutMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	if m.NewAmount <= 0 {
		errs = errors.AppendField(errs, "NewAmount", errors.Wrap(errors.ErrAmount, "must be positive"))
	}
	errs = errors.AppendField(errs, "ExtraDeposit", validateOptionalDeposit(m.ExtraDeposit))
	return errs
}

// AddIssuersMsg appends new issuers. Permitted in any stage.
type AddIssuersMsg struct {
	Metadata *bounties.Metadata `json:"metadata"`
	BountyID []byte             `json:"bounty_id"`
	Issuers  []bounties.Address `json:"issuers"`
}

func (AddIssuersMsg) Path() string {
	return "bounty/add_issuers"
}

func (m *AddIssuersMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	errs = errors.AppendField(errs, "Issuers", validateUniqueAddresses(m.Issuers, true))
	return errs
}

// ReplaceIssuersMsg replaces the whole issuer set. Permitted in any
// stage.
type ReplaceIssuersMsg struct {
	Metadata *bounties.Metadata `json:"metadata"`
	BountyID []byte             `json:"bounty_id"`
	Issuers  []bounties.Address `json:"issuers"`
}

func (ReplaceIssuersMsg) Path() string {
	return "bounty/replace_issuers"
}

func (m *ReplaceIssuersMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	errs = errors.AppendField(errs, "Issuers", validateUniqueAddresses(m.Issuers, true))
	return errs
}

// AddApproversMsg appends new approvers. Permitted in any stage.
type AddApproversMsg struct {
	Metadata  *bounties.Metadata `json:"metadata"`
	BountyID  []byte             `json:"bounty_id"`
	Approvers []bounties.Address `json:"approvers"`
}

func (AddApproversMsg) Path() string {
	return "bounty/add_approvers"
}

func (m *AddApproversMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	errs = errors.AppendField(errs, "Approvers", validateUniqueAddresses(m.Approvers, true))
	return errs
}

// ReplaceApproversMsg replaces the whole approver set. Permitted in any
// stage. An empty set is valid, the issuers approve then.
type ReplaceApproversMsg struct {
	Metadata  *bounties.Metadata `json:"metadata"`
	BountyID  []byte             `json:"bounty_id"`
	Approvers []bounties.Address `json:"approvers"`
}

func (ReplaceApproversMsg) Path() string {
	return "bounty/replace_approvers"
}

func (m *ReplaceApproversMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	errs = errors.AppendField(errs, "Approvers", validateUniqueAddresses(m.Approvers, false))
	return errs
}

// PerformActionMsg emits an informational event bound to a bounty. No
// custody is touched.
type PerformActionMsg struct {
	Metadata *bounties.Metadata `json:"metadata"`
	BountyID []byte             `json:"bounty_id"`
	Data     string             `json:"data"`
}

func (PerformActionMsg) Path() string {
	return "bounty/perform_action"
}

func (m *PerformActionMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	if len(m.Data) > maxDataSize {
		errs = errors.AppendField(errs, "Data", errors.Wrap(errors.ErrInput, "too long"))
	}
	return errs
}

// FulfillMsg submits a claim of work against one milestone of an active
// bounty.
type FulfillMsg struct {
	Metadata   *bounties.Metadata `json:"metadata"`
	BountyID   []byte             `json:"bounty_id"`
	Fulfillers []bounties.Address `json:"fulfillers"`
	Data       string             `json:"data,omitempty"`
	Milestone  uint32             `json:"milestone"`
}

func (FulfillMsg) Path() string {
	return "bounty/fulfill"
}

func (m *FulfillMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	errs = errors.AppendField(errs, "Fulfillers", validateUniqueAddresses(m.Fulfillers, true))
	if len(m.Data) > maxDataSize {
		errs = errors.AppendField(errs, "Data", errors.Wrap(errors.ErrInput, "too long"))
	}
	return errs
}

// UpdateFulfillmentMsg edits a submitted fulfillment. Only the submitter
// may edit and only until acceptance.
type UpdateFulfillmentMsg struct {
	Metadata      *bounties.Metadata `json:"metadata"`
	FulfillmentID []byte             `json:"fulfillment_id"`
	Fulfillers    []bounties.Address `json:"fulfillers"`
	Data          string             `json:"data,omitempty"`
}

func (UpdateFulfillmentMsg) Path() string {
	return "bounty/update_fulfillment"
}

func (m *UpdateFulfillmentMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "FulfillmentID", validateID(m.FulfillmentID))
	errs = errors.AppendField(errs, "Fulfillers", validateUniqueAddresses(m.Fulfillers, true))
	if len(m.Data) > maxDataSize {
		errs = errors.AppendField(errs, "Data", errors.Wrap(errors.ErrInput, "too long"))
	}
	return errs
}

// AcceptMsg accepts a fulfillment, committing the given fraction of the
// custodied balance of every listed asset as its payout.
type AcceptMsg struct {
	Metadata      *bounties.Metadata `json:"metadata"`
	FulfillmentID []byte             `json:"fulfillment_id"`
	Portion       bounties.Fraction  `json:"portion"`
	Assets        []asset.Asset      `json:"assets"`
}

func (AcceptMsg) Path() string {
	return "bounty/accept"
}

func (m *AcceptMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "FulfillmentID", validateID(m.FulfillmentID))
	errs = errors.AppendField(errs, "Portion", validatePortion(m.Portion))
	errs = errors.AppendField(errs, "Assets", validateUniqueAssets(m.Assets))
	return errs
}

// FulfillAndAcceptMsg is the atomic composition of FulfillMsg and
// AcceptMsg, with the accepting approver as the submitter.
type FulfillAndAcceptMsg struct {
	Metadata   *bounties.Metadata `json:"metadata"`
	BountyID   []byte             `json:"bounty_id"`
	Fulfillers []bounties.Address `json:"fulfillers"`
	Data       string             `json:"data,omitempty"`
	Milestone  uint32             `json:"milestone"`
	Portion    bounties.Fraction  `json:"portion"`
	Assets     []asset.Asset      `json:"assets"`
}

func (FulfillAndAcceptMsg) Path() string {
	return "bounty/fulfill_and_accept"
}

func (m *FulfillAndAcceptMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "BountyID", validateID(m.BountyID))
	errs = errors.AppendField(errs, "Fulfillers", validateUniqueAddresses(m.Fulfillers, true))
	if len(m.Data) > maxDataSize {
		errs = errors.AppendField(errs, "Data", errors.Wrap(errors.ErrInput, "too long"))
	}
	errs = errors.AppendField(errs, "Portion", validatePortion(m.Portion))
	errs = errors.AppendField(errs, "Assets", validateUniqueAssets(m.Assets))
	return errs
}

// PaymentMsg pulls the committed payout of an accepted fulfillment. Any
// listed fulfiller may pull for the group, the funds are transferred to
// the caller.
type PaymentMsg struct {
	Metadata      *bounties.Metadata `json:"metadata"`
	FulfillmentID []byte             `json:"fulfillment_id"`
}

func (PaymentMsg) Path() string {
	return "bounty/payment"
}

func (m *PaymentMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "FulfillmentID", validateID(m.FulfillmentID))
	return errs
}

func validateID(id []byte) error {
	if len(id) != 8 {
		return errors.Wrap(errors.ErrInput, "must be 8 bytes")
	}
	return nil
}

func validateOptionalDeposit(deposit asset.Lots) error {
	if deposit.IsEmpty() {
		return nil
	}
	if !deposit.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "must be positive")
	}
	return deposit.Validate()
}

func validatePortion(f bounties.Fraction) error {
	if f.Denominator == 0 {
		return errors.Wrap(errors.ErrInput, "zero division")
	}
	if f.Numerator == 0 {
		return errors.Wrap(errors.ErrAmount, "nothing to pay out")
	}
	if f.Numerator > f.Denominator {
		return errors.Wrapf(errors.ErrAmount, "fraction %s is greater than one", f.String())
	}
	return nil
}

func validateUniqueAssets(assets []asset.Asset) error {
	if len(assets) == 0 {
		return errors.Wrap(errors.ErrEmpty, "required")
	}
	seen := make(map[string]struct{}, len(assets))
	for _, a := range assets {
		if err := a.Validate(); err != nil {
			return err
		}
		if _, ok := seen[a.ID()]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "asset %s", a.ID())
		}
		seen[a.ID()] = struct{}{}
	}
	return nil
}

func (m *CreateMsg) GetMetadata() *bounties.Metadata             { return m.Metadata }
func (m *ContributeMsg) GetMetadata() *bounties.Metadata         { return m.Metadata }
func (m *ActivateMsg) GetMetadata() *bounties.Metadata           { return m.Metadata }
func (m *KillMsg) GetMetadata() *bounties.Metadata               { return m.Metadata }
func (m *RefundContributionMsg) GetMetadata() *bounties.Metadata { return m.Metadata }
func (m *TransferIssuerMsg) GetMetadata() *bounties.Metadata     { return m.Metadata }
func (m *UpdateBountyMsg) GetMetadata() *bounties.Metadata       { return m.Metadata }
func (m *UpdateIssuerMsg) GetMetadata() *bounties.Metadata       { return m.Metadata }
func (m *UpdateApproverMsg) GetMetadata() *bounties.Metadata     { return m.Metadata }
func (m *UpdateDataMsg) GetMetadata() *bounties.Metadata         { return m.Metadata }
func (m *UpdateDeadlineMsg) GetMetadata() *bounties.Metadata     { return m.Metadata }
func (m *ExtendDeadlineMsg) GetMetadata() *bounties.Metadata     { return m.Metadata }
func (m *UpdateModeMsg) GetMetadata() *bounties.Metadata         { return m.Metadata }
func (m *IncreasePayoutMsg) GetMetadata() *bounties.Metadata     { return m.Metadata }
func (m *AddIssuersMsg) GetMetadata() *bounties.Metadata         { return m.Metadata }
func (m *ReplaceIssuersMsg) GetMetadata() *bounties.Metadata     { return m.Metadata }
func (m *AddApproversMsg) GetMetadata() *bounties.Metadata       { return m.Metadata }
func (m *ReplaceApproversMsg) GetMetadata() *bounties.Metadata   { return m.Metadata }
func (m *PerformActionMsg) GetMetadata() *bounties.Metadata      { return m.Metadata }
func (m *FulfillMsg) GetMetadata() *bounties.Metadata            { return m.Metadata }
func (m *UpdateFulfillmentMsg) GetMetadata() *bounties.Metadata  { return m.Metadata }
func (m *AcceptMsg) GetMetadata() *bounties.Metadata             { return m.Metadata }
func (m *FulfillAndAcceptMsg) GetMetadata() *bounties.Metadata   { return m.Metadata }
func (m *PaymentMsg) GetMetadata() *bounties.Metadata            { return m.Metadata }

func (m *CreateMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *CreateMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *ContributeMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *ContributeMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *ActivateMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *ActivateMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *KillMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *KillMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *RefundContributionMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *RefundContributionMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *TransferIssuerMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *TransferIssuerMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *UpdateBountyMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *UpdateBountyMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *UpdateIssuerMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *UpdateIssuerMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *UpdateApproverMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *UpdateApproverMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *UpdateDataMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *UpdateDataMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *UpdateDeadlineMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *UpdateDeadlineMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *ExtendDeadlineMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *ExtendDeadlineMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *UpdateModeMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *UpdateModeMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *IncreasePayoutMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *IncreasePayoutMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *AddIssuersMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *AddIssuersMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *ReplaceIssuersMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *ReplaceIssuersMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *AddApproversMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *AddApproversMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *ReplaceApproversMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *ReplaceApproversMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *PerformActionMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *PerformActionMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *FulfillMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *FulfillMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *UpdateFulfillmentMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *UpdateFulfillmentMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *AcceptMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *AcceptMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *FulfillAndAcceptMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *FulfillAndAcceptMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func (m *PaymentMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *PaymentMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }
