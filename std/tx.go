package std

import (
	"encoding/json"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/x/bounty"
	"github.com/iov-one/bounties/x/relay"
	"github.com/iov-one/bounties/x/sigs"
)

// msgTypes maps every routable path to a constructor for the message
// carried under it. Decoding a transaction with an unlisted path fails.
var msgTypes = map[string]func() bounties.Msg{
	"bounty/create":              func() bounties.Msg { return &bounty.CreateMsg{} },
	"bounty/contribute":          func() bounties.Msg { return &bounty.ContributeMsg{} },
	"bounty/activate":            func() bounties.Msg { return &bounty.ActivateMsg{} },
	"bounty/kill":                func() bounties.Msg { return &bounty.KillMsg{} },
	"bounty/refund_contribution": func() bounties.Msg { return &bounty.RefundContributionMsg{} },
	"bounty/transfer_issuer":     func() bounties.Msg { return &bounty.TransferIssuerMsg{} },
	"bounty/update":              func() bounties.Msg { return &bounty.UpdateBountyMsg{} },
	"bounty/update_issuer":       func() bounties.Msg { return &bounty.UpdateIssuerMsg{} },
	"bounty/update_approver":     func() bounties.Msg { return &bounty.UpdateApproverMsg{} },
	"bounty/update_data":         func() bounties.Msg { return &bounty.UpdateDataMsg{} },
	"bounty/update_deadline":     func() bounties.Msg { return &bounty.UpdateDeadlineMsg{} },
	"bounty/extend_deadline":     func() bounties.Msg { return &bounty.ExtendDeadlineMsg{} },
	"bounty/update_mode":         func() bounties.Msg { return &bounty.UpdateModeMsg{} },
	"bounty/increase_payout":     func() bounties.Msg { return &bounty.IncreasePayoutMsg{} },
	"bounty/add_issuers":         func() bounties.Msg { return &bounty.AddIssuersMsg{} },
	"bounty/replace_issuers":     func() bounties.Msg { return &bounty.ReplaceIssuersMsg{} },
	"bounty/add_approvers":       func() bounties.Msg { return &bounty.AddApproversMsg{} },
	"bounty/replace_approvers":   func() bounties.Msg { return &bounty.ReplaceApproversMsg{} },
	"bounty/perform_action":      func() bounties.Msg { return &bounty.PerformActionMsg{} },
	"bounty/fulfill":             func() bounties.Msg { return &bounty.FulfillMsg{} },
	"bounty/update_fulfillment":  func() bounties.Msg { return &bounty.UpdateFulfillmentMsg{} },
	"bounty/accept":              func() bounties.Msg { return &bounty.AcceptMsg{} },
	"bounty/fulfill_and_accept":  func() bounties.Msg { return &bounty.FulfillAndAcceptMsg{} },
	"bounty/payment":             func() bounties.Msg { return &bounty.PaymentMsg{} },
	"relay/set_relayer":          func() bounties.Msg { return &relay.SetRelayerMsg{} },
	"sigs/bump_sequence":         func() bounties.Msg { return &sigs.BumpSequenceMsg{} },
}

// Tx is the standard transaction envelope: one message plus its
// authentication, either direct signatures or a forwarded relay intent.
type Tx struct {
	msg        bounties.Msg
	Signatures []*sigs.StdSignature
	Intent     *relay.Intent
}

var _ bounties.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)
var _ relay.IntentTx = (*Tx)(nil)

// NewTx wraps the message in an unsigned transaction envelope.
func NewTx(msg bounties.Msg) *Tx {
	return &Tx{msg: msg}
}

func (tx *Tx) GetMsg() (bounties.Msg, error) {
	if tx.msg == nil {
		return nil, errors.Wrap(errors.ErrState, "transaction without a message")
	}
	return tx.msg, nil
}

func (tx *Tx) GetIntent() *relay.Intent {
	return tx.Intent
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the canonical bytes that signatures authorize: the
// envelope with path and serialized message, without any authentication.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	if tx.msg == nil {
		return nil, errors.Wrap(errors.ErrState, "transaction without a message")
	}
	body, err := tx.msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal message")
	}
	return json.Marshal(txJSON{
		Path: tx.msg.Path(),
		Body: body,
	})
}

// txJSON is the wire representation of Tx.
type txJSON struct {
	Path       string               `json:"path"`
	Body       json.RawMessage      `json:"body"`
	Signatures []*sigs.StdSignature `json:"signatures,omitempty"`
	Intent     *relay.Intent        `json:"intent,omitempty"`
}

func (tx *Tx) Marshal() ([]byte, error) {
	if tx.msg == nil {
		return nil, errors.Wrap(errors.ErrState, "transaction without a message")
	}
	body, err := tx.msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal message")
	}
	return json.Marshal(txJSON{
		Path:       tx.msg.Path(),
		Body:       body,
		Signatures: tx.Signatures,
		Intent:     tx.Intent,
	})
}

func (tx *Tx) Unmarshal(raw []byte) error {
	var wire txJSON
	if err := json.Unmarshal(raw, &wire); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	newMsg, ok := msgTypes[wire.Path]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "unknown message path %q", wire.Path)
	}
	msg := newMsg()
	if err := msg.Unmarshal(wire.Body); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	tx.msg = msg
	tx.Signatures = wire.Signatures
	tx.Intent = wire.Intent
	return nil
}

// TxDecoder parses raw transaction bytes into a Tx.
func TxDecoder(raw []byte) (bounties.Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &tx, nil
}
