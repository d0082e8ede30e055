package relay

import (
	"encoding/json"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/crypto"
	"github.com/iov-one/bounties/errors"
)

// Intent is an off chain authorization of a single message. The
// signature covers the chain id, the relayer address, the message path,
// the nonce and the serialized message, so none of them can be
// substituted without invalidating the signature.
type Intent struct {
	Pubkey    *crypto.PublicKey `json:"pubkey"`
	Signature *crypto.Signature `json:"signature"`
	Nonce     int64             `json:"nonce"`
}

func (i *Intent) Validate() error {
	if i == nil {
		return errors.Wrap(errors.ErrEmpty, "intent")
	}
	var errs error
	errs = errors.AppendField(errs, "Pubkey", i.Pubkey.Validate())
	errs = errors.AppendField(errs, "Signature", i.Signature.Validate())
	if i.Nonce < 0 {
		errs = errors.AppendField(errs, "Nonce", errors.Wrap(ErrReplay, "negative"))
	}
	return errs
}

func (i Intent) Marshal() ([]byte, error) {
	return json.Marshal(i)
}

func (i *Intent) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, i)
}

// IntentTx is implemented by transactions that forward a message on
// behalf of an off chain signer.
type IntentTx interface {
	bounties.Tx

	// GetIntent returns the forwarded authorization, or nil if the
	// transaction is not relayed.
	GetIntent() *Intent
}
