package sigs

import (
	"github.com/iov-one/bounties/crypto"
	"github.com/iov-one/bounties/errors"
)

// SignedTx is implemented by transactions that carry signatures which can
// be verified by the sigs decorator.
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// message being authorized.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signatures of everyone who signed.
	GetSignatures() []*StdSignature
}

// StdSignature is one signature over the sign bytes, together with the
// signer's public key and the sequence used to prevent replays.
type StdSignature struct {
	Pubkey    *crypto.PublicKey `json:"pubkey"`
	Signature *crypto.Signature `json:"signature"`
	Sequence  int64             `json:"sequence"`
}

// Validate ensures the signature meets basic standards.
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}
