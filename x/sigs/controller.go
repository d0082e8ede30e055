package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/crypto"
	"github.com/iov-one/bounties/errors"
)

// signCodeV1 prefixes the bytes used to build a signature.
var signCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures checks all the signatures on the tx. It returns the
// list of signer conditions, possibly empty, or an error if any signature
// is invalid. Sequences of all valid signers are consumed.
func VerifyTxSignatures(db bounties.KVStore, tx SignedTx, chainID string) ([]bounties.Condition, error) {
	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}

	sigs := tx.GetSignatures()
	signers := make([]bounties.Condition, 0, len(sigs))
	for _, sig := range sigs {
		signer, err := VerifySignature(db, sig, bz, chainID)
		if err != nil {
			return nil, err
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks one signature against the sign bytes and updates
// the signer's sequence in the store.
func VerifySignature(db bounties.KVStore, sig *StdSignature, signBytes []byte, chainID string) (bounties.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}

	user, err := loadOrCreateUser(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}

	toSign, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !user.Pubkey.Verify(toSign, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if _, err := NewBucket().Put(db, user.Pubkey.Address(), user); err != nil {
		return nil, errors.Wrap(err, "save user")
	}
	return user.Pubkey.Condition(), nil
}

// BuildSignBytes combines all info on the actual tx before signing.
//
//	version | len(chainID) | chainID      | sequence          | signBytes
//	4 bytes | uint8        | ascii string | int64 (bigendian) | serialized message
//
// The result is prehashed with sha512 before being fed into the public key
// signing and verification step, so hardware signers get a constant length
// input.
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !bounties.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	seqBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(seqBytes, uint64(seq))

	output := make([]byte, 0, len(signCodeV1)+1+len(chainID)+8+len(signBytes))
	output = append(output, signCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, []byte(chainID)...)
	output = append(output, seqBytes...)
	output = append(output, signBytes...)

	hashed := sha512.Sum512(output)
	return hashed[:], nil
}

// BuildSignBytesTx calculates the sign bytes given a tx.
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(signBytes, chainID, seq)
}

// SignTx creates a signature for the given tx.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	signBytes, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}

	sig, err := signer.Sign(signBytes)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}, nil
}
