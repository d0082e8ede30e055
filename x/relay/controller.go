package relay

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/crypto"
	"github.com/iov-one/bounties/errors"
)

// intentCodeV1 prefixes the bytes of every signed intent digest.
var intentCodeV1 = []byte{0, 0xBE, 0xEF, 0}

// forwardablePaths lists the message paths that can be relayed. Any
// other message must be submitted by its author directly.
var forwardablePaths = map[string]bool{
	"bounty/create":             true,
	"bounty/contribute":         true,
	"bounty/fulfill":            true,
	"bounty/update_fulfillment": true,
}

/*
BuildIntentDigest combines everything an intent authorizes into the
bytes that are signed:

	code    | len(chainID) | chainID | relayer  | len(path) | path  | nonce              | len(msg)           | msg
	4 bytes | uint8        | ascii   | 20 bytes | uint8     | ascii | int64 (big endian) | uint32 (big endian) | serialized message

Every variable length field carries its length, so no concatenation of
two different inputs can produce the same byte stream. The result is
hashed with sha512 to a constant length digest before signing.
*/
func BuildIntentDigest(chainID string, relayer bounties.Address, path string, nonce int64, rawMsg []byte) ([]byte, error) {
	if nonce < 0 {
		return nil, errors.Wrap(ErrReplay, "negative nonce")
	}
	if !bounties.IsValidChainID(chainID) {
		return nil, errors.Wrapf(ErrEncoding, "chain id: %v", chainID)
	}
	if err := relayer.Validate(); err != nil {
		return nil, errors.Wrap(err, "relayer")
	}
	if len(path) == 0 || len(path) > 255 {
		return nil, errors.Wrap(ErrEncoding, "path length")
	}

	nonceRaw := make([]byte, 8)
	binary.BigEndian.PutUint64(nonceRaw, uint64(nonce))
	msgLen := make([]byte, 4)
	binary.BigEndian.PutUint32(msgLen, uint32(len(rawMsg)))

	output := make([]byte, 0, 4+1+len(chainID)+len(relayer)+1+len(path)+8+4+len(rawMsg))
	output = append(output, intentCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, []byte(chainID)...)
	output = append(output, relayer...)
	output = append(output, uint8(len(path)))
	output = append(output, []byte(path)...)
	output = append(output, nonceRaw...)
	output = append(output, msgLen...)
	output = append(output, rawMsg...)

	hashed := sha512.Sum512(output)
	return hashed[:], nil
}

// SignIntent creates a signed intent for forwarding the given message
// through the given relayer.
func SignIntent(signer crypto.Signer, chainID string, relayer bounties.Address, msg bounties.Msg, nonce int64) (*Intent, error) {
	raw, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(ErrEncoding, err.Error())
	}
	digest, err := BuildIntentDigest(chainID, relayer, msg.Path(), nonce, raw)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, err
	}
	return &Intent{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Nonce:     nonce,
	}, nil
}

// VerifyIntent checks the intent of a relayed transaction and consumes
// the signer's nonce. On success the original signer's condition is
// returned and may be authenticated for the wrapped message.
//
// The nonce is incremented and persisted before reporting success, so a
// second submission of the same intent fails with ErrReplay.
func VerifyIntent(ctx bounties.Context, db bounties.KVStore, tx IntentTx) (bounties.Condition, error) {
	intent := tx.GetIntent()
	if err := intent.Validate(); err != nil {
		return nil, err
	}
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get message")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrState, "transaction without a message")
	}
	if !forwardablePaths[msg.Path()] {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "path %q cannot be relayed", msg.Path())
	}

	conf, err := loadConfig(db)
	if err != nil {
		return nil, err
	}
	if len(conf.Relayer) == 0 {
		return nil, errors.Wrap(errors.ErrState, "no relayer configured")
	}

	raw, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(ErrEncoding, err.Error())
	}
	digest, err := BuildIntentDigest(bounties.GetChainID(ctx), conf.Relayer, msg.Path(), intent.Nonce, raw)
	if err != nil {
		return nil, err
	}
	if !intent.Pubkey.Verify(digest, intent.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid intent signature")
	}

	signer := intent.Pubkey.Address()
	if err := consumeNonce(db, signer, intent.Nonce); err != nil {
		return nil, err
	}
	return intent.Pubkey.Condition(), nil
}

// consumeNonce accepts the given nonce if it is exactly the next one
// expected for the signer and persists the increment.
func consumeNonce(db bounties.KVStore, signer bounties.Address, nonce int64) error {
	bucket := NewNonceBucket()
	var n UserNonce
	switch err := bucket.One(db, signer, &n); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		n = UserNonce{Metadata: &bounties.Metadata{Schema: 1}}
	default:
		return errors.Wrapf(err, "nonce of %s", signer)
	}
	if nonce != n.Nonce {
		return errors.Wrapf(ErrReplay, "want nonce %d, got %d", n.Nonce, nonce)
	}
	n.Nonce++
	if _, err := bucket.Put(db, signer, &n); err != nil {
		return errors.Wrap(err, "store nonce")
	}
	return nil
}
