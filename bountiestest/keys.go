package bountiestest

import (
	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/crypto"
)

func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

func NewCondition() bounties.Condition {
	return NewKey().PublicKey().Condition()
}
