package sigs

import (
	"github.com/iov-one/bounties/errors"
)

// ErrInvalidSequence is returned when the sequence of a signature does
// not match the state of the signer's account.
var ErrInvalidSequence = errors.Register(1300, "invalid sequence")
