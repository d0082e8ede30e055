package relay

import (
	"github.com/iov-one/bounties/errors"
)

var (
	// ErrReplay is returned when an intent carries a nonce that was
	// already consumed or is not the next one expected.
	ErrReplay = errors.Register(1200, "replayed intent")

	// ErrEncoding is returned when an intent or its wrapped message
	// cannot be serialized into the signed digest form.
	ErrEncoding = errors.Register(1201, "intent encoding")
)
