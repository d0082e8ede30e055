package bounty

import (
	"github.com/iov-one/bounties/errors"
)

// ErrBounds is returned when an index addressed entity (milestone,
// issuer, approver) is out of range.
var ErrBounds = errors.Register(1100, "index out of bounds")
