package sigs

import (
	"encoding/json"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/migration"
)

func init() {
	migration.MustRegister(1, &BumpSequenceMsg{}, migration.NoModification)
}

const (
	minSequenceIncrement = 1
	maxSequenceIncrement = 1000
)

var _ bounties.Msg = (*BumpSequenceMsg)(nil)

// BumpSequenceMsg invalidates any transaction signed with a smaller
// sequence, by moving the signer's sequence forward.
type BumpSequenceMsg struct {
	Metadata  *bounties.Metadata `json:"metadata"`
	Increment int64              `json:"increment"`
}

func (BumpSequenceMsg) Path() string {
	return "sigs/bump_sequence"
}

func (m *BumpSequenceMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Increment < minSequenceIncrement {
		errs = errors.AppendField(errs, "Increment",
			errors.Wrapf(errors.ErrInput, "increment must be at least %d", minSequenceIncrement))
	} else if m.Increment > maxSequenceIncrement {
		errs = errors.AppendField(errs, "Increment",
			errors.Wrapf(errors.ErrInput, "increment must not be greater than %d", maxSequenceIncrement))
	}
	return errs
}

func (m *BumpSequenceMsg) GetMetadata() *bounties.Metadata { return m.Metadata }

func (m *BumpSequenceMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *BumpSequenceMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }
