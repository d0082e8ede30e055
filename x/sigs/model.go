package sigs

import (
	"encoding/json"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/crypto"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/migration"
	"github.com/iov-one/bounties/orm"
)

func init() {
	migration.MustRegister(1, &UserData{}, migration.NoModification)
}

// UserData stores the public key and the sequence of one signer, keyed by
// the signer's address. A missing record means sequence zero is expected.
type UserData struct {
	Metadata *bounties.Metadata `json:"metadata"`
	Pubkey   *crypto.PublicKey  `json:"pubkey,omitempty"`
	Sequence int64              `json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)
var _ migration.Migratable = (*UserData)(nil)

func (u *UserData) GetMetadata() *bounties.Metadata { return u.Metadata }

func (u *UserData) Marshal() ([]byte, error)   { return json.Marshal(u) }
func (u *UserData) Unmarshal(raw []byte) error { return json.Unmarshal(raw, u) }

func (u *UserData) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", u.Metadata.Validate())
	if u.Sequence < 0 {
		errs = errors.AppendField(errs, "Sequence", errors.Wrap(ErrInvalidSequence, "negative"))
	} else if u.Sequence > 0 && u.Pubkey == nil {
		errs = errors.AppendField(errs, "Sequence", errors.Wrap(ErrInvalidSequence, "needs a pubkey"))
	}
	return errs
}

func (u *UserData) Copy() orm.CloneableData {
	return &UserData{
		Metadata: u.Metadata.Copy(),
		Pubkey:   u.Pubkey,
		Sequence: u.Sequence,
	}
}

// maxSequenceValue is limited by javascript clients, where the greatest
// safe integer is 2^53 - 1.
const maxSequenceValue = (1 << 53) - 1

// CheckAndIncrementSequence increments the sequence if the current value
// matches the expected one, otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "want %d, got %d", u.Sequence, expected)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// NewBucket returns a bucket for storing signer accounts, keyed by the
// signer's address.
func NewBucket() orm.ModelBucket {
	b := orm.NewModelBucket("sigs", &UserData{})
	return migration.NewModelBucket("sigs", b)
}

// loadOrCreateUser returns the stored account of the given public key, or
// a fresh one with sequence zero if none exists yet.
func loadOrCreateUser(db bounties.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	var user UserData
	switch err := NewBucket().One(db, pubkey.Address(), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{
			Metadata: &bounties.Metadata{Schema: 1},
			Pubkey:   pubkey,
		}, nil
	default:
		return nil, errors.Wrapf(err, "account of %s", pubkey.Address())
	}
}
