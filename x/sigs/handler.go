package sigs

import (
	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/migration"
	"github.com/iov-one/bounties/orm"
	"github.com/iov-one/bounties/x"
)

const bumpSequenceCost = 100

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r bounties.Registry, auth x.Authenticator) {
	r = migration.SchemaMigratingRegistry("sigs", r)
	r.Handle(&BumpSequenceMsg{}, BumpSequenceHandler{
		auth:  auth,
		users: NewBucket(),
	})
}

// BumpSequenceHandler moves the main signer's sequence forward.
type BumpSequenceHandler struct {
	auth  x.Authenticator
	users orm.ModelBucket
}

var _ bounties.Handler = BumpSequenceHandler{}

func (h BumpSequenceHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: bumpSequenceCost}, nil
}

func (h BumpSequenceHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, user, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// Processing this transaction already bumped the sequence by one,
	// the increment represents the total move.
	incr := msg.Increment - 1
	if incr == 0 {
		return &bounties.DeliverResult{}, nil
	}
	user.Sequence += incr
	if _, err := h.users.Put(db, user.Pubkey.Address(), user); err != nil {
		return nil, errors.Wrap(err, "save user")
	}
	return &bounties.DeliverResult{}, nil
}

func (h BumpSequenceHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*BumpSequenceMsg, *UserData, error) {
	var msg BumpSequenceMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	var user UserData
	if err := h.users.One(db, signer.Address(), &user); err != nil {
		return nil, nil, errors.Wrapf(err, "account of %s", signer.Address())
	}
	if user.Sequence+msg.Increment < user.Sequence {
		return nil, nil, errors.Wrap(errors.ErrOverflow, "user sequence")
	}
	return &msg, &user, nil
}
