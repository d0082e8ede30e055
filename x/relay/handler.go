package relay

import (
	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/migration"
	"github.com/iov-one/bounties/orm"
	"github.com/iov-one/bounties/x"
)

const setRelayerCost = 50

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r bounties.Registry, auth x.Authenticator) {
	r = migration.SchemaMigratingRegistry("relay", r)
	r.Handle(&SetRelayerMsg{}, SetRelayerHandler{
		auth:   auth,
		config: NewConfigBucket(),
	})
}

// RegisterQuery will register the nonce bucket as "/relaynonces".
func RegisterQuery(qr bounties.QueryRouter) {
	NewNonceBucket().Register("relaynonces", qr)
}

// SetRelayerHandler sets the relayer account, exactly once.
type SetRelayerHandler struct {
	auth   x.Authenticator
	config orm.ModelBucket
}

var _ bounties.Handler = SetRelayerHandler{}

func (h SetRelayerHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bounties.CheckResult{GasAllocated: setRelayerCost}, nil
}

func (h SetRelayerHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	msg, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf.Relayer = msg.Relayer
	if _, err := h.config.Put(db, configKey, conf); err != nil {
		return nil, err
	}
	return &bounties.DeliverResult{}, nil
}

func (h SetRelayerHandler) validate(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*SetRelayerMsg, *Config, error) {
	var msg SetRelayerMsg
	if err := bounties.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConfig(db)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Owner) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "not the owner")
	}
	if len(conf.Relayer) != 0 {
		return nil, nil, errors.Wrap(errors.ErrState, "relayer already set")
	}
	return &msg, conf, nil
}
