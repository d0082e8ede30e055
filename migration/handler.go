package migration

import (
	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
)

// SchemaMigratingRegistry returns a registry that migrates every incoming
// message of the given package to the currently active schema version
// before passing it to the registered handler.
func SchemaMigratingRegistry(packageName string, r bounties.Registry) bounties.Registry {
	return &schemaMigratingRegistry{
		reg: r,
		pkg: packageName,
	}
}

type schemaMigratingRegistry struct {
	reg bounties.Registry
	pkg string
}

func (r *schemaMigratingRegistry) Handle(m bounties.Msg, h bounties.Handler) {
	r.reg.Handle(m, &schemaMigratingHandler{
		handler:     h,
		packageName: r.pkg,
		migrations:  reg,
		schema:      NewSchemaBucket(),
	})
}

type schemaMigratingHandler struct {
	handler     bounties.Handler
	packageName string
	migrations  *register
	schema      *SchemaBucket
}

var _ bounties.Handler = (*schemaMigratingHandler)(nil)

func (h *schemaMigratingHandler) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	if err := h.migrate(db, tx); err != nil {
		return nil, errors.Wrap(err, "migration")
	}
	return h.handler.Check(ctx, db, tx)
}

func (h *schemaMigratingHandler) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	if err := h.migrate(db, tx); err != nil {
		return nil, errors.Wrap(err, "migration")
	}
	return h.handler.Deliver(ctx, db, tx)
}

func (h *schemaMigratingHandler) migrate(db bounties.ReadOnlyKVStore, tx bounties.Tx) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "get msg")
	}
	m, ok := msg.(Migratable)
	if !ok {
		return errors.Wrapf(errors.ErrType, "message %T cannot be migrated", msg)
	}
	return migrate(h.migrations, h.schema, h.packageName, db, m)
}
