package migration

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
)

// Migratable is implemented by any entity that participates in the schema
// migration framework. Both models and messages qualify as long as they
// carry a metadata attribute.
type Migratable interface {
	// GetMetadata returns the metadata of this entity, including the
	// schema version that the data is serialized with.
	GetMetadata() *bounties.Metadata

	// Validate returns an error if the entity state is not valid.
	Validate() error
}

// Migrator is a function that migrates an entity in place from its current
// schema version to the next one. The store is available read only because
// migrations must not modify any state other than the entity itself.
type Migrator func(db bounties.ReadOnlyKVStore, entity Migratable) error

// NoModification is a migrator that migrates an entity by only bumping the
// schema version. Use it when a schema change does not require any data
// transformation.
func NoModification(db bounties.ReadOnlyKVStore, entity Migratable) error {
	return nil
}

type payloadVersion struct {
	payload reflect.Type
	version uint32
}

type register struct {
	mu         sync.RWMutex
	migrations map[payloadVersion]Migrator
}

func newRegister() *register {
	return &register{
		migrations: make(map[payloadVersion]Migrator),
	}
}

// MustRegister registers a migration function for the given entity and
// schema version. Migrations for an entity must be registered in order,
// starting with version 1, without gaps. This function panics on an
// invalid registration and is intended to be called from an init function
// of the extension that owns the entity.
func (r *register) MustRegister(migrationTo uint32, entity Migratable, fn Migrator) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if migrationTo < 1 {
		panic("migration versions start with 1")
	}
	tp := reflect.TypeOf(entity)
	if migrationTo > 1 {
		prev := payloadVersion{payload: tp, version: migrationTo - 1}
		if _, ok := r.migrations[prev]; !ok {
			panic(fmt.Sprintf("missing %T migration to version %d", entity, migrationTo-1))
		}
	}
	pv := payloadVersion{payload: tp, version: migrationTo}
	if _, ok := r.migrations[pv]; ok {
		panic(fmt.Sprintf("migration of %T to version %d already registered", entity, migrationTo))
	}
	r.migrations[pv] = fn
}

// Apply migrates the given entity in place to the given schema version,
// running all registered migration functions between the entity's current
// version and the requested one. The entity is validated after every step.
func (r *register) Apply(db bounties.ReadOnlyKVStore, entity Migratable, migrateTo uint32) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta := entity.GetMetadata()
	if meta == nil {
		return errors.Wrapf(errors.ErrMetadata, "%T metadata missing", entity)
	}
	if meta.Schema > migrateTo {
		return errors.Wrapf(errors.ErrSchema, "cannot downgrade %T from %d to %d", entity, meta.Schema, migrateTo)
	}

	tp := reflect.TypeOf(entity)
	for v := meta.Schema + 1; v <= migrateTo; v++ {
		fn, ok := r.migrations[payloadVersion{payload: tp, version: v}]
		if !ok {
			return errors.Wrapf(errors.ErrSchema, "no %T migration to version %d", entity, v)
		}
		if err := fn(db, entity); err != nil {
			return errors.Wrapf(err, "migration to version %d", v)
		}
		meta.Schema = v
		if err := entity.Validate(); err != nil {
			return errors.Wrapf(err, "invalid state after migration to version %d", v)
		}
	}
	return nil
}

// reg is a globally available migrations register. It is used by all
// extensions to register their schema migrations.
var reg = newRegister()

// MustRegister registers a migration function on the global register. See
// the register method documentation for the details.
func MustRegister(migrationTo uint32, entity Migratable, fn Migrator) {
	reg.MustRegister(migrationTo, entity, fn)
}
