package migration

import (
	"reflect"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/orm"
)

// NewModelBucket returns a ModelBucket implementation that ensures that
// every entity is migrated to the currently active schema version of the
// given package before it is returned or persisted.
func NewModelBucket(packageName string, b orm.ModelBucket) orm.ModelBucket {
	return &schemaMigratingModelBucket{
		b:           b,
		packageName: packageName,
		migrations:  reg,
		schema:      NewSchemaBucket(),
	}
}

type schemaMigratingModelBucket struct {
	b           orm.ModelBucket
	packageName string
	migrations  *register
	schema      *SchemaBucket
}

var _ orm.ModelBucket = (*schemaMigratingModelBucket)(nil)

func (svb *schemaMigratingModelBucket) One(db bounties.ReadOnlyKVStore, key []byte, dest orm.Model) error {
	if err := svb.b.One(db, key, dest); err != nil {
		return err
	}
	return svb.migrate(db, dest)
}

func (svb *schemaMigratingModelBucket) ByIndex(db bounties.ReadOnlyKVStore, indexName string, key []byte, dest orm.ModelSlicePtr) ([][]byte, error) {
	keys, err := svb.b.ByIndex(db, indexName, key, dest)
	if err != nil {
		return nil, err
	}
	slice := reflect.ValueOf(dest).Elem()
	for i := 0; i < slice.Len(); i++ {
		item := slice.Index(i)
		if item.Kind() != reflect.Ptr {
			item = item.Addr()
		}
		if err := svb.migrate(db, item.Interface()); err != nil {
			return nil, errors.Wrap(err, "migrate")
		}
	}
	return keys, nil
}

func (svb *schemaMigratingModelBucket) Put(db bounties.KVStore, key []byte, m orm.Model) ([]byte, error) {
	if err := svb.migrate(db, m); err != nil {
		return nil, errors.Wrap(err, "migrate")
	}
	return svb.b.Put(db, key, m)
}

func (svb *schemaMigratingModelBucket) Delete(db bounties.KVStore, key []byte) error {
	return svb.b.Delete(db, key)
}

func (svb *schemaMigratingModelBucket) Has(db bounties.KVStore, key []byte) error {
	return svb.b.Has(db, key)
}

func (svb *schemaMigratingModelBucket) Register(name string, r bounties.QueryRouter) {
	svb.b.Register(name, r)
}

func (svb *schemaMigratingModelBucket) migrate(db bounties.ReadOnlyKVStore, entity interface{}) error {
	m, ok := entity.(Migratable)
	if !ok {
		return errors.Wrapf(errors.ErrType, "%T cannot be migrated", entity)
	}
	return migrate(svb.migrations, svb.schema, svb.packageName, db, m)
}

// migrate upgrades the given entity to the currently active schema version
// of the package. An entity with a zero schema version is interpreted as
// using the initial version.
func migrate(
	migrations *register,
	schema *SchemaBucket,
	packageName string,
	db bounties.ReadOnlyKVStore,
	m Migratable,
) error {
	currSchemaVer, err := schema.CurrentSchema(db, packageName)
	if err != nil {
		return errors.Wrapf(err, "current schema of %q", packageName)
	}

	meta := m.GetMetadata()
	if meta == nil {
		return errors.Wrapf(errors.ErrMetadata, "%T metadata missing", m)
	}
	if meta.Schema == 0 {
		meta.Schema = 1
	}
	if meta.Schema > currSchemaVer {
		return errors.Wrapf(errors.ErrSchema, "schema %d is not active yet", meta.Schema)
	}
	if meta.Schema < currSchemaVer {
		if err := migrations.Apply(db, m, currSchemaVer); err != nil {
			return errors.Wrap(err, "applying migrations")
		}
	}
	return nil
}
