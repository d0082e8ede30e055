package migration

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/orm"
	"github.com/iov-one/bounties/store"
)

type record struct {
	Metadata *bounties.Metadata `json:"metadata"`
	Payload  string             `json:"payload"`
}

var _ orm.Model = (*record)(nil)
var _ Migratable = (*record)(nil)

func (r *record) GetMetadata() *bounties.Metadata { return r.Metadata }
func (r *record) Marshal() ([]byte, error)        { return json.Marshal(r) }
func (r *record) Unmarshal(raw []byte) error      { return json.Unmarshal(raw, r) }
func (r *record) Validate() error {
	return r.Metadata.Validate()
}
func (r *record) Copy() orm.CloneableData {
	return &record{Metadata: r.Metadata.Copy(), Payload: r.Payload}
}

func TestRegisterApply(t *testing.T) {
	migrations := newRegister()
	migrations.MustRegister(1, &record{}, NoModification)
	migrations.MustRegister(2, &record{}, func(db bounties.ReadOnlyKVStore, e Migratable) error {
		e.(*record).Payload += " two"
		return nil
	})
	migrations.MustRegister(3, &record{}, func(db bounties.ReadOnlyKVStore, e Migratable) error {
		e.(*record).Payload += " three"
		return nil
	})

	db := store.MemStore()
	r := record{
		Metadata: &bounties.Metadata{Schema: 1},
		Payload:  "one",
	}
	if err := migrations.Apply(db, &r, 3); err != nil {
		t.Fatalf("cannot apply: %+v", err)
	}
	if r.Payload != "one two three" {
		t.Fatalf("unexpected payload: %q", r.Payload)
	}
	if r.Metadata.Schema != 3 {
		t.Fatalf("schema must be bumped, got %d", r.Metadata.Schema)
	}
}

func TestRegisterApplyCannotDowngrade(t *testing.T) {
	migrations := newRegister()
	migrations.MustRegister(1, &record{}, NoModification)

	db := store.MemStore()
	r := record{
		Metadata: &bounties.Metadata{Schema: 4},
		Payload:  "future",
	}
	if err := migrations.Apply(db, &r, 1); !errors.ErrSchema.Is(err) {
		t.Fatalf("want schema error, got %+v", err)
	}
}

func TestRegisterMustBeSequential(t *testing.T) {
	migrations := newRegister()
	migrations.MustRegister(1, &record{}, NoModification)

	defer func() {
		if recover() == nil {
			t.Fatal("registering with a version gap must panic")
		}
	}()
	migrations.MustRegister(3, &record{}, NoModification)
}

func TestSchemaBucketSave(t *testing.T) {
	db := store.MemStore()
	b := NewSchemaBucket()

	if _, err := b.CurrentSchema(db, "mypkg"); !errors.ErrSchema.Is(err) {
		t.Fatalf("uninitialized package must fail, got %+v", err)
	}

	meta := &bounties.Metadata{Schema: 1}
	err := b.Save(db, &Schema{Metadata: meta, Pkg: "mypkg", Version: 2})
	if !errors.ErrSchema.Is(err) {
		t.Fatalf("version must not be skipped, got %+v", err)
	}
	if err := b.Save(db, &Schema{Metadata: meta, Pkg: "mypkg", Version: 1}); err != nil {
		t.Fatalf("cannot save initial version: %+v", err)
	}
	if err := b.Save(db, &Schema{Metadata: meta, Pkg: "mypkg", Version: 2}); err != nil {
		t.Fatalf("cannot bump version: %+v", err)
	}
	if v, err := b.CurrentSchema(db, "mypkg"); err != nil || v != 2 {
		t.Fatalf("want version 2, got %d, %+v", v, err)
	}
	err = b.Save(db, &Schema{Metadata: meta, Pkg: "mypkg", Version: 1})
	if !errors.ErrSchema.Is(err) {
		t.Fatalf("version must not be taken back, got %+v", err)
	}
}

func TestSchemaMigratingModelBucket(t *testing.T) {
	migrations := newRegister()
	migrations.MustRegister(1, &record{}, NoModification)
	migrations.MustRegister(2, &record{}, func(db bounties.ReadOnlyKVStore, e Migratable) error {
		e.(*record).Payload = "migrated"
		return nil
	})

	db := store.MemStore()
	MustInitPkg(db, "mypkg")

	b := &schemaMigratingModelBucket{
		b:           orm.NewModelBucket("recs", &record{}),
		packageName: "mypkg",
		migrations:  migrations,
		schema:      NewSchemaBucket(),
	}

	// Stored with schema 1, loaded while schema 1 is active.
	key := []byte("k")
	r := record{Metadata: &bounties.Metadata{Schema: 1}, Payload: "original"}
	if _, err := b.Put(db, key, &r); err != nil {
		t.Fatalf("cannot put: %+v", err)
	}
	var loaded record
	if err := b.One(db, key, &loaded); err != nil {
		t.Fatalf("cannot get: %+v", err)
	}
	if loaded.Payload != "original" {
		t.Fatalf("no migration expected, got %q", loaded.Payload)
	}

	// Bump the active schema. The stored entity must be migrated on load.
	meta := &bounties.Metadata{Schema: 1}
	if err := NewSchemaBucket().Save(db, &Schema{Metadata: meta, Pkg: "mypkg", Version: 2}); err != nil {
		t.Fatalf("cannot bump schema: %+v", err)
	}
	if err := b.One(db, key, &loaded); err != nil {
		t.Fatalf("cannot get: %+v", err)
	}
	if loaded.Payload != "migrated" {
		t.Fatalf("want migrated payload, got %q", loaded.Payload)
	}
	if loaded.Metadata.Schema != 2 {
		t.Fatalf("want schema 2, got %d", loaded.Metadata.Schema)
	}
}

func TestMigrateRejectsFutureSchema(t *testing.T) {
	migrations := newRegister()
	migrations.MustRegister(1, &record{}, NoModification)

	db := store.MemStore()
	MustInitPkg(db, "mypkg")

	r := record{Metadata: &bounties.Metadata{Schema: 5}, Payload: "future"}
	err := migrate(migrations, NewSchemaBucket(), "mypkg", db, &r)
	if !errors.ErrSchema.Is(err) {
		t.Fatalf("want schema error, got %+v", err)
	}
}
