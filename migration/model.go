package migration

import (
	"encoding/json"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/orm"
)

// Schema keeps track of the currently active schema version of a single
// package. There is at most one entity per package name.
type Schema struct {
	Metadata *bounties.Metadata `json:"metadata"`
	// Pkg is the name of the package this schema version refers to.
	Pkg string `json:"pkg"`
	// Version is the currently active schema version of the package.
	Version uint32 `json:"version"`
}

var _ orm.Model = (*Schema)(nil)

func (s *Schema) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

func (s *Schema) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, s)
}

func (s *Schema) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", s.Metadata.Validate())
	if len(s.Pkg) < 3 {
		errs = errors.AppendField(errs, "Pkg", errors.Wrap(errors.ErrInput, "too short"))
	}
	if s.Version < 1 {
		errs = errors.AppendField(errs, "Version", errors.Wrap(errors.ErrInput, "version must be greater than zero"))
	}
	return errs
}

func (s *Schema) Copy() orm.CloneableData {
	return &Schema{
		Metadata: s.Metadata.Copy(),
		Pkg:      s.Pkg,
		Version:  s.Version,
	}
}

// NewSchemaBucket returns a bucket maintaining the currently active schema
// version of every package.
func NewSchemaBucket() *SchemaBucket {
	return &SchemaBucket{
		b: orm.NewModelBucket("schema", &Schema{}),
	}
}

// SchemaBucket maintains the currently active schema version of each
// package, keyed by the package name.
type SchemaBucket struct {
	b orm.ModelBucket
}

// CurrentSchema returns the currently active schema version of the given
// package. It returns ErrSchema if the package schema was never
// initialized.
func (b *SchemaBucket) CurrentSchema(db bounties.ReadOnlyKVStore, pkg string) (uint32, error) {
	var s Schema
	err := b.b.One(db, []byte(pkg), &s)
	switch {
	case err == nil:
		return s.Version, nil
	case errors.ErrNotFound.Is(err):
		return 0, errors.Wrapf(errors.ErrSchema, "package %q not initialized", pkg)
	default:
		return 0, err
	}
}

// Save persists the given schema version. Saving a version that is not
// exactly one greater than the currently active one fails, so versions
// cannot be skipped or taken back.
func (b *SchemaBucket) Save(db bounties.KVStore, s *Schema) error {
	if err := s.Validate(); err != nil {
		return errors.Wrap(err, "invalid schema")
	}
	cur, err := b.CurrentSchema(db, s.Pkg)
	if err != nil && !errors.ErrSchema.Is(err) {
		return err
	}
	if s.Version != cur+1 {
		return errors.Wrapf(errors.ErrSchema, "version must be %d", cur+1)
	}
	_, err = b.b.Put(db, []byte(s.Pkg), s)
	return err
}
