package bounties

import (
	"encoding/json"

	"github.com/iov-one/bounties/errors"
)

// Metadata is carried by every persistent entity and message. The schema
// version allows the migration layer to upgrade stored data on load.
type Metadata struct {
	Schema uint32 `json:"schema"`
}

// Validate returns an error if the metadata is empty or carries a zero
// schema version.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "no metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrMetadata, "schema version missing")
	}
	return nil
}

// Copy returns a deep copy of this metadata.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}

func (m Metadata) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *Metadata) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}
