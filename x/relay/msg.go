package relay

import (
	"encoding/json"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/migration"
)

func init() {
	migration.MustRegister(1, &SetRelayerMsg{}, migration.NoModification)
}

var _ bounties.Msg = (*SetRelayerMsg)(nil)

// SetRelayerMsg declares the relayer account. Only the configuration
// owner can send it and only while no relayer is set.
type SetRelayerMsg struct {
	Metadata *bounties.Metadata `json:"metadata"`
	Relayer  bounties.Address   `json:"relayer"`
}

func (SetRelayerMsg) Path() string {
	return "relay/set_relayer"
}

func (m *SetRelayerMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Relayer", m.Relayer.Validate())
	return errs
}

func (m *SetRelayerMsg) GetMetadata() *bounties.Metadata { return m.Metadata }

func (m *SetRelayerMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *SetRelayerMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }
