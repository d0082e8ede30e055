package relay

import (
	"encoding/json"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/migration"
	"github.com/iov-one/bounties/orm"
)

func init() {
	migration.MustRegister(1, &UserNonce{}, migration.NoModification)
	migration.MustRegister(1, &Config{}, migration.NoModification)
}

// UserNonce tracks the next expected intent nonce of one signer. A
// missing record means nonce zero is expected.
type UserNonce struct {
	Metadata *bounties.Metadata `json:"metadata"`
	Nonce    int64              `json:"nonce"`
}

var _ orm.Model = (*UserNonce)(nil)
var _ migration.Migratable = (*UserNonce)(nil)

func (n *UserNonce) GetMetadata() *bounties.Metadata { return n.Metadata }

func (n *UserNonce) Marshal() ([]byte, error)   { return json.Marshal(n) }
func (n *UserNonce) Unmarshal(raw []byte) error { return json.Unmarshal(raw, n) }

func (n *UserNonce) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", n.Metadata.Validate())
	if n.Nonce < 0 {
		errs = errors.AppendField(errs, "Nonce", errors.Wrap(errors.ErrState, "negative"))
	}
	return errs
}

func (n *UserNonce) Copy() orm.CloneableData {
	return &UserNonce{
		Metadata: n.Metadata.Copy(),
		Nonce:    n.Nonce,
	}
}

// NewNonceBucket returns a bucket for storing intent nonces, keyed by
// the signer's address.
func NewNonceBucket() orm.ModelBucket {
	b := orm.NewModelBucket("rlnc", &UserNonce{})
	return migration.NewModelBucket("relay", b)
}

// Config declares who administers the relay and which account is the
// authorized relayer. The relayer can be set exactly once, by the owner.
type Config struct {
	Metadata *bounties.Metadata `json:"metadata"`
	Owner    bounties.Address   `json:"owner"`
	Relayer  bounties.Address   `json:"relayer,omitempty"`
}

var _ orm.Model = (*Config)(nil)
var _ migration.Migratable = (*Config)(nil)

func (c *Config) GetMetadata() *bounties.Metadata { return c.Metadata }

func (c *Config) Marshal() ([]byte, error)   { return json.Marshal(c) }
func (c *Config) Unmarshal(raw []byte) error { return json.Unmarshal(raw, c) }

func (c *Config) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	if len(c.Relayer) != 0 {
		errs = errors.AppendField(errs, "Relayer", c.Relayer.Validate())
	}
	return errs
}

func (c *Config) Copy() orm.CloneableData {
	return &Config{
		Metadata: c.Metadata.Copy(),
		Owner:    append(bounties.Address{}, c.Owner...),
		Relayer:  append(bounties.Address{}, c.Relayer...),
	}
}

var configKey = []byte("config")

// NewConfigBucket returns a bucket holding the single relay
// configuration under a fixed key.
func NewConfigBucket() orm.ModelBucket {
	b := orm.NewModelBucket("rlcf", &Config{})
	return migration.NewModelBucket("relay", b)
}

func loadConfig(db bounties.ReadOnlyKVStore) (*Config, error) {
	var c Config
	if err := NewConfigBucket().One(db, configKey, &c); err != nil {
		return nil, errors.Wrap(err, "relay configuration")
	}
	return &c, nil
}

// NextNonce returns the nonce expected for the next intent of the given
// signer. Signers without any forwarded intent start at zero.
func NextNonce(db bounties.ReadOnlyKVStore, signer bounties.Address) (int64, error) {
	var n UserNonce
	switch err := NewNonceBucket().One(db, signer, &n); {
	case err == nil:
		return n.Nonce, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrapf(err, "nonce of %s", signer)
	}
}
