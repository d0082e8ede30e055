package custody

import (
	"encoding/json"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/asset"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/migration"
	"github.com/iov-one/bounties/orm"
)

func init() {
	migration.MustRegister(1, &Account{}, migration.NoModification)
}

// Account is the set of holdings owned by a single address.
type Account struct {
	Metadata *bounties.Metadata `json:"metadata"`
	Holdings asset.Lots         `json:"holdings"`
}

var _ orm.Model = (*Account)(nil)

func (a *Account) GetMetadata() *bounties.Metadata {
	return a.Metadata
}

func (a *Account) Marshal() ([]byte, error) {
	return json.Marshal(a)
}

func (a *Account) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, a)
}

func (a *Account) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "Holdings", a.Holdings.Validate())
	return errs
}

func (a *Account) Copy() orm.CloneableData {
	return &Account{
		Metadata: a.Metadata.Copy(),
		Holdings: a.Holdings.Clone(),
	}
}

// NewAccountBucket returns a bucket for keeping track of the holdings of
// every address. Accounts are keyed by the owner address.
func NewAccountBucket() orm.ModelBucket {
	b := orm.NewModelBucket("cust", &Account{})
	return migration.NewModelBucket("custody", b)
}

// RegisterQuery registers the custody bucket under /custody.
func RegisterQuery(qr bounties.QueryRouter) {
	NewAccountBucket().Register("custody", qr)
}
