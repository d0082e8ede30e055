package custody

import (
	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/asset"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/orm"
)

// Controller moves value between addresses. It is the single entry point
// for all custody mutations, so every caller observes the same
// insufficient-funds and validation rules.
type Controller interface {
	// Balance returns all holdings of the given address. An unknown
	// address owns nothing.
	Balance(db bounties.ReadOnlyKVStore, addr bounties.Address) (asset.Lots, error)

	// MoveLot transfers the given lot from src to dest. It fails if src
	// does not hold enough of the asset.
	MoveLot(db bounties.KVStore, src, dest bounties.Address, lot asset.Lot) error

	// MoveLots transfers a batch of lots from src to dest. The batch
	// must not name the same asset twice.
	MoveLots(db bounties.KVStore, src, dest bounties.Address, lots asset.Lots) error

	// Issue credits the given lot out of thin air. Use only for genesis
	// account funding.
	Issue(db bounties.KVStore, dest bounties.Address, lot asset.Lot) error
}

// NewController returns a controller backed by the custody account
// bucket.
func NewController() Controller {
	return &controller{bucket: NewAccountBucket()}
}

type controller struct {
	bucket orm.ModelBucket
}

var _ Controller = (*controller)(nil)

func (c *controller) Balance(db bounties.ReadOnlyKVStore, addr bounties.Address) (asset.Lots, error) {
	acc, err := c.account(db, addr)
	if err != nil {
		return nil, err
	}
	return acc.Holdings, nil
}

func (c *controller) MoveLot(db bounties.KVStore, src, dest bounties.Address, lot asset.Lot) error {
	if !lot.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non positive transfer of %s", lot.ID())
	}
	if err := lot.Validate(); err != nil {
		return errors.Wrap(err, "lot")
	}

	sender, err := c.account(db, src)
	if err != nil {
		return err
	}
	if !sender.Holdings.Contains(lot) {
		return errors.Wrapf(errors.ErrAmount, "insufficient funds: %s", lot.ID())
	}
	recipient, err := c.account(db, dest)
	if err != nil {
		return err
	}

	if sender.Holdings, err = sender.Holdings.Subtract(lot); err != nil {
		return err
	}
	if recipient.Holdings, err = recipient.Holdings.Add(lot); err != nil {
		return err
	}

	if _, err := c.bucket.Put(db, src, sender); err != nil {
		return errors.Wrap(err, "sender")
	}
	if _, err := c.bucket.Put(db, dest, recipient); err != nil {
		return errors.Wrap(err, "recipient")
	}
	return nil
}

func (c *controller) MoveLots(db bounties.KVStore, src, dest bounties.Address, lots asset.Lots) error {
	seen := make(map[string]struct{}, len(lots))
	for _, lot := range lots {
		if _, ok := seen[lot.ID()]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "asset %s", lot.ID())
		}
		seen[lot.ID()] = struct{}{}
	}
	for _, lot := range lots {
		if err := c.MoveLot(db, src, dest, lot); err != nil {
			return errors.Wrapf(err, "asset %s", lot.ID())
		}
	}
	return nil
}

func (c *controller) Issue(db bounties.KVStore, dest bounties.Address, lot asset.Lot) error {
	if !lot.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non positive issue of %s", lot.ID())
	}
	recipient, err := c.account(db, dest)
	if err != nil {
		return err
	}
	if recipient.Holdings, err = recipient.Holdings.Add(lot); err != nil {
		return err
	}
	_, err = c.bucket.Put(db, dest, recipient)
	return err
}

// account loads the holdings of the given address, an unknown address is
// an empty account.
func (c *controller) account(db bounties.ReadOnlyKVStore, addr bounties.Address) (*Account, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "address")
	}
	var acc Account
	switch err := c.bucket.One(db, addr, &acc); {
	case err == nil:
		return &acc, nil
	case errors.ErrNotFound.Is(err):
		return &Account{Metadata: &bounties.Metadata{Schema: 1}}, nil
	default:
		return nil, err
	}
}
