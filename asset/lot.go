package asset

import (
	"fmt"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
)

// Lot is an amount of a single asset. For non fungible assets the amount
// is always 0 or 1 because the token is unique.
type Lot struct {
	Asset  Asset `json:"asset"`
	Amount int64 `json:"amount"`
}

// NewLot returns a lot of the given asset and amount.
func NewLot(a Asset, amount int64) Lot {
	return Lot{Asset: a, Amount: amount}
}

// NativeLot returns a lot of the native currency.
func NativeLot(amount int64) Lot {
	return Lot{Asset: NativeAsset(), Amount: amount}
}

// ID returns the identity of the asset this lot is denominated in.
func (l Lot) ID() string {
	return l.Asset.ID()
}

// IsZero returns true if the amount is 0.
func (l Lot) IsZero() bool {
	return l.Amount == 0
}

// IsPositive returns true if the amount is greater than 0.
func (l Lot) IsPositive() bool {
	return l.Amount > 0
}

// IsNonNegative returns true if the amount is 0 or higher.
func (l Lot) IsNonNegative() bool {
	return l.Amount >= 0
}

// SameAsset returns true if both lots are denominated in the same asset.
func (l Lot) SameAsset(o Lot) bool {
	return l.Asset.Equals(o.Asset)
}

// Equals returns true if both lots hold the same amount of the same asset.
func (l Lot) Equals(o Lot) bool {
	return l.SameAsset(o) && l.Amount == o.Amount
}

// IsGTE returns true if this lot is denominated in the same asset and is
// at least as large as the other one.
func (l Lot) IsGTE(o Lot) bool {
	return l.SameAsset(o) && l.Amount >= o.Amount
}

// Negative returns the opposite lot value.
//   l.Add(l.Negative()).IsZero() == true
func (l Lot) Negative() Lot {
	return Lot{Asset: l.Asset, Amount: -l.Amount}
}

// Add combines two lots. It fails if they are denominated in different
// assets or if the combination would overflow.
func (l Lot) Add(o Lot) (Lot, error) {
	if !l.SameAsset(o) {
		return Lot{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.ID(), l.ID())
	}
	sum, err := add64(l.Amount, o.Amount)
	if err != nil {
		return Lot{}, err
	}
	return Lot{Asset: l.Asset, Amount: sum}, nil
}

// Subtract decreases this lot by the given amount. The result may be
// negative.
func (l Lot) Subtract(o Lot) (Lot, error) {
	return l.Add(o.Negative())
}

// Share returns the given fraction of this lot, rounded down.
//
// The computation is decomposed so that a large amount multiplied by a
// large numerator does not overflow before the division is applied.
func (l Lot) Share(f bounties.Fraction) (Lot, error) {
	if f.Denominator == 0 {
		return Lot{}, errors.Wrap(errors.ErrInput, "zero division")
	}
	if f.Numerator > f.Denominator {
		return Lot{}, errors.Wrapf(errors.ErrAmount, "fraction %s is greater than one", f.String())
	}
	if l.Amount < 0 {
		return Lot{}, errors.Wrap(errors.ErrAmount, "negative amount")
	}

	n := int64(f.Numerator)
	d := int64(f.Denominator)

	// amount*n/d == (amount/d)*n + (amount%d)*n/d
	quot, err := mul64(l.Amount/d, n)
	if err != nil {
		return Lot{}, err
	}
	rem, err := mul64(l.Amount%d, n)
	if err != nil {
		return Lot{}, err
	}
	share, err := add64(quot, rem/d)
	if err != nil {
		return Lot{}, err
	}
	return Lot{Asset: l.Asset, Amount: share}, nil
}

// Validate returns an error if the lot is denominated in an invalid asset
// or if the amount does not fit the asset kind. Negative amounts are
// accepted, so business logic may want to make additional checks.
func (l Lot) Validate() error {
	if err := l.Asset.Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}
	if l.Asset.Kind == NonFungible && l.Amount != 0 && l.Amount != 1 {
		return errors.Wrapf(errors.ErrAmount, "non fungible amount must be 0 or 1, got %d", l.Amount)
	}
	return nil
}

// Copy returns an independent copy of this lot.
func (l Lot) Copy() Lot {
	return Lot{Asset: l.Asset.Copy(), Amount: l.Amount}
}

// String provides a human readable representation, meant for testing and
// debugging.
func (l Lot) String() string {
	return fmt.Sprintf("%d %s", l.Amount, l.ID())
}

// mul64 multiplies two int64 numbers. If the result overflows the int64
// size the ErrOverflow is returned.
func mul64(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/a != b {
		return c, errors.ErrOverflow
	}
	return c, nil
}

// add64 sums two int64 numbers. If the result overflows the int64 size
// the ErrOverflow is returned.
func add64(a, b int64) (int64, error) {
	c := a + b
	if b > 0 && c < a {
		return c, errors.ErrOverflow
	}
	if b < 0 && c > a {
		return c, errors.ErrOverflow
	}
	return c, nil
}
