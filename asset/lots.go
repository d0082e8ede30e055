package asset

import (
	"strings"

	"github.com/iov-one/bounties/errors"
)

// Lots represents a set of lots, ordered by asset identity with at most
// one entry per asset. Most operations require the normalized form, so
// build collections through Add or Combine.
type Lots []Lot

// CombineLots creates a Lots collection containing all given lots. It
// sorts them and combines duplicates to produce a normalized form
// regardless of the input order.
func CombineLots(ls ...Lot) (Lots, error) {
	var err error
	lots := make(Lots, 0)
	for _, l := range ls {
		lots, err = lots.Add(l)
		if err != nil {
			return nil, err
		}
	}
	if err := lots.Validate(); err != nil {
		return nil, err
	}
	return lots, nil
}

// Clone returns a copy that can be safely modified.
func (ls Lots) Clone() Lots {
	if ls == nil {
		return nil
	}
	res := make(Lots, len(ls))
	for i, l := range ls {
		res[i] = l.Copy()
	}
	return res
}

// Add returns the collection with the holdings increased by l. An asset
// whose amount drops to zero is removed from the collection.
func (ls Lots) Add(l Lot) (Lots, error) {
	if l.IsZero() {
		return ls, nil
	}

	has, i := ls.findLot(l.ID())
	if has != nil {
		sum, err := has.Add(l)
		if err != nil {
			return nil, err
		}
		if sum.IsZero() {
			return append(ls[:i], ls[i+1:]...), nil
		}
		ls[i] = sum
		return ls, nil
	}
	if i == len(ls) {
		return append(ls, l), nil
	}
	res := append(ls, Lot{})
	copy(res[i+1:], res[i:])
	res[i] = l
	return res, nil
}

// Subtract returns the collection with the holdings decreased by l. The
// resulting amounts may be negative.
func (ls Lots) Subtract(l Lot) (Lots, error) {
	return ls.Add(l.Negative())
}

// Combine creates a new collection adding all the lots of ls and o
// together.
func (ls Lots) Combine(o Lots) (Lots, error) {
	var err error
	res := ls.Clone()
	for _, l := range o {
		res, err = res.Add(l)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Contains returns true if there is at least that much of the asset in
// the collection. If it returns true, then:
//   ls.Subtract(l).IsNonNegative() == true
func (ls Lots) Contains(l Lot) bool {
	has, _ := ls.findLot(l.ID())
	if has == nil {
		return false
	}
	return has.IsGTE(l)
}

// Get returns the amount held in the given asset. A missing asset is a
// zero amount.
func (ls Lots) Get(a Asset) Lot {
	has, _ := ls.findLot(a.ID())
	if has == nil {
		return Lot{Asset: a, Amount: 0}
	}
	return *has
}

// findLot returns the lot and index that carry this asset identity.
//
// If there was a match, the result is non-nil and the index is where it
// was. If there was no match, the result is nil and the index is where
// it should be inserted.
func (ls Lots) findLot(id string) (*Lot, int) {
	for i := range ls {
		switch strings.Compare(id, ls[i].ID()) {
		case -1:
			return nil, i
		case 0:
			return &ls[i], i
		}
	}
	return nil, len(ls)
}

// IsEmpty returns true if nothing is in the collection.
func (ls Lots) IsEmpty() bool {
	return len(ls) == 0
}

// IsPositive returns true if there is at least one lot and all lots are
// positive.
func (ls Lots) IsPositive() bool {
	return !ls.IsEmpty() && ls.IsNonNegative()
}

// IsNonNegative returns true if no lot holds a negative amount. An empty
// collection is accepted.
func (ls Lots) IsNonNegative() bool {
	for _, l := range ls {
		if !l.IsNonNegative() {
			return false
		}
	}
	return true
}

// Equals returns true if both collections contain the same lots.
func (ls Lots) Equals(o Lots) bool {
	if len(ls) != len(o) {
		return false
	}
	for i := range ls {
		if !ls[i].Equals(o[i]) {
			return false
		}
	}
	return true
}

// Count returns the number of unique assets in the collection.
func (ls Lots) Count() int {
	return len(ls)
}

// Validate requires that all lots are ordered by asset identity without
// duplicates and that each lot is valid and positive. Zero amounts must
// not be present.
func (ls Lots) Validate() error {
	var err error
	last := ""
	for _, l := range ls {
		err = errors.Append(err, errors.Wrap(l.Validate(), "lot"))

		if l.IsZero() {
			err = errors.Append(err, errors.Wrap(errors.ErrState, "zero amount"))
		}
		if id := l.ID(); id <= last {
			err = errors.Append(err, errors.Wrapf(errors.ErrState, "asset %s out of order", id))
		} else {
			last = id
		}
	}
	return err
}
