package asset

import (
	"encoding/hex"
	"fmt"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
)

// Kind enumerates the supported asset representations.
type Kind string

const (
	// Native is the chain native currency. It has no contract.
	Native Kind = "native"
	// Fungible is an amount denominated token managed by a contract.
	Fungible Kind = "fungible"
	// NonFungible is a single identified token managed by a contract.
	NonFungible Kind = "nonfungible"
)

// Asset identifies a value carrier. It is a tagged variant. The contract
// address is set for token kinds only and the token id for non fungible
// tokens only.
type Asset struct {
	Kind     Kind             `json:"kind"`
	Contract bounties.Address `json:"contract,omitempty"`
	TokenID  []byte           `json:"token_id,omitempty"`
}

// NativeAsset returns the native currency asset.
func NativeAsset() Asset {
	return Asset{Kind: Native}
}

// FungibleAsset returns a fungible token asset managed by the given
// contract.
func FungibleAsset(contract bounties.Address) Asset {
	return Asset{Kind: Fungible, Contract: contract}
}

// NonFungibleAsset returns the non fungible token with the given id,
// managed by the given contract.
func NonFungibleAsset(contract bounties.Address, tokenID []byte) Asset {
	return Asset{Kind: NonFungible, Contract: contract, TokenID: tokenID}
}

// ID returns the canonical identity of this asset. Two assets represent
// the same value carrier if and only if their IDs are equal. The identity
// is also the sorting key within a Lots collection.
func (a Asset) ID() string {
	switch a.Kind {
	case Native:
		return "native"
	case Fungible:
		return fmt.Sprintf("fungible/%s", a.Contract)
	case NonFungible:
		return fmt.Sprintf("nonfungible/%s/%s", a.Contract, hex.EncodeToString(a.TokenID))
	default:
		return fmt.Sprintf("invalid/%s", a.Kind)
	}
}

// Equals returns true if both assets identify the same value carrier.
func (a Asset) Equals(o Asset) bool {
	return a.ID() == o.ID()
}

// Validate returns an error if this asset is not a valid variant.
func (a Asset) Validate() error {
	switch a.Kind {
	case Native:
		if len(a.Contract) != 0 {
			return errors.Wrap(errors.ErrInput, "native asset must not declare a contract")
		}
		if len(a.TokenID) != 0 {
			return errors.Wrap(errors.ErrInput, "native asset must not declare a token id")
		}
	case Fungible:
		if err := a.Contract.Validate(); err != nil {
			return errors.Wrap(err, "contract")
		}
		if len(a.TokenID) != 0 {
			return errors.Wrap(errors.ErrInput, "fungible asset must not declare a token id")
		}
	case NonFungible:
		if err := a.Contract.Validate(); err != nil {
			return errors.Wrap(err, "contract")
		}
		if len(a.TokenID) == 0 {
			return errors.Wrap(errors.ErrInput, "non fungible asset must declare a token id")
		}
	default:
		return errors.Wrapf(errors.ErrInput, "unknown asset kind %q", a.Kind)
	}
	return nil
}

// Copy returns an independent copy of this asset.
func (a Asset) Copy() Asset {
	cpy := Asset{Kind: a.Kind}
	if a.Contract != nil {
		cpy.Contract = append(bounties.Address{}, a.Contract...)
	}
	if a.TokenID != nil {
		cpy.TokenID = append([]byte{}, a.TokenID...)
	}
	return cpy
}

// String returns the canonical asset identity.
func (a Asset) String() string {
	return a.ID()
}
