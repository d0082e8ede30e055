package asset

import (
	"testing"

	"github.com/iov-one/bounties/errors"
)

func TestCombineLotsNormalizes(t *testing.T) {
	token := FungibleAsset(contractAddr("token"))

	ls, err := CombineLots(
		NewLot(token, 300),
		NativeLot(100),
		NewLot(token, 700),
	)
	if err != nil {
		t.Fatalf("cannot combine: %+v", err)
	}
	if ls.Count() != 2 {
		t.Fatalf("want 2 assets, got %d", ls.Count())
	}
	// Identity order puts fungible before native.
	if got := ls[0].Amount; got != 1000 {
		t.Fatalf("want merged token amount 1000, got %d", got)
	}
	if got := ls[1].Amount; got != 100 {
		t.Fatalf("want native amount 100, got %d", got)
	}
}

func TestLotsAddRemovesZero(t *testing.T) {
	ls, err := CombineLots(NativeLot(50))
	if err != nil {
		t.Fatalf("cannot combine: %+v", err)
	}
	ls, err = ls.Subtract(NativeLot(50))
	if err != nil {
		t.Fatalf("cannot subtract: %+v", err)
	}
	if !ls.IsEmpty() {
		t.Fatalf("zero amount must be removed, got %v", ls)
	}
}

func TestLotsContainsAndGet(t *testing.T) {
	token := FungibleAsset(contractAddr("token"))
	ls, err := CombineLots(NativeLot(100), NewLot(token, 10))
	if err != nil {
		t.Fatalf("cannot combine: %+v", err)
	}

	if !ls.Contains(NativeLot(100)) {
		t.Fatal("must contain the full native amount")
	}
	if ls.Contains(NativeLot(101)) {
		t.Fatal("must not contain more than deposited")
	}
	other := FungibleAsset(contractAddr("other"))
	if ls.Contains(NewLot(other, 1)) {
		t.Fatal("must not contain an unknown asset")
	}
	if got := ls.Get(other).Amount; got != 0 {
		t.Fatalf("unknown asset must read as zero, got %d", got)
	}
	if got := ls.Get(token).Amount; got != 10 {
		t.Fatalf("want 10, got %d", got)
	}
}

func TestLotsSubtractCanGoNegative(t *testing.T) {
	ls, err := CombineLots(NativeLot(10))
	if err != nil {
		t.Fatalf("cannot combine: %+v", err)
	}
	ls, err = ls.Subtract(NativeLot(30))
	if err != nil {
		t.Fatalf("cannot subtract: %+v", err)
	}
	if ls.IsNonNegative() {
		t.Fatal("balance must be negative")
	}
	if ls.Get(NativeAsset()).Amount != -20 {
		t.Fatalf("want -20, got %d", ls.Get(NativeAsset()).Amount)
	}
}

func TestLotsCombineDoesNotMutate(t *testing.T) {
	a, err := CombineLots(NativeLot(10))
	if err != nil {
		t.Fatalf("cannot combine: %+v", err)
	}
	b, err := CombineLots(NativeLot(5))
	if err != nil {
		t.Fatalf("cannot combine: %+v", err)
	}

	sum, err := a.Combine(b)
	if err != nil {
		t.Fatalf("cannot combine: %+v", err)
	}
	if sum.Get(NativeAsset()).Amount != 15 {
		t.Fatalf("want 15, got %d", sum.Get(NativeAsset()).Amount)
	}
	if a.Get(NativeAsset()).Amount != 10 {
		t.Fatal("combine must not modify the receiver")
	}
}

func TestLotsValidate(t *testing.T) {
	token := FungibleAsset(contractAddr("token"))

	cases := map[string]struct {
		lots    Lots
		wantErr *errors.Error
	}{
		"empty is valid": {
			lots: nil,
		},
		"sorted unique": {
			lots: Lots{NewLot(token, 1), NativeLot(2)},
		},
		"zero amount": {
			lots:    Lots{NativeLot(0)},
			wantErr: errors.ErrState,
		},
		"out of order": {
			lots:    Lots{NativeLot(2), NewLot(token, 1)},
			wantErr: errors.ErrState,
		},
		"duplicate asset": {
			lots:    Lots{NativeLot(1), NativeLot(2)},
			wantErr: errors.ErrState,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.lots.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("want no error, got %+v", err)
				}
				return
			}
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
		})
	}
}
