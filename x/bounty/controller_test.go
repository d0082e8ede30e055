package bounty

import (
	"testing"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/asset"
	"github.com/iov-one/bounties/bountiestest"
	"github.com/iov-one/bounties/errors"
)

func TestPayoutShares(t *testing.T) {
	token := asset.FungibleAsset(bountiestest.NewCondition().Address())
	balance := mustLots(t, asset.NativeLot(1000), asset.NewLot(token, 101))

	payout, err := payoutShares(balance,
		bounties.Fraction{Numerator: 1, Denominator: 2},
		[]asset.Asset{asset.NativeAsset(), token})
	if err != nil {
		t.Fatalf("cannot compute shares: %+v", err)
	}
	if got := payout.Get(asset.NativeAsset()).Amount; got != 500 {
		t.Fatalf("want 500, got %d", got)
	}
	// Fractional shares round down.
	if got := payout.Get(token).Amount; got != 50 {
		t.Fatalf("want 50, got %d", got)
	}
}

func TestPayoutSharesSkipsAbsentAssets(t *testing.T) {
	token := asset.FungibleAsset(bountiestest.NewCondition().Address())
	balance := asset.Lots{asset.NativeLot(1000)}

	payout, err := payoutShares(balance,
		bounties.Fraction{Numerator: 1, Denominator: 2},
		[]asset.Asset{asset.NativeAsset(), token})
	if err != nil {
		t.Fatalf("cannot compute shares: %+v", err)
	}
	if got := payout.Count(); got != 1 {
		t.Fatalf("want a single lot, got %d", got)
	}
}

func TestBountyReadAccessors(t *testing.T) {
	f := newFixture(t)
	bountyID := f.createActive(t)

	data, err := GetBountyData(f.db, bountyID)
	if err != nil {
		t.Fatalf("cannot read data: %+v", err)
	}
	if data != "fix the parser" {
		t.Fatalf("unexpected data: %q", data)
	}

	approvers, err := GetBountyApprovers(f.db, bountyID)
	if err != nil {
		t.Fatalf("cannot read approvers: %+v", err)
	}
	if len(approvers) != 0 {
		t.Fatalf("want no approvers, got %v", approvers)
	}

	n, err := NumBounties(f.db)
	if err != nil {
		t.Fatalf("cannot count bounties: %+v", err)
	}
	if n != 1 {
		t.Fatalf("want one bounty, got %d", n)
	}

	if _, err := GetBountyData(f.db, []byte("watwatwat")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
}

func TestPayoutSharesRejectsBadInput(t *testing.T) {
	balance := asset.Lots{asset.NativeLot(1000)}

	_, err := payoutShares(balance,
		bounties.Fraction{Numerator: 3, Denominator: 2},
		[]asset.Asset{asset.NativeAsset()})
	if !errors.ErrAmount.Is(err) {
		t.Fatalf("want amount error, got %+v", err)
	}

	_, err = payoutShares(balance,
		bounties.Fraction{Numerator: 1, Denominator: 2},
		[]asset.Asset{asset.NativeAsset(), asset.NativeAsset()})
	if !errors.ErrDuplicate.Is(err) {
		t.Fatalf("want duplicate error, got %+v", err)
	}
}
