package custody

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/asset"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/migration"
	"github.com/iov-one/bounties/store"
)

func testAddr(name string) bounties.Address {
	return bounties.NewCondition("test", "account", []byte(name)).Address()
}

func newTestDB(t *testing.T) bounties.KVStore {
	t.Helper()
	db := store.MemStore()
	migration.MustInitPkg(db, "custody")
	return db
}

func TestMoveLot(t *testing.T) {
	db := newTestDB(t)
	ctrl := NewController()
	alice := testAddr("alice")
	bob := testAddr("bob")

	if err := ctrl.Issue(db, alice, asset.NativeLot(100)); err != nil {
		t.Fatalf("cannot issue: %+v", err)
	}
	if err := ctrl.MoveLot(db, alice, bob, asset.NativeLot(30)); err != nil {
		t.Fatalf("cannot move: %+v", err)
	}

	aliceLots, err := ctrl.Balance(db, alice)
	if err != nil {
		t.Fatalf("cannot read balance: %+v", err)
	}
	if got := aliceLots.Get(asset.NativeAsset()).Amount; got != 70 {
		t.Fatalf("want 70, got %d", got)
	}
	bobLots, err := ctrl.Balance(db, bob)
	if err != nil {
		t.Fatalf("cannot read balance: %+v", err)
	}
	if got := bobLots.Get(asset.NativeAsset()).Amount; got != 30 {
		t.Fatalf("want 30, got %d", got)
	}
}

func TestMoveLotInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	ctrl := NewController()
	alice := testAddr("alice")
	bob := testAddr("bob")

	if err := ctrl.Issue(db, alice, asset.NativeLot(10)); err != nil {
		t.Fatalf("cannot issue: %+v", err)
	}
	err := ctrl.MoveLot(db, alice, bob, asset.NativeLot(11))
	if !errors.ErrAmount.Is(err) {
		t.Fatalf("want amount error, got %+v", err)
	}
	// A failed transfer must not change any balance.
	lots, err := ctrl.Balance(db, alice)
	if err != nil {
		t.Fatalf("cannot read balance: %+v", err)
	}
	if got := lots.Get(asset.NativeAsset()).Amount; got != 10 {
		t.Fatalf("want 10, got %d", got)
	}
}

func TestMoveLotRejectsNonPositive(t *testing.T) {
	db := newTestDB(t)
	ctrl := NewController()
	alice := testAddr("alice")
	bob := testAddr("bob")

	if err := ctrl.MoveLot(db, alice, bob, asset.NativeLot(0)); !errors.ErrAmount.Is(err) {
		t.Fatalf("want amount error for zero, got %+v", err)
	}
	if err := ctrl.MoveLot(db, alice, bob, asset.NativeLot(-4)); !errors.ErrAmount.Is(err) {
		t.Fatalf("want amount error for negative, got %+v", err)
	}
}

func TestMoveLotsRejectsDuplicateAsset(t *testing.T) {
	db := newTestDB(t)
	ctrl := NewController()
	alice := testAddr("alice")
	bob := testAddr("bob")

	if err := ctrl.Issue(db, alice, asset.NativeLot(100)); err != nil {
		t.Fatalf("cannot issue: %+v", err)
	}
	batch := asset.Lots{asset.NativeLot(10), asset.NativeLot(20)}
	if err := ctrl.MoveLots(db, alice, bob, batch); !errors.ErrDuplicate.Is(err) {
		t.Fatalf("want duplicate error, got %+v", err)
	}
}

func TestMoveNonFungibleToken(t *testing.T) {
	db := newTestDB(t)
	ctrl := NewController()
	alice := testAddr("alice")
	bob := testAddr("bob")
	nft := asset.NonFungibleAsset(testAddr("gallery"), []byte{1, 2, 3})

	if err := ctrl.Issue(db, alice, asset.NewLot(nft, 1)); err != nil {
		t.Fatalf("cannot issue: %+v", err)
	}
	if err := ctrl.MoveLot(db, alice, bob, asset.NewLot(nft, 1)); err != nil {
		t.Fatalf("cannot move: %+v", err)
	}
	// The token is unique, a second transfer must fail.
	err := ctrl.MoveLot(db, alice, bob, asset.NewLot(nft, 1))
	if !errors.ErrAmount.Is(err) {
		t.Fatalf("want amount error, got %+v", err)
	}
}

func TestGenesisInitializer(t *testing.T) {
	db := newTestDB(t)
	alice := testAddr("alice")

	raw := `{"custody": [{"address": "` + alice.String() + `", "holdings": [{"asset": {"kind": "native"}, "amount": 1000}]}]}`
	var opts bounties.Options
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %+v", err)
	}

	var ini Initializer
	if err := ini.FromGenesis(opts, db); err != nil {
		t.Fatalf("cannot initialize: %+v", err)
	}

	lots, err := NewController().Balance(db, alice)
	if err != nil {
		t.Fatalf("cannot read balance: %+v", err)
	}
	if got := lots.Get(asset.NativeAsset()).Amount; got != 1000 {
		t.Fatalf("want 1000, got %d", got)
	}
}
