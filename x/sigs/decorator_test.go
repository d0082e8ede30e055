package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/bountiestest"
	"github.com/iov-one/bounties/crypto"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/migration"
	"github.com/iov-one/bounties/store"
)

// signedTx wraps a test message with signatures.
type signedTx struct {
	msg  bounties.Msg
	sigs []*StdSignature
}

var _ bounties.Tx = (*signedTx)(nil)
var _ SignedTx = (*signedTx)(nil)

func (tx *signedTx) GetMsg() (bounties.Msg, error)  { return tx.msg, nil }
func (tx *signedTx) GetSignBytes() ([]byte, error)  { return tx.msg.Marshal() }
func (tx *signedTx) GetSignatures() []*StdSignature { return tx.sigs }
func (tx *signedTx) Marshal() ([]byte, error)       { panic("not implemented") }
func (tx *signedTx) Unmarshal([]byte) error         { panic("not implemented") }

func signTx(t testing.TB, priv *crypto.PrivateKey, seq int64) *signedTx {
	t.Helper()
	tx := &signedTx{
		msg: &bountiestest.Msg{
			RoutePath:  "bounty/create",
			Serialized: []byte("serialized create request"),
		},
	}
	sig, err := SignTx(priv, tx, testChainID, seq)
	if err != nil {
		t.Fatalf("cannot sign: %+v", err)
	}
	tx.sigs = append(tx.sigs, sig)
	return tx
}

func TestDecoratorAuthenticatesSigner(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "sigs")
	ctx := bounties.WithChainID(context.Background(), testChainID)

	priv := crypto.GenPrivKeyEd25519()
	tx := signTx(t, priv, 0)

	var next bountiestest.Handler
	d := NewDecorator()

	if _, err := d.Deliver(ctx, db, tx, checkSigner{t: t, next: &next, addr: priv.PublicKey().Address()}); err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}
	if next.DeliverCallCount() != 1 {
		t.Fatalf("want 1 delivery, got %d", next.DeliverCallCount())
	}

	// Replays of the same sequence fail.
	if _, err := d.Deliver(ctx, db, tx, &next); !ErrInvalidSequence.Is(err) {
		t.Fatalf("want invalid sequence error, got %+v", err)
	}

	// The next sequence verifies.
	if _, err := d.Deliver(ctx, db, signTx(t, priv, 1), &next); err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}
}

// checkSigner asserts that the wrapped handler observes the signer as
// authenticated.
type checkSigner struct {
	t    testing.TB
	next *bountiestest.Handler
	addr bounties.Address
}

func (c checkSigner) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	var auth Authenticate
	if !auth.HasAddress(ctx, c.addr) {
		c.t.Fatal("signer not authenticated down the stack")
	}
	return c.next.Check(ctx, db, tx)
}

func (c checkSigner) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	var auth Authenticate
	if !auth.HasAddress(ctx, c.addr) {
		c.t.Fatal("signer not authenticated down the stack")
	}
	return c.next.Deliver(ctx, db, tx)
}

func TestDecoratorRequiresSignature(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "sigs")
	ctx := bounties.WithChainID(context.Background(), testChainID)

	tx := &signedTx{msg: &bountiestest.Msg{
		RoutePath:  "bounty/create",
		Serialized: []byte("serialized create request"),
	}}

	var next bountiestest.Handler
	if _, err := NewDecorator().Deliver(ctx, db, tx, &next); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want unauthorized error, got %+v", err)
	}

	// The relaxed decorator passes unsigned transactions along.
	if _, err := NewDecorator().AllowMissingSigs().Deliver(ctx, db, tx, &next); err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}
	if next.DeliverCallCount() != 1 {
		t.Fatalf("want 1 delivery, got %d", next.DeliverCallCount())
	}
}

func TestDecoratorChargesForSignatures(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "sigs")
	ctx := bounties.WithChainID(context.Background(), testChainID)

	priv := crypto.GenPrivKeyEd25519()
	tx := signTx(t, priv, 0)

	var next bountiestest.Handler
	res, err := NewDecorator().Check(ctx, db, tx, &next)
	if err != nil {
		t.Fatalf("cannot check: %+v", err)
	}
	if res.GasPayment != signatureVerifyCost {
		t.Fatalf("want gas payment %d, got %d", signatureVerifyCost, res.GasPayment)
	}
}
