package relay

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

const testChainID = "test-chain-1"

// intentTx is a transaction envelope carrying an optional intent.
type intentTx struct {
	msg    bounties.Msg
	intent *Intent
}

var _ IntentTx = (*intentTx)(nil)

func (tx *intentTx) GetMsg() (bounties.Msg, error) { return tx.msg, nil }
func (tx *intentTx) GetIntent() *Intent            { return tx.intent }
func (tx *intentTx) Marshal() ([]byte, error)      { panic("not implemented") }
func (tx *intentTx) Unmarshal([]byte) error        { panic("not implemented") }

type relayFixture struct {
	db      bounties.KVStore
	ctx     bounties.Context
	signer  *crypto.PrivateKey
	relayer bounties.Address
	owner   bounties.Address
}

func newRelayFixture(t testing.TB) *relayFixture {
	t.Helper()
	db := store.MemStore()
	migration.MustInitPkg(db, "relay")

	f := &relayFixture{
		db:      db,
		ctx:     bounties.WithChainID(context.Background(), testChainID),
		signer:  crypto.GenPrivKeyEd25519(),
		relayer: bountiestest.NewCondition().Address(),
		owner:   bountiestest.NewCondition().Address(),
	}
	conf := Config{
		Metadata: &bounties.Metadata{Schema: 1},
		Owner:    f.owner,
		Relayer:  f.relayer,
	}
	if _, err := NewConfigBucket().Put(db, configKey, &conf); err != nil {
		t.Fatalf("cannot store configuration: %+v", err)
	}
	return f
}

func (f *relayFixture) signedTx(t testing.TB, msg bounties.Msg, nonce int64) *intentTx {
	t.Helper()
	intent, err := SignIntent(f.signer, testChainID, f.relayer, msg, nonce)
	if err != nil {
		t.Fatalf("cannot sign intent: %+v", err)
	}
	return &intentTx{msg: msg, intent: intent}
}

func forwardableMsg() *bountiestest.Msg {
	return &bountiestest.Msg{
		RoutePath:  "bounty/create",
		Serialized: []byte("serialized create request"),
	}
}

func TestDecoratorAuthenticatesSigner(t *testing.T) {
	f := newRelayFixture(t)
	tx := f.signedTx(t, forwardableMsg(), 0)

	var next bountiestest.Handler
	d := NewDecorator()

	var auth Authenticate
	signerAddr := f.signer.PublicKey().Address()

	// Before delivery the signer is unknown.
	if auth.HasAddress(f.ctx, signerAddr) {
		t.Fatal("signer must not be authenticated yet")
	}

	if _, err := d.Deliver(f.ctx, f.db, tx, checkSigner{t: t, next: &next, addr: signerAddr}); err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}
	if next.DeliverCallCount() != 1 {
		t.Fatalf("want 1 delivery, got %d", next.DeliverCallCount())
	}

	// The nonce moved on.
	nonce, err := NextNonce(f.db, signerAddr)
	if err != nil {
		t.Fatalf("cannot read nonce: %+v", err)
	}
	if nonce != 1 {
		t.Fatalf("want nonce 1, got %d", nonce)
	}
}

// checkSigner asserts that the wrapped handler observes the relayed
// signer as authenticated.
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

func TestDecoratorPassthrough(t *testing.T) {
	f := newRelayFixture(t)

	var next bountiestest.Handler
	d := NewDecorator()

	// A transaction without an intent is not touched.
	tx := &intentTx{msg: forwardableMsg()}
	if _, err := d.Deliver(f.ctx, f.db, tx, &next); err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}
	if next.DeliverCallCount() != 1 {
		t.Fatalf("want 1 delivery, got %d", next.DeliverCallCount())
	}
}

func TestDecoratorRejectsReplay(t *testing.T) {
	f := newRelayFixture(t)
	tx := f.signedTx(t, forwardableMsg(), 0)

	var next bountiestest.Handler
	d := NewDecorator()

	if _, err := d.Deliver(f.ctx, f.db, tx, &next); err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}
	// The exact same transaction cannot be submitted twice.
	if _, err := d.Deliver(f.ctx, f.db, tx, &next); !ErrReplay.Is(err) {
		t.Fatalf("want replay error, got %+v", err)
	}
}

func TestDecoratorRejectsNonceGap(t *testing.T) {
	f := newRelayFixture(t)
	// First intent of a signer must use nonce 0.
	tx := f.signedTx(t, forwardableMsg(), 4)

	var next bountiestest.Handler
	if _, err := NewDecorator().Deliver(f.ctx, f.db, tx, &next); !ErrReplay.Is(err) {
		t.Fatalf("want replay error, got %+v", err)
	}
}

func TestDecoratorRejectsSubstitution(t *testing.T) {
	f := newRelayFixture(t)

	cases := map[string]func(*intentTx){
		"message payload": func(tx *intentTx) {
			tx.msg = &bountiestest.Msg{
				RoutePath:  "bounty/create",
				Serialized: []byte("a different request"),
			}
		},
		"message path": func(tx *intentTx) {
			tx.msg = &bountiestest.Msg{
				RoutePath:  "bounty/contribute",
				Serialized: []byte("serialized create request"),
			}
		},
		"nonce": func(tx *intentTx) {
			tx.intent.Nonce = 1
		},
	}
	for testName, mutate := range cases {
		t.Run(testName, func(t *testing.T) {
			tx := f.signedTx(t, forwardableMsg(), 0)
			mutate(tx)
			var next bountiestest.Handler
			_, err := NewDecorator().Deliver(f.ctx, f.db, tx, &next)
			if err == nil {
				t.Fatal("substituted intent must not verify")
			}
			if !errors.ErrUnauthorized.Is(err) && !ErrReplay.Is(err) {
				t.Fatalf("want unauthorized or replay error, got %+v", err)
			}
			if next.DeliverCallCount() != 0 {
				t.Fatal("handler must not be called")
			}
		})
	}
}

func TestDecoratorRejectsUnlistedPath(t *testing.T) {
	f := newRelayFixture(t)
	msg := &bountiestest.Msg{
		RoutePath:  "bounty/kill",
		Serialized: []byte("kill it"),
	}
	tx := f.signedTx(t, msg, 0)

	var next bountiestest.Handler
	_, err := NewDecorator().Deliver(f.ctx, f.db, tx, &next)
	if !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want unauthorized error, got %+v", err)
	}
}

func TestDecoratorRejectsForeignChain(t *testing.T) {
	f := newRelayFixture(t)
	tx := f.signedTx(t, forwardableMsg(), 0)

	otherChain := bounties.WithChainID(context.Background(), "other-chain-9")
	var next bountiestest.Handler
	_, err := NewDecorator().Deliver(otherChain, f.db, tx, &next)
	if !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want unauthorized error, got %+v", err)
	}
}
