package std

import (
	"fmt"
	"testing"
	"time"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/app"
	"github.com/iov-one/bounties/asset"
	"github.com/iov-one/bounties/bountiestest"
	"github.com/iov-one/bounties/crypto"
	"github.com/iov-one/bounties/x/bounty"
	"github.com/iov-one/bounties/x/relay"
	"github.com/iov-one/bounties/x/sigs"
	abci "github.com/tendermint/tendermint/abci/types"
)

const chainID = "test-chain-1"

type fixture struct {
	app     app.BaseApp
	now     time.Time
	height  int64
	issuer  *crypto.PrivateKey
	backer  *crypto.PrivateKey
	relayer bounties.Address
}

func newFixture(t testing.TB) *fixture {
	t.Helper()

	f := &fixture{
		app:    Application("bounties", Stack(), TxDecoder, true),
		now:    time.Now().UTC().Round(time.Second),
		issuer: crypto.GenPrivKeyEd25519(),
		backer: crypto.GenPrivKeyEd25519(),
	}
	f.relayer = bountiestest.NewCondition().Address()

	appState := fmt.Sprintf(`{
		"migration": {"packages": ["bounty", "custody", "relay", "sigs"]},
		"custody": [
			{"address": "%s", "holdings": [{"asset": {"kind": "native"}, "amount": 100000}]},
			{"address": "%s", "holdings": [{"asset": {"kind": "native"}, "amount": 100000}]}
		],
		"relay": {"owner": "%s", "relayer": "%s"}
	}`,
		f.issuer.PublicKey().Address(),
		f.backer.PublicKey().Address(),
		bountiestest.NewCondition().Address(),
		f.relayer,
	)
	f.app.InitChain(abci.RequestInitChain{
		ChainId:       chainID,
		AppStateBytes: []byte(appState),
	})
	f.nextBlock()
	return f
}

// nextBlock commits the current block and starts a new one.
func (f *fixture) nextBlock() {
	if f.height > 0 {
		f.app.EndBlock(abci.RequestEndBlock{})
		f.app.Commit()
	}
	f.height++
	f.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			Height: f.height,
			Time:   f.now.Add(time.Duration(f.height) * time.Second),
		},
	})
}

// deliver signs the message with the given key and sequence and delivers
// it, expecting success.
func (f *fixture) deliver(t testing.TB, priv *crypto.PrivateKey, seq int64, msg bounties.Msg) abci.ResponseDeliverTx {
	t.Helper()
	res := f.deliverRaw(t, priv, seq, msg)
	if res.Code != 0 {
		t.Fatalf("cannot deliver: %d %s", res.Code, res.Log)
	}
	return res
}

func (f *fixture) deliverRaw(t testing.TB, priv *crypto.PrivateKey, seq int64, msg bounties.Msg) abci.ResponseDeliverTx {
	t.Helper()
	tx := NewTx(msg)
	sig, err := sigs.SignTx(priv, tx, chainID, seq)
	if err != nil {
		t.Fatalf("cannot sign: %+v", err)
	}
	tx.Signatures = append(tx.Signatures, sig)
	raw, err := tx.Marshal()
	if err != nil {
		t.Fatalf("cannot marshal tx: %+v", err)
	}
	return f.app.DeliverTx(raw)
}

func (f *fixture) createMsg() *bounty.CreateMsg {
	return &bounty.CreateMsg{
		Metadata: &bounties.Metadata{Schema: 1},
		Issuers:  []bounties.Address{f.issuer.PublicKey().Address()},
		Deadline: bounties.AsUnixTime(f.now.Add(time.Hour)),
		Mode:     asset.NativeAsset(),
		Amounts:  []int64{1000, 1000},
		Deposit:  asset.Lots{asset.NativeLot(2000)},
		Activate: true,
	}
}

func TestApplicationLifecycle(t *testing.T) {
	f := newFixture(t)

	res := f.deliver(t, f.issuer, 0, f.createMsg())
	bountyID := res.Data
	if len(bountyID) != 8 {
		t.Fatalf("want an 8 byte bounty id, got %x", bountyID)
	}
	f.nextBlock()

	// The committed state answers queries.
	qres := f.app.Query(abci.RequestQuery{Path: "/bounties", Data: bountyID})
	if qres.Code != 0 {
		t.Fatalf("cannot query: %d %s", qres.Code, qres.Log)
	}
	var b bounty.Bounty
	if err := app.UnmarshalOneResult(qres.Value, &b); err != nil {
		t.Fatalf("cannot unmarshal result: %+v", err)
	}
	if b.Stage != bounty.StageActive {
		t.Fatalf("want an active bounty, got stage %q", b.Stage)
	}

	// A second transaction of the same signer needs the next sequence.
	contribute := &bounty.ContributeMsg{
		Metadata: &bounties.Metadata{Schema: 1},
		BountyID: bountyID,
		Amounts:  asset.Lots{asset.NativeLot(500)},
	}
	f.deliver(t, f.backer, 0, contribute)
	f.nextBlock()
}

func TestFailedTxLeavesNoPartialState(t *testing.T) {
	f := newFixture(t)

	res := f.deliver(t, f.issuer, 0, f.createMsg())
	bountyID := res.Data
	f.nextBlock()

	// Contributing more than the backer owns fails.
	contribute := &bounty.ContributeMsg{
		Metadata: &bounties.Metadata{Schema: 1},
		BountyID: bountyID,
		Amounts:  asset.Lots{asset.NativeLot(900000)},
	}
	if res := f.deliverRaw(t, f.backer, 0, contribute); res.Code == 0 {
		t.Fatal("over-contribution must fail")
	}
	f.nextBlock()

	// No contribution was recorded for the failed transaction and the
	// backer can still spend the full balance.
	retry := &bounty.ContributeMsg{
		Metadata: &bounties.Metadata{Schema: 1},
		BountyID: bountyID,
		Amounts:  asset.Lots{asset.NativeLot(100000)},
	}
	// The failed transaction still consumed sequence 0.
	f.deliver(t, f.backer, 1, retry)
	f.nextBlock()
}

func TestRelayedIntent(t *testing.T) {
	f := newFixture(t)

	// The signer holds funds but submits through the relayer without a
	// direct signature.
	msg := f.createMsg()
	tx := NewTx(msg)
	intent, err := relay.SignIntent(f.issuer, chainID, f.relayer, msg, 0)
	if err != nil {
		t.Fatalf("cannot sign intent: %+v", err)
	}
	tx.Intent = intent
	raw, err := tx.Marshal()
	if err != nil {
		t.Fatalf("cannot marshal tx: %+v", err)
	}

	if res := f.app.DeliverTx(raw); res.Code != 0 {
		t.Fatalf("cannot deliver relayed tx: %d %s", res.Code, res.Log)
	}
	// A replay of the exact same bytes is rejected.
	if res := f.app.DeliverTx(raw); res.Code == 0 {
		t.Fatal("intent replay must fail")
	}
	f.nextBlock()
}

func TestRejectedRelayedIntentKeepsNonce(t *testing.T) {
	f := newFixture(t)

	res := f.deliver(t, f.issuer, 0, f.createMsg())
	bountyID := res.Data
	f.nextBlock()

	relayed := func(amount, nonce int64) abci.ResponseDeliverTx {
		t.Helper()
		msg := &bounty.ContributeMsg{
			Metadata: &bounties.Metadata{Schema: 1},
			BountyID: bountyID,
			Amounts:  asset.Lots{asset.NativeLot(amount)},
		}
		tx := NewTx(msg)
		intent, err := relay.SignIntent(f.backer, chainID, f.relayer, msg, nonce)
		if err != nil {
			t.Fatalf("cannot sign intent: %+v", err)
		}
		tx.Intent = intent
		raw, err := tx.Marshal()
		if err != nil {
			t.Fatalf("cannot marshal tx: %+v", err)
		}
		return f.app.DeliverTx(raw)
	}

	// Contributing more than the backer owns fails.
	if res := relayed(900000, 0); res.Code == 0 {
		t.Fatal("over-contribution must fail")
	}
	// The rejected call left all state untouched, nonce 0 is still the
	// next one expected.
	if res := relayed(500, 0); res.Code != 0 {
		t.Fatalf("cannot retry with the same nonce: %d %s", res.Code, res.Log)
	}
	// The successful call consumed nonce 0.
	if res := relayed(500, 0); res.Code == 0 {
		t.Fatal("intent replay must fail")
	}
	f.nextBlock()
}

func TestUnknownPathRejected(t *testing.T) {
	f := newFixture(t)

	if res := f.app.DeliverTx([]byte(`{"path": "bounty/unknown", "body": {}}`)); res.Code == 0 {
		t.Fatal("unknown path must fail")
	}
}
