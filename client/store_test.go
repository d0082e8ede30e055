package client

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/asset"
	"github.com/iov-one/bounties/crypto"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/std"
	"github.com/iov-one/bounties/x/bounty"
	"github.com/iov-one/bounties/x/sigs"
)

const chainID = "test-chain-1"

// commitBounty runs a fresh application with a single committed bounty and
// returns it together with the bounty id.
func commitBounty(t testing.TB) (abciQuerier, []byte) {
	t.Helper()

	issuer := crypto.GenPrivKeyEd25519()
	addr := issuer.PublicKey().Address()

	application := std.Application("bounties", std.Stack(), std.TxDecoder, true)
	appState := fmt.Sprintf(`{
		"migration": {"packages": ["bounty", "custody", "relay", "sigs"]},
		"custody": [{"address": "%s", "holdings": [{"asset": {"kind": "native"}, "amount": 100000}]}],
		"relay": {"owner": "%s", "relayer": "%s"}
	}`, addr, addr, addr)
	application.InitChain(abci.RequestInitChain{
		ChainId:       chainID,
		AppStateBytes: []byte(appState),
	})

	now := time.Now().UTC().Round(time.Second)
	application.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{Height: 1, Time: now},
	})

	tx := std.NewTx(&bounty.CreateMsg{
		Metadata: &bounties.Metadata{Schema: 1},
		Issuers:  []bounties.Address{addr},
		Deadline: bounties.AsUnixTime(now.Add(time.Hour)),
		Mode:     asset.NativeAsset(),
		Amounts:  []int64{1000},
		Deposit:  asset.Lots{asset.NativeLot(1000)},
		Activate: true,
	})
	sig, err := sigs.SignTx(issuer, tx, chainID, 0)
	if err != nil {
		t.Fatalf("cannot sign: %+v", err)
	}
	tx.Signatures = append(tx.Signatures, sig)
	raw, err := tx.Marshal()
	if err != nil {
		t.Fatalf("cannot marshal tx: %+v", err)
	}
	res := application.DeliverTx(raw)
	if res.Code != 0 {
		t.Fatalf("cannot deliver: %d %s", res.Code, res.Log)
	}

	application.EndBlock(abci.RequestEndBlock{})
	application.Commit()
	return application, res.Data
}

func TestABCIStoreGet(t *testing.T) {
	application, bountyID := commitBounty(t)
	store := NewABCIStore(application)

	key := append([]byte("bnty:"), bountyID...)
	value, err := store.Get(key)
	if err != nil {
		t.Fatalf("cannot get: %+v", err)
	}
	if len(value) == 0 {
		t.Fatal("want the stored bounty")
	}
	var b bounty.Bounty
	if err := b.Unmarshal(value); err != nil {
		t.Fatalf("cannot unmarshal bounty: %+v", err)
	}
	if b.Stage != bounty.StageActive {
		t.Fatalf("want an active bounty, got stage %q", b.Stage)
	}

	has, err := store.Has(key)
	if err != nil {
		t.Fatalf("cannot check: %+v", err)
	}
	if !has {
		t.Fatal("want the key present")
	}

	missing, err := store.Get([]byte("bnty:missing"))
	if err != nil {
		t.Fatalf("cannot get: %+v", err)
	}
	if missing != nil {
		t.Fatalf("want no value, got %q", missing)
	}
}

func TestABCIStoreIterator(t *testing.T) {
	application, bountyID := commitBounty(t)
	store := NewABCIStore(application)

	// the domain of all "bnty:" prefixed keys
	itr, err := store.Iterator([]byte("bnty:"), []byte("bnty;"))
	if err != nil {
		t.Fatalf("cannot iterate: %+v", err)
	}
	defer itr.Release()

	key, value, err := itr.Next()
	if err != nil {
		t.Fatalf("cannot advance: %+v", err)
	}
	want := append([]byte("bnty:"), bountyID...)
	if !bytes.Equal(key, want) {
		t.Fatalf("want key %q, got %q", want, key)
	}
	if len(value) == 0 {
		t.Fatal("want the stored bounty")
	}

	if _, _, err := itr.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("want the iterator exhausted, got %+v", err)
	}
}

func TestPrefixFromRange(t *testing.T) {
	cases := map[string]struct {
		start      []byte
		end        []byte
		wantPrefix []byte
		wantErr    *errors.Error
	}{
		"whole domain": {
			start:      nil,
			end:        nil,
			wantPrefix: nil,
		},
		"prefix range": {
			start:      []byte("abc"),
			end:        []byte("abd"),
			wantPrefix: []byte("abc"),
		},
		"prefix range with carry": {
			start:      []byte{'a', 0xff},
			end:        []byte{'b', 0x00},
			wantPrefix: []byte{'a', 0xff},
		},
		"open end": {
			start:   []byte("abc"),
			end:     nil,
			wantErr: errors.ErrInput,
		},
		"arbitrary range": {
			start:   []byte("abc"),
			end:     []byte("xyz"),
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			prefix, err := prefixFromRange(tc.start, tc.end)
			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("want %v, got %+v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("cannot convert: %+v", err)
			}
			if !bytes.Equal(prefix, tc.wantPrefix) {
				t.Fatalf("want prefix %q, got %q", tc.wantPrefix, prefix)
			}
		})
	}
}
