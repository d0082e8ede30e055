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
	"github.com/iov-one/bounties/x"
)

func TestBumpSequence(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "sigs")

	priv := crypto.GenPrivKeyEd25519()
	user := UserData{
		Metadata: &bounties.Metadata{Schema: 1},
		Pubkey:   priv.PublicKey(),
		Sequence: 4,
	}
	if _, err := NewBucket().Put(db, priv.PublicKey().Address(), &user); err != nil {
		t.Fatalf("cannot store user: %+v", err)
	}

	var auth x.Authenticator = &bountiestest.Auth{Signer: priv.PublicKey().Condition()}
	h := BumpSequenceHandler{auth: auth, users: NewBucket()}

	msg := &BumpSequenceMsg{
		Metadata:  &bounties.Metadata{Schema: 1},
		Increment: 20,
	}
	if _, err := h.Deliver(context.Background(), db, &bountiestest.Tx{Msg: msg}); err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}

	var got UserData
	if err := NewBucket().One(db, priv.PublicKey().Address(), &got); err != nil {
		t.Fatalf("cannot load user: %+v", err)
	}
	// The transaction itself would bump by one, the handler adds the
	// remaining 19.
	if got.Sequence != 23 {
		t.Fatalf("want sequence 23, got %d", got.Sequence)
	}
}

func TestBumpSequenceRequiresAccount(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "sigs")

	var auth x.Authenticator = &bountiestest.Auth{Signer: bountiestest.NewCondition()}
	h := BumpSequenceHandler{auth: auth, users: NewBucket()}

	msg := &BumpSequenceMsg{
		Metadata:  &bounties.Metadata{Schema: 1},
		Increment: 1,
	}
	if _, err := h.Deliver(context.Background(), db, &bountiestest.Tx{Msg: msg}); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found error, got %+v", err)
	}
}

func TestBumpSequenceMsgValidate(t *testing.T) {
	cases := map[string]struct {
		msg     BumpSequenceMsg
		wantErr *errors.Error
	}{
		"valid": {
			msg: BumpSequenceMsg{Metadata: &bounties.Metadata{Schema: 1}, Increment: 1},
		},
		"missing metadata": {
			msg:     BumpSequenceMsg{Increment: 1},
			wantErr: errors.ErrMetadata,
		},
		"zero increment": {
			msg:     BumpSequenceMsg{Metadata: &bounties.Metadata{Schema: 1}},
			wantErr: errors.ErrInput,
		},
		"too big increment": {
			msg:     BumpSequenceMsg{Metadata: &bounties.Metadata{Schema: 1}, Increment: 1001},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("want no error, got %+v", err)
				}
			} else if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
		})
	}
}
