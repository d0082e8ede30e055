package relay

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/bountiestest"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/migration"
	"github.com/iov-one/bounties/store"
	"github.com/iov-one/bounties/x"
)

func TestSetRelayerOnce(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "relay")

	owner := bountiestest.NewCondition()
	stranger := bountiestest.NewCondition()
	relayer := bountiestest.NewCondition().Address()

	conf := Config{
		Metadata: &bounties.Metadata{Schema: 1},
		Owner:    owner.Address(),
	}
	if _, err := NewConfigBucket().Put(db, configKey, &conf); err != nil {
		t.Fatalf("cannot store configuration: %+v", err)
	}

	newHandler := func(signer bounties.Condition) SetRelayerHandler {
		var auth x.Authenticator = &bountiestest.Auth{Signer: signer}
		return SetRelayerHandler{auth: auth, config: NewConfigBucket()}
	}
	msg := &SetRelayerMsg{
		Metadata: &bounties.Metadata{Schema: 1},
		Relayer:  relayer,
	}
	ctx := context.Background()

	// Only the owner can set the relayer.
	if _, err := newHandler(stranger).Deliver(ctx, db, &bountiestest.Tx{Msg: msg}); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want unauthorized error, got %+v", err)
	}

	if _, err := newHandler(owner).Deliver(ctx, db, &bountiestest.Tx{Msg: msg}); err != nil {
		t.Fatalf("cannot set relayer: %+v", err)
	}
	got, err := loadConfig(db)
	if err != nil {
		t.Fatalf("cannot load configuration: %+v", err)
	}
	if !got.Relayer.Equals(relayer) {
		t.Fatalf("want relayer set, got %s", got.Relayer)
	}

	// The relayer can be set exactly once.
	if _, err := newHandler(owner).Deliver(ctx, db, &bountiestest.Tx{Msg: msg}); !errors.ErrState.Is(err) {
		t.Fatalf("want state error, got %+v", err)
	}
}

func TestNextNonceDefaultsToZero(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "relay")

	nonce, err := NextNonce(db, bountiestest.NewCondition().Address())
	if err != nil {
		t.Fatalf("cannot read nonce: %+v", err)
	}
	if nonce != 0 {
		t.Fatalf("want 0, got %d", nonce)
	}
}

func TestGenesisInitializer(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "relay")

	owner := bountiestest.RandomAddr(t)
	raw := `{"relay": {"owner": "` + owner.String() + `"}}`
	var opts bounties.Options
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %+v", err)
	}

	var ini Initializer
	if err := ini.FromGenesis(opts, db); err != nil {
		t.Fatalf("cannot initialize: %+v", err)
	}

	conf, err := loadConfig(db)
	if err != nil {
		t.Fatalf("cannot load configuration: %+v", err)
	}
	if !conf.Owner.Equals(owner) {
		t.Fatalf("want owner %s, got %s", owner, conf.Owner)
	}
	if len(conf.Relayer) != 0 {
		t.Fatalf("want no relayer, got %s", conf.Relayer)
	}
}
