package bounty

import (
	"testing"
	"time"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/asset"
	"github.com/iov-one/bounties/bountiestest"
	"github.com/iov-one/bounties/errors"
)

func validCreateMsg() *CreateMsg {
	return &CreateMsg{
		Metadata: &bounties.Metadata{Schema: 1},
		Issuers:  []bounties.Address{bountiestest.NewCondition().Address()},
		Data:     "write the docs",
		Deadline: bounties.AsUnixTime(time.Now().Add(time.Hour)),
		Mode:     asset.NativeAsset(),
		Amounts:  []int64{100},
	}
}

func TestCreateMsgValidate(t *testing.T) {
	cases := map[string]struct {
		mod     func(*CreateMsg)
		wantErr *errors.Error
	}{
		"valid": {
			mod: func(*CreateMsg) {},
		},
		"missing metadata": {
			mod:     func(m *CreateMsg) { m.Metadata = nil },
			wantErr: errors.ErrMetadata,
		},
		"no issuers": {
			mod:     func(m *CreateMsg) { m.Issuers = nil },
			wantErr: errors.ErrEmpty,
		},
		"duplicated issuer": {
			mod: func(m *CreateMsg) {
				m.Issuers = append(m.Issuers, m.Issuers[0])
			},
			wantErr: errors.ErrDuplicate,
		},
		"no deadline": {
			mod:     func(m *CreateMsg) { m.Deadline = 0 },
			wantErr: errors.ErrInput,
		},
		"no milestones": {
			mod:     func(m *CreateMsg) { m.Amounts = nil },
			wantErr: errors.ErrEmpty,
		},
		"zero milestone amount": {
			mod:     func(m *CreateMsg) { m.Amounts = []int64{100, 0} },
			wantErr: errors.ErrAmount,
		},
		"negative deposit": {
			mod: func(m *CreateMsg) {
				m.Deposit = asset.Lots{asset.NativeLot(-5)}
			},
			wantErr: errors.ErrAmount,
		},
		"activate without deposit": {
			mod:     func(m *CreateMsg) { m.Activate = true },
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			msg := validCreateMsg()
			tc.mod(msg)
			err := msg.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("want no error, got %+v", err)
				}
			} else if !tc.wantErr.Is(err) {
				t.Fatalf("want %q, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestAcceptMsgValidate(t *testing.T) {
	valid := func() *AcceptMsg {
		return &AcceptMsg{
			Metadata:      &bounties.Metadata{Schema: 1},
			FulfillmentID: []byte("12345678"),
			Portion:       bounties.Fraction{Numerator: 1, Denominator: 2},
			Assets:        []asset.Asset{asset.NativeAsset()},
		}
	}

	cases := map[string]struct {
		mod     func(*AcceptMsg)
		wantErr *errors.Error
	}{
		"valid": {
			mod: func(*AcceptMsg) {},
		},
		"whole balance": {
			mod: func(m *AcceptMsg) {
				m.Portion = bounties.Fraction{Numerator: 1, Denominator: 1}
			},
		},
		"short id": {
			mod:     func(m *AcceptMsg) { m.FulfillmentID = []byte("123") },
			wantErr: errors.ErrInput,
		},
		"zero denominator": {
			mod: func(m *AcceptMsg) {
				m.Portion = bounties.Fraction{Numerator: 1, Denominator: 0}
			},
			wantErr: errors.ErrInput,
		},
		"zero numerator": {
			mod: func(m *AcceptMsg) {
				m.Portion = bounties.Fraction{Numerator: 0, Denominator: 2}
			},
			wantErr: errors.ErrAmount,
		},
		"more than whole": {
			mod: func(m *AcceptMsg) {
				m.Portion = bounties.Fraction{Numerator: 3, Denominator: 2}
			},
			wantErr: errors.ErrAmount,
		},
		"no assets": {
			mod:     func(m *AcceptMsg) { m.Assets = nil },
			wantErr: errors.ErrEmpty,
		},
		"duplicated asset": {
			mod: func(m *AcceptMsg) {
				m.Assets = []asset.Asset{asset.NativeAsset(), asset.NativeAsset()}
			},
			wantErr: errors.ErrDuplicate,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			msg := valid()
			tc.mod(msg)
			err := msg.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("want no error, got %+v", err)
				}
			} else if !tc.wantErr.Is(err) {
				t.Fatalf("want %q, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestContributeMsgValidate(t *testing.T) {
	valid := func() *ContributeMsg {
		return &ContributeMsg{
			Metadata: &bounties.Metadata{Schema: 1},
			BountyID: []byte("12345678"),
			Amounts:  asset.Lots{asset.NativeLot(10)},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("want no error, got %+v", err)
	}

	empty := valid()
	empty.Amounts = nil
	if err := empty.Validate(); !errors.ErrAmount.Is(err) {
		t.Fatalf("want amount error, got %+v", err)
	}

	badID := valid()
	badID.BountyID = []byte("123")
	if err := badID.Validate(); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %+v", err)
	}
}
