package bounty

import (
	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/asset"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/orm"
)

// payoutShares computes the per asset payout for accepting a fraction of
// the custodied balance. For every listed asset the share is the portion
// of the current balance, rounded down. The assets list must not name
// the same asset twice.
func payoutShares(balance asset.Lots, portion bounties.Fraction, assets []asset.Asset) (asset.Lots, error) {
	if err := validatePortion(portion); err != nil {
		return nil, errors.Wrap(err, "portion")
	}
	if err := validateUniqueAssets(assets); err != nil {
		return nil, errors.Wrap(err, "assets")
	}

	var payout asset.Lots
	for _, a := range assets {
		share, err := balance.Get(a).Share(portion)
		if err != nil {
			return nil, errors.Wrapf(err, "asset %s", a.ID())
		}
		if share.IsZero() {
			continue
		}
		payout, err = payout.Add(share)
		if err != nil {
			return nil, err
		}
	}
	return payout, nil
}

// unpaidCommitments sums the payouts of all accepted but not yet paid
// fulfillments of a bounty. The custodied balance must always cover this
// amount.
func unpaidCommitments(db bounties.ReadOnlyKVStore, fulfillments orm.ModelBucket, bountyID []byte) (asset.Lots, error) {
	var fs []Fulfillment
	if _, err := fulfillments.ByIndex(db, "bounty", bountyID, &fs); err != nil {
		return nil, errors.Wrap(err, "fulfillments by bounty")
	}
	var committed asset.Lots
	var err error
	for i := range fs {
		if !fs[i].Accepted || fs[i].Paid {
			continue
		}
		committed, err = committed.Combine(fs[i].Payout)
		if err != nil {
			return nil, err
		}
	}
	return committed, nil
}

// milestoneCommitted sums the mode asset commitments of all accepted but
// not yet paid fulfillments of a single milestone. The milestone's
// declared amount caps this value.
func milestoneCommitted(db bounties.ReadOnlyKVStore, fulfillments orm.ModelBucket, bountyID []byte, milestone uint32, mode asset.Asset) (int64, error) {
	var fs []Fulfillment
	if _, err := fulfillments.ByIndex(db, "bounty", bountyID, &fs); err != nil {
		return 0, errors.Wrap(err, "fulfillments by bounty")
	}
	var committed int64
	for i := range fs {
		if !fs[i].Accepted || fs[i].Paid || fs[i].Milestone != milestone {
			continue
		}
		committed += fs[i].Payout.Get(mode).Amount
	}
	return committed, nil
}

// GetBounty loads the bounty with the given id.
func GetBounty(db bounties.ReadOnlyKVStore, bountyID []byte) (*Bounty, error) {
	var b Bounty
	if err := NewBountyBucket().One(db, bountyID, &b); err != nil {
		return nil, errors.Wrapf(err, "bounty %x", bountyID)
	}
	return &b, nil
}

// GetBountyData returns the opaque content reference of a bounty.
func GetBountyData(db bounties.ReadOnlyKVStore, bountyID []byte) (string, error) {
	b, err := GetBounty(db, bountyID)
	if err != nil {
		return "", err
	}
	return b.Data, nil
}

// GetBountyApprovers returns the addresses that may accept fulfillments
// of a bounty. When empty, the issuers approve.
func GetBountyApprovers(db bounties.ReadOnlyKVStore, bountyID []byte) ([]bounties.Address, error) {
	b, err := GetBounty(db, bountyID)
	if err != nil {
		return nil, err
	}
	return b.Approvers, nil
}

// GetFulfillment loads the fulfillment with the given id.
func GetFulfillment(db bounties.ReadOnlyKVStore, fulfillmentID []byte) (*Fulfillment, error) {
	var f Fulfillment
	if err := NewFulfillmentBucket().One(db, fulfillmentID, &f); err != nil {
		return nil, errors.Wrapf(err, "fulfillment %x", fulfillmentID)
	}
	return &f, nil
}

// NumBounties returns how many bounties were ever issued. Bounty ids are
// never reused, so this is also the most recently issued id.
func NumBounties(db bounties.KVStore) (int64, error) {
	n, _, err := bountySeq.Latest(db)
	return n, err
}

// UnpaidAmount returns the total payout committed to accepted but not
// yet paid fulfillments of a bounty.
func UnpaidAmount(db bounties.ReadOnlyKVStore, bountyID []byte) (asset.Lots, error) {
	return unpaidCommitments(db, NewFulfillmentBucket(), bountyID)
}
