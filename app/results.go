package app

import (
	"encoding/json"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
)

// ResultSet is a list of raw results. Query responses return keys and
// values as two result sets of the same length.
type ResultSet struct {
	Results [][]byte `json:"results"`
}

var _ bounties.Persistent = (*ResultSet)(nil)

func (rs *ResultSet) Marshal() ([]byte, error) {
	return json.Marshal(rs)
}

func (rs *ResultSet) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, rs)
}

// ResultsFromKeys returns a ResultSet of all keys given a set of models.
func ResultsFromKeys(models []bounties.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values given a set of
// models.
func ResultsFromValues(models []bounties.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues and makes them
// a consistent whole again.
func JoinResults(keys, values *ResultSet) ([]bounties.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInput, "mismatched result set sizes: %d != %d", len(kref), len(vref))
	}
	mods := make([]bounties.Model, len(kref))
	for i := range mods {
		mods[i] = bounties.Model{
			Key:   kref[i],
			Value: vref[i],
		}
	}
	return mods, nil
}

// UnmarshalOneResult parses a result set and, if it is not empty,
// unmarshals the first result into o.
func UnmarshalOneResult(bz []byte, o bounties.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return errors.Wrap(err, "unmarshal result set")
	}
	if len(res.Results) == 0 {
		return nil
	}
	return o.Unmarshal(res.Results[0])
}
