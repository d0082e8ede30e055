package app

import (
	"bytes"
	"testing"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
)

func TestJoinResults(t *testing.T) {
	models := []bounties.Model{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("2")},
	}

	joined, err := JoinResults(ResultsFromKeys(models), ResultsFromValues(models))
	if err != nil {
		t.Fatalf("cannot join: %+v", err)
	}
	if len(joined) != len(models) {
		t.Fatalf("want %d models, got %d", len(models), len(joined))
	}
	for i := range models {
		if !bytes.Equal(joined[i].Key, models[i].Key) || !bytes.Equal(joined[i].Value, models[i].Value) {
			t.Fatalf("model %d: want %v, got %v", i, models[i], joined[i])
		}
	}
}

func TestJoinResultsSizeMismatch(t *testing.T) {
	keys := &ResultSet{Results: [][]byte{[]byte("a"), []byte("b")}}
	values := &ResultSet{Results: [][]byte{[]byte("1")}}

	if _, err := JoinResults(keys, values); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %+v", err)
	}
}

func TestUnmarshalOneResult(t *testing.T) {
	models := []bounties.Model{{Key: []byte("a"), Value: []byte(`{"results":["aGk="]}`)}}
	raw, err := ResultsFromValues(models).Marshal()
	if err != nil {
		t.Fatalf("cannot marshal: %+v", err)
	}

	var inner ResultSet
	if err := UnmarshalOneResult(raw, &inner); err != nil {
		t.Fatalf("cannot unmarshal: %+v", err)
	}
	if len(inner.Results) != 1 || !bytes.Equal(inner.Results[0], []byte("hi")) {
		t.Fatalf("want the inner result, got %v", inner.Results)
	}
}
