package bountiestest

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/iov-one/bounties"
)

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) bounties.Address {
	raw := make([]byte, bounties.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	a := bounties.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("generated address is not valid: %s", err)
	}
	return a
}

// DecodeAddr takes a hex encoded address string and returns its raw
// representation. This function ensures that the returned value is a
// valid address.
func DecodeAddr(t testing.TB, encoded string) bounties.Address {
	t.Helper()
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		t.Fatalf("cannot decode hex string: %s", err)
	}
	a := bounties.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("decoded string is not a valid address: %s", err)
	}
	return a
}
