package orm

import (
	"reflect"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/x"
)

var _ x.Validater = (*SimpleObj)(nil)

// SimpleObj pairs a key with a model value. Buckets operate on it
// without knowing the concrete model type.
type SimpleObj struct {
	key   []byte
	value Model
}

// NewSimpleObj combines a key and a value into an object.
func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{
		key:   key,
		value: value,
	}
}

// Value returns the stored model.
func (o SimpleObj) Value() bounties.Persistent {
	return o.value
}

// Key returns the key the object is stored under.
func (o SimpleObj) Key() []byte {
	return o.key
}

// Validate requires both parts to be set and delegates to the model's
// own validation.
func (o SimpleObj) Validate() error {
	if len(o.key) == 0 {
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	}
	if o.value == nil {
		return errors.Field("Value", errors.ErrEmpty, "missing value")
	}
	return errors.Field("Value", o.value.Validate(), "invalid value")
}

// SetKey updates the key. Buckets use it to assign sequence generated
// ids before saving.
func (o *SimpleObj) SetKey(key []byte) {
	o.key = key
}

// Clone returns a copy with a zero value of the same model type, ready
// to be loaded into.
func (o *SimpleObj) Clone() Object {
	cpy := reflect.New(reflect.TypeOf(o.value).Elem()).Interface().(Model)
	res := &SimpleObj{
		value: cpy,
	}
	if len(o.key) > 0 {
		res.key = append([]byte(nil), o.key...)
	}
	return res
}
