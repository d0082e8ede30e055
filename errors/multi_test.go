package errors

import (
	"fmt"
	"testing"
)

func TestAppend(t *testing.T) {
	cases := map[string]struct {
		errs     []error
		wantNil  bool
		wantLen  int
		wantCode uint32
	}{
		"no errors is nil": {
			errs:    nil,
			wantNil: true,
		},
		"only nil errors is nil": {
			errs:    []error{nil, nil},
			wantNil: true,
		},
		"single error": {
			errs:     []error{ErrNotFound},
			wantLen:  1,
			wantCode: ErrNotFound.code,
		},
		"nils are filtered out": {
			errs:     []error{nil, ErrNotFound, nil, ErrState},
			wantLen:  2,
			wantCode: ErrNotFound.code,
		},
		"multi error is flattened": {
			errs:     []error{Append(ErrEmpty, ErrState), ErrNotFound},
			wantLen:  3,
			wantCode: ErrEmpty.code,
		},
		"stdlib errors are coded internal": {
			errs:     []error{fmt.Errorf("stdlib")},
			wantLen:  1,
			wantCode: internalABCICode,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := Append(tc.errs...)
			if tc.wantNil {
				if err != nil {
					t.Fatalf("want nil, got %+v", err)
				}
				return
			}
			merr, ok := err.(multiError)
			if !ok {
				t.Fatalf("want a multi error, got %T", err)
			}
			if len(merr) != tc.wantLen {
				t.Errorf("want %d errors, got %d", tc.wantLen, len(merr))
			}
			if code := merr.ABCICode(); code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
		})
	}
}
