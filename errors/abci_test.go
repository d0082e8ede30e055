package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestABCInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"plain weave error": {
			err:      ErrNotFound,
			debug:    false,
			wantLog:  "not found",
			wantCode: ErrNotFound.code,
		},
		"wrapped error": {
			err:      Wrap(Wrap(ErrNotFound, "inner"), "outer"),
			debug:    false,
			wantLog:  "outer: inner: not found",
			wantCode: ErrNotFound.code,
		},
		"nil is empty message": {
			err:      nil,
			debug:    false,
			wantLog:  "",
			wantCode: 0,
		},
		"stdlib error is generic message": {
			err:      fmt.Errorf("stdlib"),
			debug:    false,
			wantLog:  "internal error",
			wantCode: 1,
		},
		"stdlib error is not redacted in debug mode": {
			err:      fmt.Errorf("stdlib"),
			debug:    true,
			wantLog:  "stdlib",
			wantCode: 1,
		},
		"wrapped stdlib error is only coded": {
			err:      Wrap(fmt.Errorf("stdlib"), "outer"),
			debug:    false,
			wantLog:  "internal error",
			wantCode: 1,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if !strings.HasPrefix(log, tc.wantLog) {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(ErrPanic, false); ErrPanic.Is(err) {
		t.Error("reduct must remove panic information")
	}
	if err := Redact(fmt.Errorf("stdlib"), false); err.Error() != internalABCILog {
		t.Errorf("unknown error must be replaced by generic message: %s", err)
	}
	notRedacted := Wrap(ErrNotFound, "assets")
	if err := Redact(notRedacted, false); err != notRedacted {
		t.Errorf("registered error must not be redacted: %s", err)
	}
	stdErr := fmt.Errorf("stdlib")
	if err := Redact(stdErr, true); err != stdErr {
		t.Errorf("no error must be touched in debug mode: %s", err)
	}
}
