package errors

import (
	"github.com/pkg/errors"
)

// stackTracer is implemented by errors created using pkg/errors WithStack.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the stack trace attached to given error or nil if no
// trace information was found. This function unwraps the error looking for
// the deepest stack trace information available.
func stackTrace(err error) errors.StackTrace {
	var trace errors.StackTrace
	for {
		if st, ok := err.(stackTracer); ok {
			trace = st.StackTrace()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return trace
		}
	}
}

// StackTrace returns the stack trace information attached to given error,
// or nil if none was recorded.
func StackTrace(err error) errors.StackTrace {
	return stackTrace(err)
}
