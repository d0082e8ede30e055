package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/bounties"
	"github.com/iov-one/bounties/errors"
)

// isPath matches a valid message path, "<extension>/<action>".
var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// Router directs messages to the handler registered for their path.
type Router struct {
	routes map[string]bounties.Handler
}

var _ bounties.Registry = (*Router)(nil)
var _ bounties.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]bounties.Handler),
	}
}

// Handle registers a handler for all messages of the given type. The route
// is taken from the message path. Handle panics when registering an invalid
// path or when a handler was already registered for it.
func (r *Router) Handle(m bounties.Msg, h bounties.Handler) {
	path := m.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route %q", path))
	}
	r.routes[path] = h
}

// handler returns the handler registered for the message carried by the
// transaction. A handler is always returned, an unknown path resolves to a
// handler that fails every call.
func (r *Router) handler(tx bounties.Tx) bounties.Handler {
	msg, err := tx.GetMsg()
	if err != nil || msg == nil {
		return notFoundHandler("(missing)")
	}
	if h, ok := r.routes[msg.Path()]; ok {
		return h
	}
	return notFoundHandler(msg.Path())
}

func (r *Router) Check(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.CheckResult, error) {
	return r.handler(tx).Check(ctx, db, tx)
}

func (r *Router) Deliver(ctx bounties.Context, db bounties.KVStore, tx bounties.Tx) (*bounties.DeliverResult, error) {
	return r.handler(tx).Deliver(ctx, db, tx)
}

type notFoundHandler string

var _ bounties.Handler = notFoundHandler("")

func (p notFoundHandler) Check(bounties.Context, bounties.KVStore, bounties.Tx) (*bounties.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for path %q", string(p))
}

func (p notFoundHandler) Deliver(bounties.Context, bounties.KVStore, bounties.Tx) (*bounties.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for path %q", string(p))
}
