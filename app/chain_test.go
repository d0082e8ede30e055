package app

import (
	"context"
	"testing"

	"github.com/iov-one/bounties/bountiestest"
	"github.com/iov-one/bounties/errors"
	"github.com/iov-one/bounties/store"
)

func TestChainCallsEveryDecorator(t *testing.T) {
	d1 := &bountiestest.Decorator{}
	d2 := &bountiestest.Decorator{}
	h := &bountiestest.Handler{}

	stack := ChainDecorators(d1, d2).WithHandler(h)

	db := store.MemStore()
	ctx := context.Background()

	if _, err := stack.Check(ctx, db, nil); err != nil {
		t.Fatalf("cannot check: %+v", err)
	}
	if _, err := stack.Deliver(ctx, db, nil); err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}

	for i, d := range []*bountiestest.Decorator{d1, d2} {
		if d.CallCount() != 2 {
			t.Fatalf("decorator %d: want 2 calls, got %d", i, d.CallCount())
		}
	}
	if h.CallCount() != 2 {
		t.Fatalf("want 2 handler calls, got %d", h.CallCount())
	}
}

func TestChainAbortsOnDecoratorError(t *testing.T) {
	failure := errors.Wrap(errors.ErrUnauthorized, "decorator failure")
	d1 := &bountiestest.Decorator{CheckErr: failure, DeliverErr: failure}
	h := &bountiestest.Handler{}

	stack := ChainDecorators(d1).WithHandler(h)

	db := store.MemStore()
	ctx := context.Background()

	if _, err := stack.Check(ctx, db, nil); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want the decorator error, got %+v", err)
	}
	if _, err := stack.Deliver(ctx, db, nil); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want the decorator error, got %+v", err)
	}
	if h.CallCount() != 0 {
		t.Fatalf("handler must not be reached, got %d calls", h.CallCount())
	}
}

func TestChainSkipsNilDecorators(t *testing.T) {
	d := &bountiestest.Decorator{}
	h := &bountiestest.Handler{}

	stack := ChainDecorators(nil, d, nil).Chain(nil).WithHandler(h)

	db := store.MemStore()
	ctx := context.Background()

	if _, err := stack.Deliver(ctx, db, nil); err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}
	if d.DeliverCallCount() != 1 {
		t.Fatalf("want 1 call, got %d", d.DeliverCallCount())
	}
	if h.DeliverCallCount() != 1 {
		t.Fatalf("want 1 handler call, got %d", h.DeliverCallCount())
	}
}
