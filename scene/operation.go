package scene

import (
	"context"
	"sync"
)

// Operation is a one-shot future resolved by whoever issued it.
type Operation struct {
	done chan struct{}
	once sync.Once
	err  error
}

func NewOperation() *Operation {
	return &Operation{done: make(chan struct{})}
}

// Completed returns an operation that is already resolved with err.
func Completed(err error) *Operation {
	op := NewOperation()
	op.Complete(err)
	return op
}

// Complete resolves the operation. Only the first call has any effect.
func (op *Operation) Complete(err error) {
	op.once.Do(func() {
		op.err = err
		close(op.done)
	})
}

func (op *Operation) Done() <-chan struct{} {
	return op.done
}

// Err returns the result, or nil while the operation is still pending.
func (op *Operation) Err() error {
	select {
	case <-op.done:
		return op.err
	default:
		return nil
	}
}

// Wait blocks until the operation resolves or ctx is done.
func (op *Operation) Wait(ctx context.Context) error {
	select {
	case <-op.done:
		return op.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
