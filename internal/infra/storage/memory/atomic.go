package memory

import (
	"context"
	"sync"
)

// Atomic serializes critical sections with a process-wide mutex. Memory
// repositories have no transactions, so mutual exclusion is the only
// guarantee this runner provides; it is enough to keep the availability
// check and the booking insert from interleaving.
type Atomic struct {
	mu sync.Mutex
}

func NewAtomic() *Atomic {
	return &Atomic{}
}

func (a *Atomic) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
