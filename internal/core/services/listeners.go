package services

import (
	"context"
	"sync"

	"github.com/SscSPs/splitledger/internal/core/domain"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
)

// listenerFanOut forwards notifications to every registered listener in registration order.
type listenerFanOut struct {
	mu        sync.RWMutex
	listeners []portssvc.LedgerListener
}

var (
	_ portssvc.LedgerListener   = (*listenerFanOut)(nil)
	_ portssvc.ListenerRegistry = (*listenerFanOut)(nil)
)

func (f *listenerFanOut) Register(listener portssvc.LedgerListener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, listener)
}

func (f *listenerFanOut) snapshot() []portssvc.LedgerListener {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]portssvc.LedgerListener, len(f.listeners))
	copy(out, f.listeners)
	return out
}

func (f *listenerFanOut) ExpenseResolved(ctx context.Context, expense domain.Expense) {
	for _, l := range f.snapshot() {
		l.ExpenseResolved(ctx, expense)
	}
}

func (f *listenerFanOut) EventClosed(ctx context.Context, event domain.Event) {
	for _, l := range f.snapshot() {
		l.EventClosed(ctx, event)
	}
}
