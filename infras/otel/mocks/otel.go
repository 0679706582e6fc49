package mocks

import (
	"context"
	"sync"

	"todolist/infras/otel"
)

// Otel hands out recording scopes and keeps them in creation order.
type Otel struct {
	mu     sync.Mutex
	scopes []*Scope
}

var _ otel.Otel = (*Otel)(nil)

func (o *Otel) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	scope := NewScope(spanName)

	o.mu.Lock()
	o.scopes = append(o.scopes, scope)
	o.mu.Unlock()

	return ctx, scope
}

func (o *Otel) Shutdown(_ context.Context) error {
	return nil
}

// Scope returns the first scope opened for spanName, or nil.
func (o *Otel) Scope(spanName string) *Scope {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, scope := range o.scopes {
		if scope.Name == spanName {
			return scope
		}
	}

	return nil
}

func NewOtel() *Otel {
	return &Otel{}
}
