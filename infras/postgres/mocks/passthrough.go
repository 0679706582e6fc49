package mocks

import (
	"context"

	"todolist/infras/postgres"
)

type passthrough struct{}

// WithinTransaction implements postgres.Transactor by calling fn directly.
func (p *passthrough) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// WithinReadOnlyTransaction implements postgres.Transactor by calling fn directly.
func (p *passthrough) WithinReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func NewTransactor() postgres.Transactor {
	return &passthrough{}
}
