package worker

import (
	"context"

	"go.trai.ch/tasklens/internal/core/domain"
)

// Submit exposes submit for priority tests.
func (p *Pool) Submit(ctx context.Context, priority domain.Priority, run func(context.Context) error) error {
	return p.submit(ctx, priority, run)
}
