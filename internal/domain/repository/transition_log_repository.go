package repository

import (
	"context"

	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
)

// TransitionLogRepository histórico append-only de transições do pedido.
type TransitionLogRepository interface {
	Append(ctx context.Context, entry *entity.TransitionLogEntry) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.TransitionLogEntry, error)
}
