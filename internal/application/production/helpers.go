package production

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/exp-usinagem-api/internal/domain"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/repository"
)

func loadOrder(ctx context.Context, orders repository.OrderRepository, id string) (*entity.Order, error) {
	if id == "" {
		return nil, domain.NewValidationError("order_id", "pedido não informado")
	}
	order, err := orders.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("buscar pedido", err)
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func appendLog(ctx context.Context, logs repository.TransitionLogRepository, e *entity.TransitionLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Kind == "" {
		e.Kind = entity.TransitionKindStatus
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	return domain.NewPersistenceError("gravar histórico", logs.Append(ctx, e))
}

// persistErr erros sem tipo vindos do TxRunner (begin/commit) viram PersistenceError.
func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		domain.ErrValidation, domain.ErrOverdraw, domain.ErrOrderOverrun, domain.ErrPersistence,
		domain.ErrStaleState, domain.ErrInvalidTransition, domain.ErrNotFound, domain.ErrInvalidInput,
		domain.ErrConflict, domain.ErrUnauthorized,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return domain.NewPersistenceError(op, err)
}
