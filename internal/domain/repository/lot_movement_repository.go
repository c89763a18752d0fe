package repository

import (
	"context"

	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
)

// LotMovementRepository puerto de persistencia para movimentos de lote (apontamentos).
// As listagens devolvem os registros na ordem natural de gravação.
type LotMovementRepository interface {
	List(ctx context.Context) ([]*entity.LotMovement, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.LotMovement, error)
	GetByID(ctx context.Context, id string) (*entity.LotMovement, error)
	Create(ctx context.Context, movement *entity.LotMovement) error
	CreateBatch(ctx context.Context, movements []*entity.LotMovement) error
	Update(ctx context.Context, movement *entity.LotMovement) error
	Delete(ctx context.Context, id string) error
}
