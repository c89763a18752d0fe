package repository

import (
	"context"

	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
)

// OrderRepository puerto de persistencia para pedidos do fluxo.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	// GetByID devolve nil, nil quando o pedido não existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context) ([]*entity.Order, error)
	// UpdateBalances grava apenas os contadores de saldo do pedido.
	UpdateBalances(ctx context.Context, order *entity.Order) error
	// UpdateStages grava apenas os estágios (primária e secundária) do pedido.
	UpdateStages(ctx context.Context, order *entity.Order) error
	// Delete remove o pedido e, em cascata, seus movimentos e histórico.
	Delete(ctx context.Context, id string) error
}
