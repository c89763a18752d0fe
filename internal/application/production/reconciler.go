package production

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/exp-usinagem-api/internal/domain"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/repository"
)

// Reconciler mantém os contadores de saldo do pedido. Só roda após apontamentos
// (e correções de quantidade); movimentos entre estágios não alteram o produzido.
type Reconciler struct {
	now func() time.Time
}

// NewReconciler constrói o reconciliador.
func NewReconciler() *Reconciler {
	return &Reconciler{now: time.Now}
}

// Apply desconta producedPieces/producedKg do disponível e soma ao acumulado.
// O disponível ausente é derivado de ordered - cumulative. Deltas negativos (correções)
// devolvem saldo sem deixar o acumulado abaixo de zero.
func (r *Reconciler) Apply(ctx context.Context, orders repository.OrderRepository, orderID string, producedPieces int64, producedKg decimal.Decimal) (*entity.Order, error) {
	order, err := orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, domain.NewPersistenceError("buscar pedido", err)
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}

	applyBalance(order, producedPieces, producedKg)
	now := r.now()
	order.BalanceUpdatedAt = &now
	order.UpdatedAt = now

	if err := orders.UpdateBalances(ctx, order); err != nil {
		return nil, domain.NewPersistenceError("atualizar saldos do pedido", err)
	}
	return order, nil
}

// Recompute reconstrói os contadores a partir dos apontamentos da Alúnica (reparo administrativo).
func (r *Reconciler) Recompute(order *entity.Order, movements []*entity.LotMovement) {
	var pieces int64
	kg := decimal.Zero
	for _, m := range movements {
		if m.OrderID != order.ID || m.Unit != entity.UnitAlunica {
			continue
		}
		pieces += m.QuantityPieces
		kg = kg.Add(m.QuantityKg)
	}
	order.CumulativePieces = pieces
	order.CumulativeKg = kg

	avail := order.OrderedPieces - pieces
	if avail < 0 {
		avail = 0
	}
	availKg := order.OrderedKg.Sub(kg)
	if availKg.IsNegative() {
		availKg = decimal.Zero
	}
	order.AvailablePieces = &avail
	order.AvailableKg = &availKg

	now := r.now()
	order.BalanceUpdatedAt = &now
	order.UpdatedAt = now
}

func applyBalance(order *entity.Order, pieces int64, kg decimal.Decimal) {
	prevAvail := order.AvailablePiecesOr()
	prevAvailKg := availableKgOr(order)

	newAvail := prevAvail - pieces
	if newAvail < 0 {
		newAvail = 0
	}
	newCum := order.CumulativePieces + pieces
	if newCum < 0 {
		newCum = 0
	}
	if pieces < 0 && order.OrderedPieces > 0 && newAvail > order.OrderedPieces {
		newAvail = order.OrderedPieces
	}

	newAvailKg := prevAvailKg.Sub(kg)
	if newAvailKg.IsNegative() {
		newAvailKg = decimal.Zero
	}
	newCumKg := order.CumulativeKg.Add(kg)
	if newCumKg.IsNegative() {
		newCumKg = decimal.Zero
	}

	order.AvailablePieces = &newAvail
	order.AvailableKg = &newAvailKg
	order.CumulativePieces = newCum
	order.CumulativeKg = newCumKg
}

func availableKgOr(order *entity.Order) decimal.Decimal {
	if order.AvailableKg != nil {
		return *order.AvailableKg
	}
	rem := order.OrderedKg.Sub(order.CumulativeKg)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}
