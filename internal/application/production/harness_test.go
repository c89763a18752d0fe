package production_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/exp-usinagem-api/internal/application/production"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	rules "github.com/jhoicas/exp-usinagem-api/internal/domain/production"
	"github.com/jhoicas/exp-usinagem-api/internal/infrastructure/memory"
	"github.com/jhoicas/exp-usinagem-api/pkg/logger"
)

type harness struct {
	store   *memory.Store
	orders  *production.OrderUseCase
	entries *production.EntryUseCase
	flow    *production.WorkflowUseCase
	board   *production.BoardUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()
	reconciler := production.NewReconciler()
	return &harness{
		store:   store,
		orders:  production.NewOrderUseCase(store, store.Repos(), reconciler, nil, log),
		entries: production.NewEntryUseCase(store, store.Repos(), rules.NewRules(20), reconciler, log),
		flow:    production.NewWorkflowUseCase(store, production.NewLedger(), log),
		board:   production.NewBoardUseCase(store.Repos()),
	}
}

func ptr[T any](v T) *T { return &v }

// seedOrder pedido já na Alúnica com 100 pcs / 50 kg.
func (h *harness) seedOrder(t *testing.T, id, secondary string) *entity.Order {
	t.Helper()
	o := &entity.Order{
		ID:              id,
		OrderSeq:        "4512/10",
		Client:          "Metalúrgica Alfa",
		Tool:            "TP-220",
		OrderedPieces:   100,
		OrderedKg:       decimal.NewFromInt(50),
		AvailablePieces: ptr(int64(100)),
		AvailableKg:     ptr(decimal.NewFromInt(50)),
		CumulativeKg:    decimal.Zero,
		PrimaryStage:    entity.StageExpedicaoAlu,
		CreatedAt:       time.Now(),
	}
	if secondary != "" {
		o.SecondaryStage = ptr(secondary)
	}
	require.NoError(t, h.store.Repos().Orders.Create(context.Background(), o))
	return o
}

func (h *harness) seedMovements(t *testing.T, movs ...*entity.LotMovement) {
	t.Helper()
	require.NoError(t, h.store.Repos().Movements.CreateBatch(context.Background(), movs))
}

func mov(id, orderID, stage, code string, pcs int64, kg string) *entity.LotMovement {
	return &entity.LotMovement{
		ID:             id,
		OrderID:        orderID,
		Unit:           entity.UnitAlunica,
		Stage:          stage,
		LotCode:        code,
		QuantityPieces: pcs,
		QuantityKg:     decimal.RequireFromString(kg),
	}
}

func (h *harness) movements(t *testing.T, orderID string) []*entity.LotMovement {
	t.Helper()
	movs, err := h.store.Repos().Movements.ListByOrder(context.Background(), orderID)
	require.NoError(t, err)
	return movs
}

func (h *harness) order(t *testing.T, id string) *entity.Order {
	t.Helper()
	o, err := h.store.Repos().Orders.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, o)
	return o
}

func (h *harness) history(t *testing.T, orderID string) []*entity.TransitionLogEntry {
	t.Helper()
	logs, err := h.store.Repos().Transitions.ListByOrder(context.Background(), orderID)
	require.NoError(t, err)
	return logs
}

func sumByBatch(movs []*entity.LotMovement) map[string]int64 {
	out := map[string]int64{}
	for _, m := range movs {
		key := m.LotBatchID
		if key == "" {
			key = m.LotCode
		}
		out[key] += m.QuantityPieces
	}
	return out
}

func loggerNop() *logger.Logger { return logger.Nop() }
