package production_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/exp-usinagem-api/internal/application/production"
	"github.com/jhoicas/exp-usinagem-api/internal/domain"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/infrastructure/memory"
)

func seedTwoLots(t *testing.T, h *harness) {
	t.Helper()
	h.seedOrder(t, "p1", entity.StageParaInspecao)
	h.seedMovements(t,
		mov("m1", "p1", entity.StageParaInspecao, "L1", 10, "1.000"),
		mov("m2", "p1", entity.StageParaInspecao, "L2", 15, "1.500"),
	)
}

func TestApprove_FullMovesOrderStage(t *testing.T) {
	h := newHarness(t)
	seedTwoLots(t, h)

	res, err := h.flow.Approve(context.Background(), production.ApprovalInput{
		OrderID: "p1",
		Actor:   "Ana",
		Lots:    []production.LotQuantity{{LotCode: "L1", Quantity: 10}, {LotCode: "L2", Quantity: 15}},
	})
	require.NoError(t, err)
	assert.True(t, res.Full)
	assert.Equal(t, entity.ReasonApproval, res.Reason)
	assert.Equal(t, int64(25), res.Moved)
	assert.Equal(t, entity.StageParaEmbarque, h.order(t, "p1").StageFor(entity.UnitAlunica))

	movs := h.movements(t, "p1")
	require.Len(t, movs, 2)
	assert.Equal(t, entity.StageParaEmbarque, movs[0].Stage)
	assert.Equal(t, "L1-EMB-01", movs[0].LotCode)
	assert.Equal(t, "L1", movs[0].LotBatchID)
	assert.Equal(t, "L2-EMB-01", movs[1].LotCode)

	logs := h.history(t, "p1")
	require.Len(t, logs, 1)
	assert.Equal(t, entity.StageParaInspecao, logs[0].FromStage)
	assert.Equal(t, entity.StageParaEmbarque, logs[0].ToStage)
	assert.Equal(t, entity.ReasonApproval, logs[0].Reason)
	assert.Equal(t, "Ana", logs[0].Actor)
}

func TestApprove_PartialKeepsOrderStageAndSplitsLot(t *testing.T) {
	h := newHarness(t)
	seedTwoLots(t, h)

	res, err := h.flow.Approve(context.Background(), production.ApprovalInput{
		OrderID: "p1",
		Lots:    []production.LotQuantity{{LotCode: "L1", Quantity: 10}, {LotCode: "L2", Quantity: 5}},
	})
	require.NoError(t, err)
	assert.False(t, res.Full)
	assert.Equal(t, entity.ReasonApprovalPartial, res.Reason)
	assert.Equal(t, entity.StageParaInspecao, h.order(t, "p1").StageFor(entity.UnitAlunica))

	movs := h.movements(t, "p1")
	require.Len(t, movs, 3)
	assert.Equal(t, entity.StageParaEmbarque, movs[0].Stage)
	assert.Equal(t, int64(10), movs[0].QuantityPieces)

	assert.Equal(t, "m2", movs[1].ID)
	assert.Equal(t, entity.StageParaInspecao, movs[1].Stage)
	assert.Equal(t, "L2", movs[1].LotCode)
	assert.Equal(t, int64(10), movs[1].QuantityPieces)
	assert.True(t, decimal.RequireFromString("1.0").Equal(movs[1].QuantityKg))

	assert.Equal(t, entity.StageParaEmbarque, movs[2].Stage)
	assert.Equal(t, "L2-EMB-01", movs[2].LotCode)
	assert.Equal(t, int64(5), movs[2].QuantityPieces)
	assert.True(t, decimal.RequireFromString("0.5").Equal(movs[2].QuantityKg))

	logs := h.history(t, "p1")
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ReasonApprovalPartial, logs[0].Reason)
	assert.Equal(t, entity.StageParaInspecao, logs[0].ToStage)
}

func TestApprove_SequentialSplitsGenerateIncreasingCodes(t *testing.T) {
	h := newHarness(t)
	seedTwoLots(t, h)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := h.flow.Approve(ctx, production.ApprovalInput{
			OrderID: "p1",
			Lots:    []production.LotQuantity{{LotCode: "L2", Quantity: 5}},
		})
		require.NoError(t, err)
	}

	var codes []string
	for _, m := range h.movements(t, "p1") {
		if m.Stage == entity.StageParaEmbarque {
			codes = append(codes, m.LotCode)
		}
	}
	assert.Equal(t, []string{"L2-EMB-01", "L2-EMB-02"}, codes)
}

func TestApprove_OverdrawWritesNothing(t *testing.T) {
	h := newHarness(t)
	seedTwoLots(t, h)
	before := h.movements(t, "p1")

	_, err := h.flow.Approve(context.Background(), production.ApprovalInput{
		OrderID: "p1",
		Lots:    []production.LotQuantity{{LotCode: "L1", Quantity: 10}, {LotCode: "L2", Quantity: 20}},
	})
	var overdraw *domain.OverdrawError
	require.ErrorAs(t, err, &overdraw)
	assert.Equal(t, int64(15), overdraw.Available)
	assert.ErrorIs(t, err, domain.ErrOverdraw)

	assert.Equal(t, before, h.movements(t, "p1"))
	assert.Empty(t, h.history(t, "p1"))
}

func TestApprove_PersistenceFailureRollsBackWholeAction(t *testing.T) {
	h := newHarness(t)
	seedTwoLots(t, h)
	before := h.movements(t, "p1")
	h.store.InjectFaultAfter(memory.OpMovementUpdate, 1, errors.New("conexão perdida"))

	_, err := h.flow.Approve(context.Background(), production.ApprovalInput{
		OrderID: "p1",
		Lots:    []production.LotQuantity{{LotCode: "L1", Quantity: 10}, {LotCode: "L2", Quantity: 15}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	assert.Equal(t, before, h.movements(t, "p1"))
	assert.Empty(t, h.history(t, "p1"))
	assert.Equal(t, entity.StageParaInspecao, h.order(t, "p1").StageFor(entity.UnitAlunica))
}

func TestApproveAllThenReopen_ConservesBatchTotals(t *testing.T) {
	h := newHarness(t)
	seedTwoLots(t, h)
	ctx := context.Background()
	totals := sumByBatch(h.movements(t, "p1"))

	res, err := h.flow.ApproveAll(ctx, "p1", "Ana")
	require.NoError(t, err)
	assert.True(t, res.Full)
	assert.Equal(t, sumByBatch(h.movements(t, "p1")), totals)

	res, err = h.flow.Reopen(ctx, production.ApprovalInput{
		OrderID: "p1",
		Lots:    []production.LotQuantity{{LotCode: "L2-EMB-01", Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ReasonReopenPartial, res.Reason)
	assert.Equal(t, entity.StageParaEmbarque, res.Stage)
	assert.Equal(t, sumByBatch(h.movements(t, "p1")), totals)

	var reopened *entity.LotMovement
	for _, m := range h.movements(t, "p1") {
		if m.Stage == entity.StageParaInspecao {
			reopened = m
		}
	}
	require.NotNil(t, reopened)
	assert.Equal(t, "L2-INS-01", reopened.LotCode)
	assert.Equal(t, "L2", reopened.LotBatchID)

	res, err = h.flow.ReopenAll(ctx, "p1", "Ana")
	require.NoError(t, err)
	assert.Equal(t, entity.ReasonReopen, res.Reason)
	assert.Equal(t, entity.StageParaInspecao, h.order(t, "p1").StageFor(entity.UnitAlunica))
	assert.Equal(t, sumByBatch(h.movements(t, "p1")), totals)
	assert.Len(t, h.history(t, "p1"), 3)
}

func TestApprove_Validation(t *testing.T) {
	h := newHarness(t)
	seedTwoLots(t, h)
	ctx := context.Background()

	_, err := h.flow.Approve(ctx, production.ApprovalInput{OrderID: "p1"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.flow.Approve(ctx, production.ApprovalInput{OrderID: "p1", Lots: []production.LotQuantity{{LotCode: "L1", Quantity: -1}}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.flow.Approve(ctx, production.ApprovalInput{OrderID: "nope", Lots: []production.LotQuantity{{LotCode: "L1", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_StaleSnapshotRollsBack(t *testing.T) {
	h := newHarness(t)
	seedTwoLots(t, h)
	ctx := context.Background()
	before := h.movements(t, "p1")

	err := h.store.Run(ctx, func(repos production.Repos) error {
		_, err := production.NewLedger().Move(ctx, repos.Movements, production.MoveRequest{
			OrderID:   "p1",
			Unit:      entity.UnitAlunica,
			LotCode:   "L1",
			Quantity:  12,
			From:      entity.StageParaInspecao,
			To:        entity.StageParaEmbarque,
			Available: ptr(int64(12)),
		})
		return err
	})
	var stale *domain.StaleStateError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, int64(2), stale.Remaining)
	assert.Equal(t, before, h.movements(t, "p1"))
}

func TestLedger_MoveWithoutLotCode(t *testing.T) {
	h := newHarness(t)
	h.seedOrder(t, "p1", entity.StageParaInspecao)
	h.seedMovements(t, mov("m1", "p1", entity.StageParaInspecao, "", 4, "0"))
	ctx := context.Background()

	res, err := production.NewLedger().Move(ctx, h.store.Repos().Movements, production.MoveRequest{
		OrderID: "p1", Unit: entity.UnitAlunica, Quantity: 4,
		From: entity.StageParaInspecao, To: entity.StageParaEmbarque,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Moved)
	require.Len(t, res.Updated, 1)
	assert.Equal(t, entity.StageParaEmbarque, res.Updated[0].Stage)
}

func TestMoveOrder_Primary(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	o, err := h.orders.Create(ctx, production.CreateOrderInput{OrderSeq: "100/1", Client: "Beta", OrderedPieces: 10})
	require.NoError(t, err)

	res, err := h.flow.MoveOrder(ctx, production.MoveOrderInput{OrderID: o.ID, Unit: "TecnoPerfil", To: "Produzido", Actor: "Rui"})
	require.NoError(t, err)
	assert.Equal(t, entity.StagePedido, res.From)
	assert.Equal(t, entity.StageProduzido, res.To)
	assert.Equal(t, entity.ReasonManualMove, res.Reason)

	_, err = h.flow.MoveOrder(ctx, production.MoveOrderInput{OrderID: o.ID, Unit: entity.UnitTecnoPerfil, To: entity.StageEmbalagem})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = h.flow.MoveOrder(ctx, production.MoveOrderInput{OrderID: o.ID, Unit: entity.UnitTecnoPerfil, To: "inexistente"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	logs := h.history(t, o.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.UnitTecnoPerfil, logs[0].Unit)
}

func TestMoveOrder_LedgerEdgeMovesAllLots(t *testing.T) {
	h := newHarness(t)
	seedTwoLots(t, h)

	res, err := h.flow.MoveOrder(context.Background(), production.MoveOrderInput{
		OrderID: "p1", Unit: entity.UnitAlunica, To: entity.StageParaEmbarque,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ReasonApproval, res.Reason)
	for _, m := range h.movements(t, "p1") {
		assert.Equal(t, entity.StageParaEmbarque, m.Stage)
	}
	assert.Len(t, h.history(t, "p1"), 1)
}

func TestTransferToSecondary(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedOrder(t, "p1", "")

	res, err := h.flow.TransferToSecondary(ctx, "p1", "Ana")
	require.NoError(t, err)
	assert.Equal(t, entity.StageEstoque, res.To)
	o := h.order(t, "p1")
	assert.Equal(t, entity.StageEstoque, o.StageFor(entity.UnitAlunica))
	assert.Equal(t, entity.StageExpedicaoAlu, o.PrimaryStage)

	_, err = h.flow.TransferToSecondary(ctx, "p1", "Ana")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestFinalize(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedOrder(t, "p1", entity.StageExpedicaoTecno)
	h.seedOrder(t, "p2", entity.StageParaEmbarque)

	res, err := h.flow.Finalize(ctx, "p1", "", "Ana")
	require.NoError(t, err)
	assert.Equal(t, entity.UnitAlunica, res.Unit)
	o := h.order(t, "p1")
	assert.Equal(t, entity.StageFinalizado, o.PrimaryStage)
	assert.Equal(t, entity.StageFinalizado, o.StageFor(entity.UnitAlunica))
	logs := h.history(t, "p1")
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ReasonFinalize, logs[0].Reason)

	_, err = h.flow.Finalize(ctx, "p2", entity.UnitAlunica, "Ana")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestApproveAndReopenAll_RejectOrdersOutsideMachining(t *testing.T) {
	cases := []struct {
		name  string
		stage string
		run   func(*production.WorkflowUseCase) (*production.ApprovalResult, error)
	}{
		{"reabrir finalizado", entity.StageFinalizado, func(w *production.WorkflowUseCase) (*production.ApprovalResult, error) {
			return w.ReopenAll(context.Background(), "p1", "x")
		}},
		{"aprovar finalizado", entity.StageFinalizado, func(w *production.WorkflowUseCase) (*production.ApprovalResult, error) {
			return w.ApproveAll(context.Background(), "p1", "x")
		}},
		{"reabrir expedido", entity.StageExpedicaoTecno, func(w *production.WorkflowUseCase) (*production.ApprovalResult, error) {
			return w.ReopenAll(context.Background(), "p1", "x")
		}},
		{"aprovar em estoque sem lotes", entity.StageEstoque, func(w *production.WorkflowUseCase) (*production.ApprovalResult, error) {
			return w.ApproveAll(context.Background(), "p1", "x")
		}},
		{"reabrir em estoque sem lotes", entity.StageEstoque, func(w *production.WorkflowUseCase) (*production.ApprovalResult, error) {
			return w.ReopenAll(context.Background(), "p1", "x")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.seedOrder(t, "p1", tc.stage)

			_, err := tc.run(h.flow)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			assert.Equal(t, tc.stage, h.order(t, "p1").StageFor(entity.UnitAlunica))
			assert.Empty(t, h.history(t, "p1"))
		})
	}
}

func TestApproveAll_ShippedOrderKeepsLots(t *testing.T) {
	h := newHarness(t)
	h.seedOrder(t, "p1", entity.StageExpedicaoTecno)
	h.seedMovements(t, mov("m1", "p1", entity.StageParaInspecao, "L1", 10, "1.000"))

	_, err := h.flow.ApproveAll(context.Background(), "p1", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.StageParaInspecao, h.movements(t, "p1")[0].Stage)
}

func TestApproveAll_FromMachiningStageMovesLotsOnly(t *testing.T) {
	h := newHarness(t)
	h.seedOrder(t, "p1", entity.StageEstoque)
	h.seedMovements(t, mov("m1", "p1", entity.StageParaInspecao, "L1", 10, "1.000"))

	res, err := h.flow.ApproveAll(context.Background(), "p1", "Ana")
	require.NoError(t, err)
	assert.True(t, res.Full)
	assert.Equal(t, entity.StageEstoque, res.Stage)
	assert.Equal(t, entity.StageParaEmbarque, h.movements(t, "p1")[0].Stage)

	logs := h.history(t, "p1")
	require.Len(t, logs, 1)
	assert.Equal(t, entity.StageEstoque, logs[0].FromStage)
	assert.Equal(t, entity.StageEstoque, logs[0].ToStage)
	assert.Equal(t, entity.ReasonApproval, logs[0].Reason)
}

func TestReopenAll_FollowsGraphEdge(t *testing.T) {
	h := newHarness(t)
	h.seedOrder(t, "p1", entity.StageParaUsinar)
	h.seedMovements(t, mov("m1", "p1", entity.StageParaEmbarque, "L1", 10, "1.000"))

	res, err := h.flow.ReopenAll(context.Background(), "p1", "Ana")
	require.NoError(t, err)
	assert.Equal(t, entity.StageParaInspecao, res.Stage)

	logs := h.history(t, "p1")
	require.Len(t, logs, 1)
	assert.Equal(t, entity.StageParaUsinar, logs[0].FromStage)
	assert.Equal(t, entity.StageParaInspecao, logs[0].ToStage)
}

func TestMoveOrder_RejectsForeignReason(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedOrder(t, "p1", entity.StageEstoque)

	for _, reason := range []string{"qualquer coisa", entity.ReasonApproval, entity.ReasonFinalize} {
		_, err := h.flow.MoveOrder(ctx, production.MoveOrderInput{
			OrderID: "p1", Unit: entity.UnitAlunica, To: entity.StageParaUsinar, Reason: reason,
		})
		assert.ErrorIs(t, err, domain.ErrValidation, reason)
	}
	assert.Empty(t, h.history(t, "p1"))
	assert.Equal(t, entity.StageEstoque, h.order(t, "p1").StageFor(entity.UnitAlunica))

	res, err := h.flow.MoveOrder(ctx, production.MoveOrderInput{
		OrderID: "p1", Unit: entity.UnitAlunica, To: entity.StageParaUsinar, Reason: entity.ReasonManualMove,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ReasonManualMove, res.Reason)
}
