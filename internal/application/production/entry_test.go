package production_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/exp-usinagem-api/internal/application/production"
	"github.com/jhoicas/exp-usinagem-api/internal/domain"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/infrastructure/memory"
)

func entryInput(orderID string, pieces int64) production.EntryInput {
	start := time.Date(2024, 11, 5, 7, 0, 0, 0, time.UTC)
	finish := start.Add(90 * time.Minute)
	return production.EntryInput{
		OrderID:    orderID,
		Pieces:     pieces,
		StartedAt:  &start,
		FinishedAt: &finish,
		Note:       " turno A ",
		Actor:      "Ana",
	}
}

func assertConservation(t *testing.T, o *entity.Order) {
	t.Helper()
	assert.Equal(t, o.OrderedPieces, o.AvailablePiecesOr()+o.CumulativePieces)
}

func TestRecordEntry_SplitsByInspectionThreshold(t *testing.T) {
	h := newHarness(t)
	h.seedOrder(t, "p1", entity.StageParaUsinar)
	ctx := context.Background()

	res, err := h.entries.RecordEntry(ctx, entryInput("p1", 25))
	require.NoError(t, err)
	assert.Equal(t, int64(20), res.Split.Inspection)
	assert.Equal(t, int64(5), res.Split.Packaging)
	assert.True(t, decimal.RequireFromString("0.5").Equal(res.KgPerPiece))

	movs := h.movements(t, "p1")
	require.Len(t, movs, 2)
	assert.Equal(t, entity.StageParaInspecao, movs[0].Stage)
	assert.Equal(t, int64(20), movs[0].QuantityPieces)
	assert.True(t, decimal.NewFromInt(10).Equal(movs[0].QuantityKg))
	assert.Equal(t, entity.StageParaEmbarque, movs[1].Stage)
	assert.Equal(t, int64(5), movs[1].QuantityPieces)
	assert.Equal(t, movs[0].LotCode, movs[1].LotCode)
	assert.Equal(t, res.LotCode, movs[0].LotBatchID)
	assert.Contains(t, res.LotCode, "-4512/10")
	assert.Equal(t, "turno A", movs[0].Note)
	assert.Equal(t, "Ana", movs[0].Operator)

	o := h.order(t, "p1")
	assert.Equal(t, int64(25), o.CumulativePieces)
	assert.Equal(t, int64(75), o.AvailablePiecesOr())
	assert.True(t, decimal.RequireFromString("12.5").Equal(o.CumulativeKg))
	assertConservation(t, o)

	logs := h.history(t, "p1")
	require.Len(t, logs, 1)
	assert.Equal(t, entity.TransitionKindEntry, logs[0].Kind)
	assert.Equal(t, entity.ReasonProductionEntry, logs[0].Reason)
	assert.Equal(t, entity.StageParaUsinar, logs[0].FromStage)
	assert.Equal(t, entity.StageParaUsinar, logs[0].ToStage)
}

func TestRecordEntry_UsesInspectedToDate(t *testing.T) {
	h := newHarness(t)
	h.seedOrder(t, "p1", entity.StageParaUsinar)
	h.seedMovements(t, mov("m0", "p1", entity.StageParaInspecao, "L0", 18, "9"))
	ctx := context.Background()

	res, err := h.entries.RecordEntry(ctx, entryInput("p1", 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Split.Inspection)
	assert.Equal(t, int64(8), res.Split.Packaging)

	res, err = h.entries.RecordEntry(ctx, entryInput("p1", 15))
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Split.Inspection)
	assert.Equal(t, int64(15), res.Split.Packaging)
	require.Len(t, res.Movements, 1)
}

func TestRecordEntry_ExplicitSplit(t *testing.T) {
	h := newHarness(t)
	h.seedOrder(t, "p1", entity.StageParaUsinar)
	ctx := context.Background()

	in := entryInput("p1", 25)
	in.InspectionPieces = ptr(int64(10))
	_, err := h.entries.RecordEntry(ctx, in)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, h.movements(t, "p1"))

	in.InspectionPieces = ptr(int64(25))
	res, err := h.entries.RecordEntry(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(25), res.Split.Inspection)
	assert.Len(t, res.Movements, 1)
}

func TestRecordEntry_OverrunRejectedBeforeWrites(t *testing.T) {
	h := newHarness(t)
	o := h.seedOrder(t, "p1", entity.StageParaUsinar)
	o.CumulativePieces = 95
	o.AvailablePieces = ptr(int64(5))
	require.NoError(t, h.store.Repos().Orders.UpdateBalances(context.Background(), o))

	_, err := h.entries.RecordEntry(context.Background(), entryInput("p1", 10))
	var overrun *domain.OrderOverrunError
	require.ErrorAs(t, err, &overrun)
	assert.Equal(t, int64(5), overrun.Remaining)
	assert.Empty(t, h.movements(t, "p1"))
	assert.Empty(t, h.history(t, "p1"))
}

func TestRecordEntry_RequiresSecondaryUnitAndValidInput(t *testing.T) {
	h := newHarness(t)
	h.seedOrder(t, "p1", "")
	ctx := context.Background()

	_, err := h.entries.RecordEntry(ctx, entryInput("p1", 5))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.entries.RecordEntry(ctx, entryInput("p1", 0))
	assert.ErrorIs(t, err, domain.ErrValidation)

	in := entryInput("p1", 5)
	in.FinishedAt = nil
	_, err = h.entries.RecordEntry(ctx, in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRecordEntry_ReconcileFailureKeepsEntry(t *testing.T) {
	h := newHarness(t)
	h.seedOrder(t, "p1", entity.StageParaUsinar)
	h.store.InjectFault(memory.OpOrderUpdateBalances, errors.New("timeout"))

	res, err := h.entries.RecordEntry(context.Background(), entryInput("p1", 25))
	require.Error(t, err)
	require.NotNil(t, res)
	assert.True(t, production.IsReconcileError(err))
	assert.ErrorIs(t, err, domain.ErrPersistence)

	assert.Len(t, h.movements(t, "p1"), 2)
	o := h.order(t, "p1")
	assert.Zero(t, o.CumulativePieces)
	assert.Equal(t, int64(100), o.AvailablePiecesOr())
}

func TestRecordEntry_StoreFailureWritesNothing(t *testing.T) {
	h := newHarness(t)
	h.seedOrder(t, "p1", entity.StageParaUsinar)
	h.store.InjectFault(memory.OpTransitionAppend, errors.New("constraint"))

	_, err := h.entries.RecordEntry(context.Background(), entryInput("p1", 25))
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.False(t, production.IsReconcileError(err))
	assert.Empty(t, h.movements(t, "p1"))
}

func TestReconciler_DerivesMissingAvailable(t *testing.T) {
	h := newHarness(t)
	o := h.seedOrder(t, "p1", entity.StageParaUsinar)
	o.AvailablePieces = nil
	o.AvailableKg = nil
	o.CumulativePieces = 30
	o.CumulativeKg = decimal.NewFromInt(15)
	require.NoError(t, h.store.Repos().Orders.UpdateBalances(context.Background(), o))

	got, err := production.NewReconciler().Apply(context.Background(), h.store.Repos().Orders, "p1", 10, decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.Equal(t, int64(60), *got.AvailablePieces)
	assert.Equal(t, int64(40), got.CumulativePieces)
	assert.True(t, decimal.NewFromInt(30).Equal(*got.AvailableKg))
	assertConservation(t, got)
	assert.NotNil(t, got.BalanceUpdatedAt)
}

func TestReconciler_ClampsAtZero(t *testing.T) {
	h := newHarness(t)
	o := h.seedOrder(t, "p1", entity.StageParaUsinar)
	o.AvailablePieces = ptr(int64(3))
	require.NoError(t, h.store.Repos().Orders.UpdateBalances(context.Background(), o))

	got, err := production.NewReconciler().Apply(context.Background(), h.store.Repos().Orders, "p1", 5, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, int64(0), *got.AvailablePieces)
	assert.Equal(t, int64(5), got.CumulativePieces)
}

func TestCorrectEntry_QuantityReconcilesDelta(t *testing.T) {
	h := newHarness(t)
	h.seedOrder(t, "p1", entity.StageParaUsinar)
	ctx := context.Background()

	entry, err := h.entries.RecordEntry(ctx, entryInput("p1", 25))
	require.NoError(t, err)
	target := entry.Movements[0]

	res, err := h.entries.CorrectEntry(ctx, production.CorrectionInput{
		MovementID: target.ID,
		Pieces:     ptr(int64(15)),
		Note:       ptr("recontagem"),
		Reason:     "contagem errada",
		Actor:      "Supervisor",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), res.Movement.QuantityPieces)
	assert.True(t, decimal.RequireFromString("7.5").Equal(res.Movement.QuantityKg))
	assert.ElementsMatch(t, []string{"quantity_pieces", "quantity_kg", "note"}, res.Correction.ChangedFields)
	assert.Equal(t, int64(20), res.Correction.PreviousValue["quantity_pieces"])

	o := h.order(t, "p1")
	assert.Equal(t, int64(20), o.CumulativePieces)
	assert.Equal(t, int64(80), o.AvailablePiecesOr())
	assertConservation(t, o)

	list, err := h.entries.ListCorrections(ctx, target.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Supervisor", list[0].CorrectedBy)
}

func TestCorrectEntry_Validation(t *testing.T) {
	h := newHarness(t)
	h.seedOrder(t, "p1", entity.StageParaUsinar)
	h.seedMovements(t, mov("m1", "p1", entity.StageParaInspecao, "L1", 10, "5"))
	ctx := context.Background()

	_, err := h.entries.CorrectEntry(ctx, production.CorrectionInput{MovementID: "m1", Pieces: ptr(int64(5))})
	assert.ErrorIs(t, err, domain.ErrValidation, "motivo obrigatório")

	_, err = h.entries.CorrectEntry(ctx, production.CorrectionInput{MovementID: "m1", Pieces: ptr(int64(0)), Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.entries.CorrectEntry(ctx, production.CorrectionInput{MovementID: "m1", Pieces: ptr(int64(10)), Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation, "sem mudança")

	_, err = h.entries.CorrectEntry(ctx, production.CorrectionInput{MovementID: "zz", Pieces: ptr(int64(3)), Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordEntry_RejectsOrdersThatLeftMachining(t *testing.T) {
	for _, stage := range []string{entity.StageExpedicaoTecno, entity.StageFinalizado} {
		t.Run(stage, func(t *testing.T) {
			h := newHarness(t)
			h.seedOrder(t, "p1", stage)

			_, err := h.entries.RecordEntry(context.Background(), entryInput("p1", 5))
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			assert.Empty(t, h.movements(t, "p1"))
			assert.Equal(t, int64(100), h.order(t, "p1").AvailablePiecesOr())
		})
	}
}
