package pdf_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/exp-usinagem-api/internal/application/production"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/lot"
	"github.com/jhoicas/exp-usinagem-api/internal/infrastructure/pdf"
)

func TestGenerateOrderReport(t *testing.T) {
	avail := int64(60)
	availKg := decimal.RequireFromString("30")
	secondary := entity.StageParaInspecao
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	report := &production.OrderReport{
		Order: &entity.Order{
			ID: "o-1", OrderSeq: "4512/01", Client: "ACME", Tool: "TR-778",
			OrderedPieces: 100, OrderedKg: decimal.RequireFromString("50"),
			AvailablePieces: &avail, AvailableKg: &availKg,
			CumulativePieces: 40, CumulativeKg: decimal.RequireFromString("20"),
			PrimaryStage: entity.StageExpedicaoAlu, SecondaryStage: &secondary,
		},
		Lots: []lot.Summary{
			{LotCode: "L1-INS-01", TotalPieces: 20, InspectionPieces: 20, TotalKg: decimal.RequireFromString("10")},
			{LotCode: "L1-EMB-01", TotalPieces: 20, PackagingPieces: 20, TotalKg: decimal.RequireFromString("10")},
		},
		History: []*entity.TransitionLogEntry{
			{Unit: entity.UnitAlunica, FromStage: entity.StageParaInspecao, ToStage: entity.StageParaEmbarque,
				Reason: entity.ReasonApprovalPartial, Actor: "ana", At: now},
		},
		GeneratedAt: now,
	}

	out, err := pdf.NewMarotoReportGenerator().GenerateOrderReport(context.Background(), report)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestGenerateOrderReport_EmptyOrderAndSecondary(t *testing.T) {
	report := &production.OrderReport{
		Order:       &entity.Order{ID: "o-2", OrderSeq: "1/1", PrimaryStage: entity.StagePedido},
		GeneratedAt: time.Now(),
	}
	out, err := pdf.NewMarotoReportGenerator().GenerateOrderReport(context.Background(), report)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateOrderReport_RequiresOrder(t *testing.T) {
	_, err := pdf.NewMarotoReportGenerator().GenerateOrderReport(context.Background(), &production.OrderReport{})
	assert.Error(t, err)
}
