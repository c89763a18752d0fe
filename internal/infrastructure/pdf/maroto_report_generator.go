// Package pdf gera o relatório do pedido (ficha de acompanhamento) com Maroto v2.
//
// Layout A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  CABEÇALHO: Pedido/Seq + Cliente   │  Emissão + Estágios     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SALDOS: Pedido | Produzido | Disponível (pcs / kg)          │
//	│  TABELA DE LOTES: Lote | Total | Inspeção | Embalagem | kg   │
//	│  HISTÓRICO: Data | Unidade | De -> Para | Motivo | Usuário   │
//	│  RODAPÉ: QR com o id do pedido                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/exp-usinagem-api/internal/application/production"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/lot"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ production.ReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa production.ReportGenerator.
type MarotoReportGenerator struct{}

func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateOrderReport gera o PDF e devolve seus bytes.
func (g *MarotoReportGenerator) GenerateOrderReport(_ context.Context, r *production.OrderReport) ([]byte, error) {
	if r == nil || r.Order == nil {
		return nil, fmt.Errorf("pdf: relatório sem pedido")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Pedido "+r.Order.OrderSeq, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(balanceRow(r.Order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("LOTES"))
	m.AddRows(lotHeaderRow())
	m.AddRows(lotRows(r.Lots)...)

	m.AddRows(row.New(4))
	m.AddRows(sectionTitle("HISTÓRICO"))
	m.AddRows(historyHeaderRow())
	m.AddRows(historyRows(r.History)...)

	m.AddRows(row.New(4))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(r.Order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(r *production.OrderReport) core.Row {
	o := r.Order
	secondary := "-"
	if o.SecondaryStage != nil {
		secondary = *o.SecondaryStage
	}
	return row.New(22).Add(
		col.New(7).Add(
			text.New("Pedido "+o.OrderSeq, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Cliente: "+nonEmpty(o.Client, "-"), props.Text{Size: 9, Top: 9, Color: colorGray}),
			text.New("Ferramenta: "+nonEmpty(o.Tool, "-"), props.Text{Size: 9, Top: 15, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Emitido em "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Align: align.Right, Top: 1, Color: colorGray}),
			text.New(entity.UnitTecnoPerfil+": "+o.PrimaryStage, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 8}),
			text.New(entity.UnitAlunica+": "+secondary, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 14}),
		),
	)
}

func balanceRow(o *entity.Order) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Size: 10, Top: 7, Align: align.Center}),
		)
	}
	available := "-"
	if o.AvailablePieces != nil {
		available = pcs(*o.AvailablePieces)
		if o.AvailableKg != nil {
			available += " / " + o.AvailableKg.StringFixed(3) + " kg"
		}
	}
	return row.New(14).Add(
		cell("PEDIDO", pcs(o.OrderedPieces)+" / "+o.OrderedKg.StringFixed(3)+" kg"),
		cell("PRODUZIDO", pcs(o.CumulativePieces)+" / "+o.CumulativeKg.StringFixed(3)+" kg"),
		cell("DISPONÍVEL", available),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1}),
	))
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

func lotHeaderRow() core.Row {
	return row.New(6).Add(
		headerCell("Lote", 4, align.Left),
		headerCell("Total", 2, align.Right),
		headerCell("Inspeção", 2, align.Right),
		headerCell("Embalagem", 2, align.Right),
		headerCell("kg", 2, align.Right),
	)
}

func lotRows(lots []lot.Summary) []core.Row {
	if len(lots) == 0 {
		return []core.Row{row.New(6).Add(cell("Nenhum apontamento.", 12, align.Left))}
	}
	out := make([]core.Row, 0, len(lots))
	for _, l := range lots {
		out = append(out, row.New(6).Add(
			cell(l.LotCode, 4, align.Left),
			cell(pcs(l.TotalPieces), 2, align.Right),
			cell(pcs(l.InspectionPieces), 2, align.Right),
			cell(pcs(l.PackagingPieces), 2, align.Right),
			cell(l.TotalKg.StringFixed(3), 2, align.Right),
		))
	}
	return out
}

func historyHeaderRow() core.Row {
	return row.New(6).Add(
		headerCell("Data", 2, align.Left),
		headerCell("Unidade", 2, align.Left),
		headerCell("Transição", 4, align.Left),
		headerCell("Motivo", 2, align.Left),
		headerCell("Usuário", 2, align.Left),
	)
}

func historyRows(entries []*entity.TransitionLogEntry) []core.Row {
	if len(entries) == 0 {
		return []core.Row{row.New(6).Add(cell("Sem movimentações.", 12, align.Left))}
	}
	out := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		out = append(out, row.New(6).Add(
			cell(e.At.Format("02/01 15:04"), 2, align.Left),
			cell(e.Unit, 2, align.Left),
			cell(e.FromStage+" -> "+e.ToStage, 4, align.Left),
			cell(nonEmpty(e.Reason, "-"), 2, align.Left),
			cell(nonEmpty(e.Actor, "-"), 2, align.Left),
		))
	}
	return out
}

func footerRow(o *entity.Order) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(o.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Leia o QR para abrir o pedido no quadro de produção.", props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New(o.ID, props.Text{Size: 7, Top: 12, Left: 3, Color: colorGray}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// pcs formata peças com ponto de milhar. Ex: 12500 -> "12.500 pcs".
func pcs(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	if len(s) > 3 {
		buf := make([]byte, 0, len(s)+len(s)/3)
		for i, c := range []byte(s) {
			if i > 0 && (len(s)-i)%3 == 0 {
				buf = append(buf, '.')
			}
			buf = append(buf, c)
		}
		s = string(buf)
	}
	if neg {
		s = "-" + s
	}
	return s + " pcs"
}
