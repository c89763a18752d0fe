package production

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/exp-usinagem-api/internal/domain"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/lot"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/workflow"
)

// BoardCard pedido em uma coluna do quadro.
type BoardCard struct {
	Order   *entity.Order
	Pieces  int64
	Kg      decimal.Decimal
	Lots    int
	Nominal bool // a coluna é o estágio gravado no pedido
}

// BoardColumn coluna do quadro de uma unidade.
type BoardColumn struct {
	Stage  string
	Pieces int64
	Kg     decimal.Decimal
	Cards  []BoardCard
}

// BoardUseCase quadro por unidade, derivado a cada leitura dos pedidos e apontamentos.
type BoardUseCase struct {
	repos Repos
}

// NewBoardUseCase constrói o caso de uso.
func NewBoardUseCase(repos Repos) *BoardUseCase {
	return &BoardUseCase{repos: repos}
}

// Board monta as colunas da unidade. Pedidos finalizados ou expedidos ao cliente não aparecem.
// Na Alúnica o pedido aparece no estágio nominal, em todo estágio que tem lotes dele e em
// para-usinar enquanto houver saldo a produzir.
func (uc *BoardUseCase) Board(ctx context.Context, unit string) ([]BoardColumn, error) {
	unit = workflow.NormalizeUnit(unit)
	if !workflow.IsValidUnit(unit) {
		return nil, domain.NewValidationError("unit", "unidade desconhecida")
	}
	orders, err := uc.repos.Orders.List(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("listar pedidos", err)
	}
	var movs []*entity.LotMovement
	if unit == entity.UnitAlunica {
		movs, err = uc.repos.Movements.List(ctx)
		if err != nil {
			return nil, domain.NewPersistenceError("listar apontamentos", err)
		}
	}
	return BuildBoard(unit, orders, movs), nil
}

// BuildBoard derivação pura do quadro.
func BuildBoard(unit string, orders []*entity.Order, movements []*entity.LotMovement) []BoardColumn {
	stages := workflow.PrimaryStages
	if unit == entity.UnitAlunica {
		stages = workflow.SecondaryStages
	}
	columns := make([]BoardColumn, 0, len(stages))
	colIndex := map[string]int{}
	for _, s := range stages {
		if !workflow.IsActiveOnBoard(s) {
			continue
		}
		colIndex[s] = len(columns)
		columns = append(columns, BoardColumn{Stage: s, Kg: decimal.Zero})
	}

	byOrder := map[string][]*entity.LotMovement{}
	for _, m := range movements {
		if m.Unit == entity.UnitAlunica {
			byOrder[m.OrderID] = append(byOrder[m.OrderID], m)
		}
	}

	add := func(stage string, card BoardCard) {
		i, ok := colIndex[stage]
		if !ok {
			return
		}
		columns[i].Cards = append(columns[i].Cards, card)
		columns[i].Pieces += card.Pieces
		columns[i].Kg = columns[i].Kg.Add(card.Kg)
	}

	for _, o := range orders {
		if unit == entity.UnitTecnoPerfil {
			if o.SecondaryStage != nil || !workflow.IsActiveOnBoard(o.PrimaryStage) {
				continue
			}
			add(o.PrimaryStage, BoardCard{Order: o, Pieces: o.OrderedPieces, Kg: o.OrderedKg, Nominal: true})
			continue
		}

		nominal := o.StageFor(entity.UnitAlunica)
		if !workflow.IsActiveOnBoard(nominal) {
			continue
		}
		totals := lot.StageTotals(byOrder[o.ID], entity.UnitAlunica)
		avail := o.AvailablePiecesOr()

		for _, s := range stages {
			t, hasLots := totals[s]
			hasLots = hasLots && t.Pieces > 0
			card := BoardCard{Order: o, Pieces: t.Pieces, Kg: t.Kg, Lots: t.Lots, Nominal: s == nominal}
			if card.Kg.IsZero() {
				card.Kg = decimal.Zero
			}
			switch {
			case s == entity.StageParaUsinar && !hasLots:
				if avail > 0 && nominal != entity.StageEstoque && nominal != entity.StageExpedicaoTecno {
					card.Pieces = avail
					card.Kg = o.KgPerPiece().Mul(decimal.NewFromInt(avail)).Round(kgScale)
					add(s, card)
				}
			case hasLots:
				add(s, card)
			case s == nominal:
				add(s, card)
			}
		}
	}
	return columns
}
