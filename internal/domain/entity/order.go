package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order pedido no fluxo de expedição/usinagem (tabela exp_pedidos_fluxo).
// Invariante: available + cumulative == ordered (com piso em zero).
type Order struct {
	ID                  string
	Origin              string // carteira | manual | arquivo
	OrderSeq            string // pedido/seq
	Client              string
	CustomerOrderNumber string
	Tool                string // ferramenta
	DeliveryDate        *time.Time

	OrderedPieces int64
	OrderedKg     decimal.Decimal

	// Saldos disponíveis podem não ter sido inicializados pelo armazenamento (nil).
	AvailablePieces  *int64
	AvailableKg      *decimal.Decimal
	CumulativePieces int64
	CumulativeKg     decimal.Decimal

	PrimaryStage   string
	SecondaryStage *string // nil até a transferência para a Alúnica

	SelectedBy       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	BalanceUpdatedAt *time.Time
}

// StageFor devolve o estágio do pedido na unidade ("" se ainda não está nela).
func (o *Order) StageFor(unit string) string {
	if unit == UnitAlunica {
		if o.SecondaryStage == nil {
			return ""
		}
		return *o.SecondaryStage
	}
	return o.PrimaryStage
}

// SetStage atualiza o estágio na unidade indicada.
func (o *Order) SetStage(unit, stage string) {
	if unit == UnitAlunica {
		s := stage
		o.SecondaryStage = &s
		return
	}
	o.PrimaryStage = stage
}

// AvailablePiecesOr devolve o saldo disponível ou o derivado de ordered - cumulative.
func (o *Order) AvailablePiecesOr() int64 {
	if o.AvailablePieces != nil {
		return *o.AvailablePieces
	}
	if rem := o.OrderedPieces - o.CumulativePieces; rem > 0 {
		return rem
	}
	return 0
}

// KgPerPiece peso unitário derivado do pedido; zero quando não há dados.
func (o *Order) KgPerPiece() decimal.Decimal {
	if o.OrderedPieces <= 0 || !o.OrderedKg.IsPositive() {
		return decimal.Zero
	}
	return o.OrderedKg.Div(decimal.NewFromInt(o.OrderedPieces))
}
