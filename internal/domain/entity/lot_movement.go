package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotMovement quantidade de um lote colocada em um estágio (tabela apontamentos).
// Linhas do mesmo lote físico compartilham LotBatchID.
type LotMovement struct {
	ID             string
	OrderID        string
	Unit           string
	Stage          string
	LotCode        string
	LotBatchID     string
	QuantityPieces int64
	QuantityKg     decimal.Decimal
	StartedAt      *time.Time
	FinishedAt     *time.Time
	Note           string
	Operator       string
	Product        string
	Client         string
	WorkOrder      string
	CreatedAt      time.Time
}

// Clone cópia rasa com ponteiros de tempo duplicados.
func (m *LotMovement) Clone() *LotMovement {
	c := *m
	if m.StartedAt != nil {
		t := *m.StartedAt
		c.StartedAt = &t
	}
	if m.FinishedAt != nil {
		t := *m.FinishedAt
		c.FinishedAt = &t
	}
	return &c
}
