package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	Origin              string          `json:"origin" validate:"omitempty,oneof=carteira manual arquivo"`
	OrderSeq            string          `json:"order_seq" validate:"required,max=60"`
	Client              string          `json:"client" validate:"max=200"`
	CustomerOrderNumber string          `json:"customer_order_number" validate:"max=60"`
	Tool                string          `json:"tool" validate:"max=120"`
	DeliveryDate        *time.Time      `json:"delivery_date,omitempty"`
	OrderedPieces       int64           `json:"ordered_pieces" validate:"gte=0"`
	OrderedKg           decimal.Decimal `json:"ordered_kg"`
}

// OrderResponse pedido do fluxo.
type OrderResponse struct {
	ID                  string           `json:"id"`
	Origin              string           `json:"origin"`
	OrderSeq            string           `json:"order_seq"`
	Client              string           `json:"client"`
	CustomerOrderNumber string           `json:"customer_order_number"`
	Tool                string           `json:"tool"`
	DeliveryDate        *time.Time       `json:"delivery_date,omitempty"`
	OrderedPieces       int64            `json:"ordered_pieces"`
	OrderedKg           decimal.Decimal  `json:"ordered_kg"`
	AvailablePieces     *int64           `json:"available_pieces"`
	AvailableKg         *decimal.Decimal `json:"available_kg"`
	CumulativePieces    int64            `json:"cumulative_pieces"`
	CumulativeKg        decimal.Decimal  `json:"cumulative_kg"`
	PrimaryStage        string           `json:"primary_stage"`
	SecondaryStage      *string          `json:"secondary_stage"`
	SelectedBy          string           `json:"selected_by"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	BalanceUpdatedAt    *time.Time       `json:"balance_updated_at,omitempty"`
}

// MovementResponse apontamento (linha do livro de lotes).
type MovementResponse struct {
	ID             string          `json:"id"`
	OrderID        string          `json:"order_id"`
	Unit           string          `json:"unit"`
	Stage          string          `json:"stage"`
	LotCode        string          `json:"lot_code"`
	LotBatchID     string          `json:"lot_batch_id"`
	QuantityPieces int64           `json:"quantity_pieces"`
	QuantityKg     decimal.Decimal `json:"quantity_kg"`
	StartedAt      *time.Time      `json:"started_at,omitempty"`
	FinishedAt     *time.Time      `json:"finished_at,omitempty"`
	Note           string          `json:"note,omitempty"`
	Operator       string          `json:"operator,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// LotSummaryResponse agregado por código de lote.
type LotSummaryResponse struct {
	LotCode          string          `json:"lot_code"`
	LotBatchID       string          `json:"lot_batch_id"`
	TotalPieces      int64           `json:"total_pieces"`
	InspectionPieces int64           `json:"inspection_pieces"`
	PackagingPieces  int64           `json:"packaging_pieces"`
	TotalKg          decimal.Decimal `json:"total_kg"`
	StartedAt        *time.Time      `json:"started_at,omitempty"`
	FinishedAt       *time.Time      `json:"finished_at,omitempty"`
	Note             string          `json:"note,omitempty"`
}

// TransitionResponse linha do histórico do pedido.
type TransitionResponse struct {
	ID        string    `json:"id"`
	Unit      string    `json:"unit"`
	Kind      string    `json:"kind"`
	FromStage string    `json:"from_stage"`
	ToStage   string    `json:"to_stage"`
	Reason    string    `json:"reason,omitempty"`
	Actor     string    `json:"actor"`
	At        time.Time `json:"at"`
}
