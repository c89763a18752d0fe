package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotQuantityRequest quantidade escolhida para um lote.
type LotQuantityRequest struct {
	LotCode  string `json:"lot_code"`
	Quantity int64  `json:"quantity" validate:"gte=0"`
}

// ApprovalRequest body para POST /api/orders/:id/approve e /reopen.
type ApprovalRequest struct {
	Lots []LotQuantityRequest `json:"lots" validate:"required,min=1,dive"`
}

// ApprovalResponse resultado da aprovação/reabertura.
type ApprovalResponse struct {
	OrderID   string `json:"order_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Moved     int64  `json:"moved"`
	Available int64  `json:"available"`
	Full      bool   `json:"full"`
	Reason    string `json:"reason"`
	Stage     string `json:"stage"`
}

// MoveOrderRequest body para POST /api/orders/:id/move.
type MoveOrderRequest struct {
	Unit   string `json:"unit" validate:"required"`
	To     string `json:"to" validate:"required"`
	Reason string `json:"reason" validate:"omitempty,oneof=movimentacao_manual"`
}

// FinalizeRequest body opcional para POST /api/orders/:id/finalize.
type FinalizeRequest struct {
	Unit string `json:"unit"`
}

// TransitionResultResponse resultado de uma transição de estágio.
type TransitionResultResponse struct {
	OrderID string         `json:"order_id"`
	Unit    string         `json:"unit"`
	From    string         `json:"from"`
	To      string         `json:"to"`
	Reason  string         `json:"reason"`
	Order   *OrderResponse `json:"order,omitempty"`
}

// EntryRequest body para POST /api/orders/:id/entries (apontamento).
type EntryRequest struct {
	Pieces           int64      `json:"pieces" validate:"required,gt=0"`
	InspectionPieces *int64     `json:"inspection_pieces,omitempty" validate:"omitempty,gte=0"`
	StartedAt        *time.Time `json:"started_at" validate:"required"`
	FinishedAt       *time.Time `json:"finished_at" validate:"required"`
	Note             string     `json:"note" validate:"max=500"`
	Operator         string     `json:"operator" validate:"max=120"`
}

// EntryResponse movimentos gravados pelo apontamento. Warning preenchido quando os saldos
// do pedido não puderam ser atualizados.
type EntryResponse struct {
	LotCode          string             `json:"lot_code"`
	InspectionPieces int64              `json:"inspection_pieces"`
	PackagingPieces  int64              `json:"packaging_pieces"`
	KgPerPiece       decimal.Decimal    `json:"kg_per_piece"`
	Movements        []MovementResponse `json:"movements"`
	Order            *OrderResponse     `json:"order,omitempty"`
	Warning          string             `json:"warning,omitempty"`
}

// CorrectionRequest body para PATCH /api/movements/:id.
type CorrectionRequest struct {
	Pieces     *int64     `json:"pieces,omitempty" validate:"omitempty,gt=0"`
	Note       *string    `json:"note,omitempty" validate:"omitempty,max=500"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Reason     string     `json:"reason" validate:"required,max=300"`
}

// CorrectionResponse auditoria de uma correção.
type CorrectionResponse struct {
	ID            string         `json:"id"`
	MovementID    string         `json:"movement_id"`
	OrderID       string         `json:"order_id"`
	PreviousValue map[string]any `json:"previous_value"`
	NewValue      map[string]any `json:"new_value"`
	ChangedFields []string       `json:"changed_fields"`
	Reason        string         `json:"reason"`
	CorrectedBy   string         `json:"corrected_by"`
	CorrectedAt   time.Time      `json:"corrected_at"`
}

// CorrectEntryResponse movimento corrigido com sua auditoria.
type CorrectEntryResponse struct {
	Movement   MovementResponse   `json:"movement"`
	Correction CorrectionResponse `json:"correction"`
	Order      *OrderResponse     `json:"order,omitempty"`
	Warning    string             `json:"warning,omitempty"`
}

// BoardCardResponse pedido em uma coluna do quadro.
type BoardCardResponse struct {
	Order   OrderResponse   `json:"order"`
	Pieces  int64           `json:"pieces"`
	Kg      decimal.Decimal `json:"kg"`
	Lots    int             `json:"lots"`
	Nominal bool            `json:"nominal"`
}

// BoardColumnResponse coluna do quadro.
type BoardColumnResponse struct {
	Stage  string              `json:"stage"`
	Pieces int64               `json:"pieces"`
	Kg     decimal.Decimal     `json:"kg"`
	Cards  []BoardCardResponse `json:"cards"`
}
