package http

import (
	"github.com/jhoicas/exp-usinagem-api/internal/application/dto"
	"github.com/jhoicas/exp-usinagem-api/internal/application/production"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/lot"
)

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	return &dto.OrderResponse{
		ID:                  o.ID,
		Origin:              o.Origin,
		OrderSeq:            o.OrderSeq,
		Client:              o.Client,
		CustomerOrderNumber: o.CustomerOrderNumber,
		Tool:                o.Tool,
		DeliveryDate:        o.DeliveryDate,
		OrderedPieces:       o.OrderedPieces,
		OrderedKg:           o.OrderedKg,
		AvailablePieces:     o.AvailablePieces,
		AvailableKg:         o.AvailableKg,
		CumulativePieces:    o.CumulativePieces,
		CumulativeKg:        o.CumulativeKg,
		PrimaryStage:        o.PrimaryStage,
		SecondaryStage:      o.SecondaryStage,
		SelectedBy:          o.SelectedBy,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
		BalanceUpdatedAt:    o.BalanceUpdatedAt,
	}
}

func toMovementResponse(m *entity.LotMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		OrderID:        m.OrderID,
		Unit:           m.Unit,
		Stage:          m.Stage,
		LotCode:        m.LotCode,
		LotBatchID:     lot.BatchOf(m),
		QuantityPieces: m.QuantityPieces,
		QuantityKg:     m.QuantityKg,
		StartedAt:      m.StartedAt,
		FinishedAt:     m.FinishedAt,
		Note:           m.Note,
		Operator:       m.Operator,
		CreatedAt:      m.CreatedAt,
	}
}

func toMovementResponses(list []*entity.LotMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return out
}

func toLotResponses(list []lot.Summary) []dto.LotSummaryResponse {
	out := make([]dto.LotSummaryResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.LotSummaryResponse{
			LotCode:          s.LotCode,
			LotBatchID:       s.LotBatchID,
			TotalPieces:      s.TotalPieces,
			InspectionPieces: s.InspectionPieces,
			PackagingPieces:  s.PackagingPieces,
			TotalKg:          s.TotalKg,
			StartedAt:        s.StartedAt,
			FinishedAt:       s.FinishedAt,
			Note:             s.Note,
		})
	}
	return out
}

func toTransitionResponses(list []*entity.TransitionLogEntry) []dto.TransitionResponse {
	out := make([]dto.TransitionResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.TransitionResponse{
			ID: e.ID, Unit: e.Unit, Kind: e.Kind, FromStage: e.FromStage,
			ToStage: e.ToStage, Reason: e.Reason, Actor: e.Actor, At: e.At,
		})
	}
	return out
}

func toCorrectionResponse(c *entity.EntryCorrection) dto.CorrectionResponse {
	return dto.CorrectionResponse{
		ID:            c.ID,
		MovementID:    c.MovementID,
		OrderID:       c.OrderID,
		PreviousValue: c.PreviousValue,
		NewValue:      c.NewValue,
		ChangedFields: c.ChangedFields,
		Reason:        c.Reason,
		CorrectedBy:   c.CorrectedBy,
		CorrectedAt:   c.CorrectedAt,
	}
}

func toApprovalResponse(r *production.ApprovalResult) dto.ApprovalResponse {
	return dto.ApprovalResponse{
		OrderID: r.OrderID, From: r.From, To: r.To, Moved: r.Moved,
		Available: r.Available, Full: r.Full, Reason: r.Reason, Stage: r.Stage,
	}
}

func toTransitionResult(r *production.TransitionResult) dto.TransitionResultResponse {
	return dto.TransitionResultResponse{
		OrderID: r.OrderID, Unit: r.Unit, From: r.From, To: r.To,
		Reason: r.Reason, Order: toOrderResponse(r.Order),
	}
}

func toBoardResponse(cols []production.BoardColumn) []dto.BoardColumnResponse {
	out := make([]dto.BoardColumnResponse, 0, len(cols))
	for _, col := range cols {
		cards := make([]dto.BoardCardResponse, 0, len(col.Cards))
		for _, card := range col.Cards {
			cards = append(cards, dto.BoardCardResponse{
				Order:   *toOrderResponse(card.Order),
				Pieces:  card.Pieces,
				Kg:      card.Kg,
				Lots:    card.Lots,
				Nominal: card.Nominal,
			})
		}
		out = append(out, dto.BoardColumnResponse{Stage: col.Stage, Pieces: col.Pieces, Kg: col.Kg, Cards: cards})
	}
	return out
}
