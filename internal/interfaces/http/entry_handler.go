package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/exp-usinagem-api/internal/application/dto"
	"github.com/jhoicas/exp-usinagem-api/internal/application/production"
)

// EntryHandler apontamentos de produção e suas correções (protegido).
type EntryHandler struct {
	uc *production.EntryUseCase
}

func NewEntryHandler(uc *production.EntryUseCase) *EntryHandler {
	return &EntryHandler{uc: uc}
}

// Record godoc
// @Summary      Registrar apontamento
// @Description  Grava a produção dividida entre inspeção e embalagem. Se os saldos do pedido não
//
//	puderem ser atualizados, o apontamento permanece e a resposta traz "warning".
//
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "id do pedido"
// @Param        body  body  dto.EntryRequest  true  "peças e janela de tempo"
// @Success      201   {object}  dto.EntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/entries [post]
func (h *EntryHandler) Record(c *fiber.Ctx) error {
	var in dto.EntryRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	res, err := h.uc.RecordEntry(c.Context(), production.EntryInput{
		OrderID:          c.Params("id"),
		Pieces:           in.Pieces,
		InspectionPieces: in.InspectionPieces,
		StartedAt:        in.StartedAt,
		FinishedAt:       in.FinishedAt,
		Note:             in.Note,
		Operator:         in.Operator,
		Actor:            GetActor(c),
	})
	if err != nil && !production.IsReconcileError(err) {
		return writeError(c, err)
	}
	out := dto.EntryResponse{
		LotCode:          res.LotCode,
		InspectionPieces: res.Split.Inspection,
		PackagingPieces:  res.Split.Packaging,
		KgPerPiece:       res.KgPerPiece,
		Movements:        toMovementResponses(res.Movements),
		Order:            toOrderResponse(res.Order),
	}
	if err != nil {
		out.Warning = err.Error()
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Correct godoc
// @Summary      Corrigir apontamento
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "id do apontamento"
// @Param        body  body  dto.CorrectionRequest  true  "campos alterados e motivo"
// @Success      200   {object}  dto.CorrectEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [patch]
func (h *EntryHandler) Correct(c *fiber.Ctx) error {
	var in dto.CorrectionRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	res, err := h.uc.CorrectEntry(c.Context(), production.CorrectionInput{
		MovementID: c.Params("id"),
		Pieces:     in.Pieces,
		Note:       in.Note,
		StartedAt:  in.StartedAt,
		FinishedAt: in.FinishedAt,
		Reason:     in.Reason,
		Actor:      GetActor(c),
	})
	if err != nil && !production.IsReconcileError(err) {
		return writeError(c, err)
	}
	out := dto.CorrectEntryResponse{
		Movement:   toMovementResponse(res.Movement),
		Correction: toCorrectionResponse(res.Correction),
		Order:      toOrderResponse(res.Order),
	}
	if err != nil {
		out.Warning = err.Error()
	}
	return c.JSON(out)
}

func (h *EntryHandler) Corrections(c *fiber.Ctx) error {
	list, err := h.uc.ListCorrections(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.CorrectionResponse, 0, len(list))
	for _, corr := range list {
		out = append(out, toCorrectionResponse(corr))
	}
	return c.JSON(out)
}
