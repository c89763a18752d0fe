package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/exp-usinagem-api/internal/application/dto"
	"github.com/jhoicas/exp-usinagem-api/internal/application/production"
)

// WorkflowHandler transições de estágio e aprovação de lotes (protegido).
type WorkflowHandler struct {
	uc *production.WorkflowUseCase
}

func NewWorkflowHandler(uc *production.WorkflowUseCase) *WorkflowHandler {
	return &WorkflowHandler{uc: uc}
}

func (h *WorkflowHandler) approvalInput(c *fiber.Ctx) (production.ApprovalInput, bool, error) {
	var in dto.ApprovalRequest
	if ok, err := bind(c, &in); !ok {
		return production.ApprovalInput{}, false, err
	}
	lots := make([]production.LotQuantity, 0, len(in.Lots))
	for _, l := range in.Lots {
		lots = append(lots, production.LotQuantity{LotCode: l.LotCode, Quantity: l.Quantity})
	}
	return production.ApprovalInput{OrderID: c.Params("id"), Actor: GetActor(c), Lots: lots}, true, nil
}

// Approve godoc
// @Summary      Aprovar inspeção por lote
// @Description  Move as quantidades informadas de para-inspecao para para-embarque. O pedido só
//
//	muda de estágio quando todo o saldo de inspeção é aprovado.
//
// @Tags         workflow
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "id do pedido"
// @Param        body  body  dto.ApprovalRequest  true  "lotes e quantidades"
// @Success      200   {object}  dto.ApprovalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/approve [post]
func (h *WorkflowHandler) Approve(c *fiber.Ctx) error {
	in, ok, err := h.approvalInput(c)
	if !ok {
		return err
	}
	res, err := h.uc.Approve(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toApprovalResponse(res))
}

// Reopen devolve quantidades de para-embarque para para-inspecao.
func (h *WorkflowHandler) Reopen(c *fiber.Ctx) error {
	in, ok, err := h.approvalInput(c)
	if !ok {
		return err
	}
	res, err := h.uc.Reopen(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toApprovalResponse(res))
}

func (h *WorkflowHandler) ApproveAll(c *fiber.Ctx) error {
	res, err := h.uc.ApproveAll(c.Context(), c.Params("id"), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toApprovalResponse(res))
}

func (h *WorkflowHandler) ReopenAll(c *fiber.Ctx) error {
	res, err := h.uc.ReopenAll(c.Context(), c.Params("id"), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toApprovalResponse(res))
}

// Move godoc
// @Summary      Movimentar pedido no quadro
// @Tags         workflow
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "id do pedido"
// @Param        body  body  dto.MoveOrderRequest  true  "unidade e estágio de destino"
// @Success      200   {object}  dto.TransitionResultResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/move [post]
func (h *WorkflowHandler) Move(c *fiber.Ctx) error {
	var in dto.MoveOrderRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	res, err := h.uc.MoveOrder(c.Context(), production.MoveOrderInput{
		OrderID: c.Params("id"),
		Unit:    in.Unit,
		To:      in.To,
		Reason:  in.Reason,
		Actor:   GetActor(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTransitionResult(res))
}

// Transfer coloca o pedido expedido pela TecnoPerfil no estoque da Alúnica.
func (h *WorkflowHandler) Transfer(c *fiber.Ctx) error {
	res, err := h.uc.TransferToSecondary(c.Context(), c.Params("id"), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTransitionResult(res))
}

// Finalize aceita a unidade no corpo ou em ?unit=; vazio deixa o caso de uso inferir.
func (h *WorkflowHandler) Finalize(c *fiber.Ctx) error {
	unit := c.Query("unit")
	if len(c.Body()) > 0 {
		var in dto.FinalizeRequest
		if ok, err := bind(c, &in); !ok {
			return err
		}
		if in.Unit != "" {
			unit = in.Unit
		}
	}
	res, err := h.uc.Finalize(c.Context(), c.Params("id"), unit, GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTransitionResult(res))
}
