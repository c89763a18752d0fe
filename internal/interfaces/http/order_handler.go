package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/exp-usinagem-api/internal/application/dto"
	"github.com/jhoicas/exp-usinagem-api/internal/application/production"
)

// OrderHandler pedidos do fluxo e suas consultas (protegido).
type OrderHandler struct {
	uc *production.OrderUseCase
}

func NewOrderHandler(uc *production.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Incluir pedido no fluxo
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "pedido/seq, cliente, quantidades"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	order, err := h.uc.Create(c.Context(), production.CreateOrderInput{
		Origin:              in.Origin,
		OrderSeq:            in.OrderSeq,
		Client:              in.Client,
		CustomerOrderNumber: in.CustomerOrderNumber,
		Tool:                in.Tool,
		DeliveryDate:        in.DeliveryDate,
		OrderedPieces:       in.OrderedPieces,
		OrderedKg:           in.OrderedKg,
		SelectedBy:          GetActor(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// List godoc
// @Summary      Listar pedidos do fluxo
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]*dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderResponse(o))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obter pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "id do pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Delete remove o pedido e tudo o que depende dele (somente admin).
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id"), GetActor(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Lots godoc
// @Summary      Resumo por lote
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "id do pedido"
// @Param        unit    query  string  false  "tecnoperfil | alunica"
// @Param        stages  query  string  false  "estágios separados por vírgula"
// @Success      200  {array}  dto.LotSummaryResponse
// @Router       /api/orders/{id}/lots [get]
func (h *OrderHandler) Lots(c *fiber.Ctx) error {
	var stages []string
	if raw := c.Query("stages"); raw != "" {
		stages = strings.Split(raw, ",")
	}
	lots, err := h.uc.Lots(c.Context(), c.Params("id"), c.Query("unit"), stages...)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLotResponses(lots))
}

func (h *OrderHandler) Movements(c *fiber.Ctx) error {
	movs, err := h.uc.Movements(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toMovementResponses(movs))
}

func (h *OrderHandler) History(c *fiber.Ctx) error {
	list, err := h.uc.History(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTransitionResponses(list))
}

// Reconcile recalcula os saldos a partir dos apontamentos.
func (h *OrderHandler) Reconcile(c *fiber.Ctx) error {
	order, err := h.uc.Recompute(c.Context(), c.Params("id"), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Report godoc
// @Summary      Relatório do pedido em PDF
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "id do pedido"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/report.pdf [get]
func (h *OrderHandler) Report(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.Report(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
