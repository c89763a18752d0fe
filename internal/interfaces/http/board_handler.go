package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/exp-usinagem-api/internal/application/production"
)

// BoardHandler quadro kanban por unidade.
type BoardHandler struct {
	uc *production.BoardUseCase
}

func NewBoardHandler(uc *production.BoardUseCase) *BoardHandler {
	return &BoardHandler{uc: uc}
}

// Board godoc
// @Summary      Quadro da unidade
// @Tags         board
// @Security     Bearer
// @Produce      json
// @Param        unit  path  string  true  "tecnoperfil | alunica"
// @Success      200   {array}   dto.BoardColumnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/board/{unit} [get]
func (h *BoardHandler) Board(c *fiber.Ctx) error {
	cols, err := h.uc.Board(c.Context(), c.Params("unit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toBoardResponse(cols))
}
